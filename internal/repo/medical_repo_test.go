package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/donorlink/go-donor-backend/internal/domain"
)

func newMedicalRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("medical_repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestGetMedicalInfo_NotFound(t *testing.T) {
	db := newMedicalRepoDB(t, &domain.MedicalInfo{})
	mi, err := GetMedicalInfo(context.Background(), db, "d1")
	if mi != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound), got (%v, %v)", mi, err)
	}
}

func TestUpsertMedicalInfo_CreateThenReplace(t *testing.T) {
	db := newMedicalRepoDB(t, &domain.MedicalInfo{})

	first := &domain.MedicalInfo{
		DonorID:             "d1",
		DonationTypeOffered: domain.DonationWholeBlood,
		HasVaccination:      true,
	}
	stored, err := UpsertMedicalInfo(context.Background(), db, first)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if stored.ID == "" || stored.CreatedAt.IsZero() {
		t.Fatalf("first upsert did not stamp identity: %+v", stored)
	}

	// Resubmission keeps the row identity but replaces the payload.
	second := &domain.MedicalInfo{
		DonorID:             "d1",
		DonationTypeOffered: domain.DonationPlasma,
	}
	replaced, err := UpsertMedicalInfo(context.Background(), db, second)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if replaced.ID != stored.ID {
		t.Fatalf("upsert minted a new row: %s vs %s", replaced.ID, stored.ID)
	}

	got, err := GetMedicalInfo(context.Background(), db, "d1")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.DonationTypeOffered != domain.DonationPlasma || got.HasVaccination {
		t.Fatalf("payload not replaced wholesale: %+v", got)
	}

	// Exactly one row per donor.
	var n int64
	if err := db.Model(&domain.MedicalInfo{}).Where("donor_id = ?", "d1").Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 questionnaire row, got %d", n)
	}
}

func TestStampDonation(t *testing.T) {
	db := newMedicalRepoDB(t, &domain.MedicalInfo{})

	// No questionnaire row: nothing to stamp.
	if err := StampDonation(context.Background(), db, "d1", time.Now().UTC()); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound without a row, got %v", err)
	}

	if _, err := UpsertMedicalInfo(context.Background(), db, &domain.MedicalInfo{
		DonorID:             "d1",
		DonationTypeOffered: domain.DonationWholeBlood,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	when := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	if err := StampDonation(context.Background(), db, "d1", when); err != nil {
		t.Fatalf("StampDonation: %v", err)
	}
	if err := StampDonation(context.Background(), db, "d1", when.AddDate(0, 1, 0)); err != nil {
		t.Fatalf("StampDonation again: %v", err)
	}

	got, err := GetMedicalInfo(context.Background(), db, "d1")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.LastDonationDate == nil || !got.LastDonationDate.Equal(when.AddDate(0, 1, 0)) {
		t.Fatalf("last donation date not advanced: %v", got.LastDonationDate)
	}
	if got.YearlyDonationsCount != 2 {
		t.Fatalf("yearly count = %d, want 2", got.YearlyDonationsCount)
	}
}
