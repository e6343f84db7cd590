package services

import (
	"context"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/donorlink/go-donor-backend/internal/domain"
	"github.com/donorlink/go-donor-backend/internal/repo"
)

// newServiceDB opens a unique in-memory SQLite database with the full schema,
// for service tests that exercise real persistence.
func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:services_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := db.AutoMigrate(
		&domain.DonorProfile{},
		&domain.MedicalInfo{},
		&domain.DonationRecord{},
		&domain.DonationRequest{},
		&domain.Idempotency{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// seedServiceDonor inserts an approved, visible donor profile with fixed
// blood attributes (II positive).
func seedServiceDonor(t *testing.T, db *gorm.DB, id, userID string) *domain.DonorProfile {
	t.Helper()
	p := &domain.DonorProfile{
		ID:                     id,
		UserID:                 userID,
		DisplayName:            "Donor " + id,
		BloodType:              domain.BloodTypeII,
		Rh:                     domain.RhPositive,
		VerificationStatus:     domain.VerificationApproved,
		AllowProfileVisibility: true,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed donor %s: %v", id, err)
	}
	return p
}

// serviceRepoShim adapts the free-function repo package to the DonorRepo
// interface, mirroring the production wiring.
type serviceRepoShim struct{}

func (serviceRepoShim) CreateDonor(ctx context.Context, db *gorm.DB, userID, displayName string, bt domain.BloodType, rh domain.RhFactor, visible bool) (*domain.DonorProfile, error) {
	return repo.CreateDonor(ctx, db, userID, displayName, bt, rh, visible)
}

func (serviceRepoShim) GetDonor(ctx context.Context, db *gorm.DB, id string) (*domain.DonorProfile, error) {
	return repo.GetDonor(ctx, db, id)
}

func (serviceRepoShim) GetDonorByUser(ctx context.Context, db *gorm.DB, userID string) (*domain.DonorProfile, error) {
	return repo.GetDonorByUser(ctx, db, userID)
}

func (serviceRepoShim) CountDonors(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountDonors(ctx, db)
}

func (serviceRepoShim) ListDonorsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.DonorProfile, error) {
	return repo.ListDonorsPage(ctx, db, offset, limit)
}

func (serviceRepoShim) UpdateDonorProfile(ctx context.Context, db *gorm.DB, id, userID, displayName string, visible bool) error {
	return repo.UpdateDonorProfile(ctx, db, id, userID, displayName, visible)
}
