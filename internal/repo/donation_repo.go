// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// DonationRecord model. Records are append-only: nothing here updates or
// deletes a donation once written.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/donorlink/go-donor-backend/internal/domain"
)

// CreateDonation inserts a new donation record for donorID. SequenceNumber is
// derived from the donor's current record count (1-based) at insert time, so
// callers recording a donation should run this inside a transaction together
// with StampDonation to keep the count and questionnaire consistent.
func CreateDonation(ctx context.Context, db *gorm.DB, donorID string, t domain.DonationType, date time.Time) (*domain.DonationRecord, error) {
	count, err := CountDonations(ctx, db, donorID)
	if err != nil {
		return nil, err
	}
	rec := &domain.DonationRecord{
		ID:             uuid.NewString(),
		DonorID:        donorID,
		Type:           t,
		Date:           date.UTC(),
		SequenceNumber: int(count) + 1,
		CreatedAt:      time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// CountDonations returns the total number of donation records for donorID.
func CountDonations(ctx context.Context, db *gorm.DB, donorID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.DonationRecord{}).
		Where("donor_id = ?", donorID).
		Count(&total).Error
	return total, err
}

// ListDonations returns all donation records for donorID ordered
// deterministically (Date ASC, ID ASC). Used to build eligibility snapshots.
func ListDonations(ctx context.Context, db *gorm.DB, donorID string) ([]domain.DonationRecord, error) {
	var out []domain.DonationRecord
	err := db.WithContext(ctx).
		Where("donor_id = ?", donorID).
		Order("date ASC, id ASC").
		Find(&out).Error
	return out, err
}

// ListDonationsPage returns a paginated slice of donation records for
// donorID, most recent first. Use CountDonations for pagination metadata.
func ListDonationsPage(ctx context.Context, db *gorm.DB, donorID string, offset, limit int) ([]domain.DonationRecord, error) {
	var out []domain.DonationRecord
	err := db.WithContext(ctx).
		Where("donor_id = ?", donorID).
		Order("date DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// LatestDonation fetches the donor's most recent donation record by date,
// or ErrNotFound when the donor has no recorded history.
func LatestDonation(ctx context.Context, db *gorm.DB, donorID string) (*domain.DonationRecord, error) {
	var rec domain.DonationRecord
	err := db.WithContext(ctx).
		Where("donor_id = ?", donorID).
		Order("date DESC, id DESC").
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
