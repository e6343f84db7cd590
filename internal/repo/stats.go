// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/donorlink/go-donor-backend/internal/domain"
)

// DonorsStats returns aggregate metadata for the donor listing: the total
// number of profiles and the maximum UpdatedAt timestamp among them.
//
// It executes two lightweight queries against the donor_profiles table.
// When no donors exist, the returned count is 0 and maxUpdatedAt is nil.
//
// Return values:
//   - count:        total donor profiles
//   - maxUpdatedAt: pointer to the greatest UpdatedAt, or nil if no rows
//   - err:          database error, if any
func DonorsStats(ctx context.Context, db *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.DonorProfile{})

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// DonationsStats returns aggregate metadata for a donor's history: the total
// number of donation records and the maximum UpdatedAt timestamp among them.
//
// It executes two lightweight queries against the donation_records table
// scoped to the provided donorID. When the donor has no recorded donations,
// the returned count is 0 and maxUpdatedAt is nil.
//
// Return values:
//   - count:        total donation records for donorID
//   - maxUpdatedAt: pointer to the greatest UpdatedAt, or nil if no rows
//   - err:          database error, if any
func DonationsStats(ctx context.Context, db *gorm.DB, donorID string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.DonationRecord{}).Where("donor_id = ?", donorID)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
