// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// DonorProfile model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition. In particular, nothing here knows about
// eligibility: SearchDonors applies only the attribute gates that are
// expressible in SQL (verification, visibility, blood attributes); the
// temporal medical rules run in the services/eligibility layers.
//
// Error semantics:
//   - When a donor is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/donorlink/go-donor-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateDonor inserts a new DonorProfile row owned by userID. The donor ID is
// a randomly generated UUID (string), and CreatedAt is set to UTC. New
// profiles start unverified and hidden; moderation flips VerificationStatus.
//
// On success, it returns the persisted DonorProfile. On failure, it returns a DB error.
func CreateDonor(ctx context.Context, db *gorm.DB, userID, displayName string, bt domain.BloodType, rh domain.RhFactor, visible bool) (*domain.DonorProfile, error) {
	d := &domain.DonorProfile{
		ID:                     uuid.NewString(),
		UserID:                 userID,
		DisplayName:            displayName,
		BloodType:              bt,
		Rh:                     rh,
		VerificationStatus:     domain.VerificationPending,
		AllowProfileVisibility: visible,
		CreatedAt:              time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

// GetDonor fetches a single donor profile by its ID. If the record does not
// exist, it returns ErrNotFound. On other DB errors, the raw error is returned.
func GetDonor(ctx context.Context, db *gorm.DB, id string) (*domain.DonorProfile, error) {
	var d domain.DonorProfile
	if err := db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDonorByUser fetches the donor profile owned by userID, or ErrNotFound.
func GetDonorByUser(ctx context.Context, db *gorm.DB, userID string) (*domain.DonorProfile, error) {
	var d domain.DonorProfile
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// CountDonors returns the total number of donor profiles.
// On DB error, it returns the error.
func CountDonors(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.DonorProfile{}).
		Count(&total).Error
	return total, err
}

// ListDonorsPage returns a paginated slice of donor profiles, ordered by
// registration time descending. Use CountDonors to obtain the total for
// pagination metadata. On DB error, it returns the error.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListDonorsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.DonorProfile, error) {
	var out []domain.DonorProfile
	err := db.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdateDonorProfile updates the mutable attributes of a donor profile
// identified by id and owned by userID. If no rows are affected (donor
// missing or not owned by userID), it returns ErrNotFound. On DB error,
// the raw error is returned.
func UpdateDonorProfile(ctx context.Context, db *gorm.DB, id, userID, displayName string, visible bool) error {
	res := db.WithContext(ctx).
		Model(&domain.DonorProfile{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{
			"display_name":             displayName,
			"allow_profile_visibility": visible,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SearchDonors returns approved, visible donor profiles matching optional
// blood attribute filters, ordered by registration time descending for
// deterministic results. Empty filter values are not applied.
func SearchDonors(ctx context.Context, db *gorm.DB, bt domain.BloodType, rh domain.RhFactor) ([]domain.DonorProfile, error) {
	q := db.WithContext(ctx).
		Where("verification_status = ?", domain.VerificationApproved).
		Where("allow_profile_visibility = ?", true)
	if bt != "" {
		q = q.Where("blood_type = ?", bt)
	}
	if rh != "" {
		q = q.Where("rh = ?", rh)
	}
	var out []domain.DonorProfile
	err := q.Order("created_at desc").Find(&out).Error
	return out, err
}
