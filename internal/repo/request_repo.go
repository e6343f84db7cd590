// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// DonationRequest model (a seeker asking a specific donor to donate).
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/donorlink/go-donor-backend/internal/domain"
)

// CreateRequest inserts a new pending donation request from seekerID toward
// donorID. On success, it returns the persisted request.
func CreateRequest(ctx context.Context, db *gorm.DB, seekerID, donorID string, t domain.DonationType, message string) (*domain.DonationRequest, error) {
	r := &domain.DonationRequest{
		ID:        uuid.NewString(),
		SeekerID:  seekerID,
		DonorID:   donorID,
		Type:      t,
		Message:   message,
		Status:    domain.RequestPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// GetRequest fetches a donation request by ID, or ErrNotFound.
func GetRequest(ctx context.Context, db *gorm.DB, id string) (*domain.DonationRequest, error) {
	var r domain.DonationRequest
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRequestsBySeeker returns the seeker's requests, most recent first.
func ListRequestsBySeeker(ctx context.Context, db *gorm.DB, seekerID string) ([]domain.DonationRequest, error) {
	var out []domain.DonationRequest
	err := db.WithContext(ctx).
		Where("seeker_id = ?", seekerID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// ListRequestsByDonor returns the requests addressed to donorID, most recent
// first.
func ListRequestsByDonor(ctx context.Context, db *gorm.DB, donorID string) ([]domain.DonationRequest, error) {
	var out []domain.DonationRequest
	err := db.WithContext(ctx).
		Where("donor_id = ?", donorID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// UpdateRequestStatus moves a request identified by id from "pending" to the
// given status. The WHERE clause enforces the pending precondition, so a
// concurrent double-answer loses with ErrNotFound instead of overwriting.
func UpdateRequestStatus(ctx context.Context, db *gorm.DB, id string, status domain.RequestStatus) error {
	res := db.WithContext(ctx).
		Model(&domain.DonationRequest{}).
		Where("id = ? AND status = ?", id, domain.RequestPending).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
