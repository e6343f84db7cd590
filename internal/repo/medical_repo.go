// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the MedicalInfo
// model (the donor's medical questionnaire).
//
// The repository follows a "thin" approach: it performs persistence and simple
// query composition, leaving the eligibility rules to the services and
// eligibility packages.
//
// Error semantics:
//   - GetMedicalInfo returns ErrNotFound when the donor has not submitted a
//     questionnaire; callers decide what an absent screening means (that is
//     a policy concern, not a storage one).
//   - On other DB errors, the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/donorlink/go-donor-backend/internal/domain"
)

// GetMedicalInfo fetches the questionnaire row for donorID, or ErrNotFound.
func GetMedicalInfo(ctx context.Context, db *gorm.DB, donorID string) (*domain.MedicalInfo, error) {
	var mi domain.MedicalInfo
	if err := db.WithContext(ctx).Where("donor_id = ?", donorID).First(&mi).Error; err != nil {
		return nil, err
	}
	return &mi, nil
}

// UpsertMedicalInfo stores the questionnaire for mi.DonorID, replacing any
// previous submission in place so the row ID stays stable. The caller fills
// every flag/date field; unset fields overwrite prior values (a resubmission
// is authoritative).
//
// On first submission a new row with a fresh UUID is created.
func UpsertMedicalInfo(ctx context.Context, db *gorm.DB, mi *domain.MedicalInfo) (*domain.MedicalInfo, error) {
	var existing domain.MedicalInfo
	err := db.WithContext(ctx).Where("donor_id = ?", mi.DonorID).First(&existing).Error
	switch {
	case err == nil:
		mi.ID = existing.ID
		mi.CreatedAt = existing.CreatedAt
		if err := db.WithContext(ctx).Save(mi).Error; err != nil {
			return nil, err
		}
		return mi, nil
	case err == gorm.ErrRecordNotFound:
		mi.ID = uuid.NewString()
		mi.CreatedAt = time.Now().UTC()
		if err := db.WithContext(ctx).Create(mi).Error; err != nil {
			return nil, err
		}
		return mi, nil
	default:
		return nil, err
	}
}

// StampDonation records donation bookkeeping on the questionnaire row:
// LastDonationDate is advanced to date and YearlyDonationsCount is
// incremented. Intended to run inside the same transaction that inserts the
// DonationRecord. If the donor has no questionnaire row, it returns
// ErrNotFound and the caller decides whether that matters.
func StampDonation(ctx context.Context, db *gorm.DB, donorID string, date time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.MedicalInfo{}).
		Where("donor_id = ?", donorID).
		Updates(map[string]any{
			"last_donation_date":     date,
			"yearly_donations_count": gorm.Expr("yearly_donations_count + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
