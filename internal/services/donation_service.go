// Package services – DonationService
//
// This file implements the DonationService, which records completed donations
// and serves donation history. Recording is the one multi-row mutation in the
// system: the immutable DonationRecord insert and the questionnaire
// bookkeeping (LastDonationDate, YearlyDonationsCount) happen in a single
// transaction so eligibility evaluation always reads a consistent snapshot.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/donorlink/go-donor-backend/internal/domain"
	"github.com/donorlink/go-donor-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DonationService coordinates donation recording and history retrieval.
type DonationService struct {
	// DB is the database handle used for all donation operations.
	DB *gorm.DB

	// Now supplies the current instant; injectable for deterministic tests.
	Now func() time.Time
}

// now returns the injected clock or falls back to wall-clock UTC.
func (s *DonationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Record persists a completed donation for donorID on behalf of userID.
//
// Semantics and validation:
//   - The donor profile must exist and belong to userID; otherwise
//     ErrDonorNotFound.
//   - t must be a supported donation type; otherwise ErrInvalidDonationType.
//   - date must be set and must not lie in the future; otherwise
//     ErrInvalidDonationDate.
//
// Concurrency & atomicity:
//   - The DonationRecord insert (with its derived sequence number) and the
//     questionnaire stamp run inside one transaction. A donor without a
//     questionnaire still gets the record; only the stamp is skipped.
func (s *DonationService) Record(ctx context.Context, userID, donorID string, t domain.DonationType, date time.Time) (*domain.DonationRecord, error) {
	tr := otel.Tracer("services/DonationService")
	ctx, span := tr.Start(ctx, "Record",
		trace.WithAttributes(
			attribute.String("donor.id", donorID),
			attribute.String("donation.type", string(t)),
		),
	)
	defer span.End()

	if !validDonationType(t) {
		return nil, ErrInvalidDonationType
	}
	if date.IsZero() || date.After(s.now()) {
		return nil, ErrInvalidDonationDate
	}

	donor, err := repo.GetDonor(ctx, s.DB, donorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonorNotFound
		}
		return nil, err
	}
	if donor.UserID != userID {
		return nil, ErrDonorNotFound
	}

	var rec *domain.DonationRecord
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := repo.CreateDonation(ctx, tx, donorID, t, date)
		if err != nil {
			return err
		}
		rec = r

		// Questionnaire bookkeeping; a donor who never screened has no row
		// to stamp, which is fine.
		if err := repo.StampDonation(ctx, tx, donorID, date.UTC()); err != nil &&
			!errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListPage returns paginated donation history for a donor, most recent first.
func (s *DonationService) ListPage(ctx context.Context, donorID string, page, pageSize int) ([]domain.DonationRecord, int64, error) {
	tr := otel.Tracer("services/DonationService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("donor.id", donorID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	if _, err := repo.GetDonor(ctx, s.DB, donorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrDonorNotFound
		}
		return nil, 0, err
	}

	total, err := repo.CountDonations(ctx, s.DB, donorID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.DonationRecord{}, 0, nil
	}

	items, err := repo.ListDonationsPage(ctx, s.DB, donorID, offset, pageSize)
	return items, total, err
}
