// Package services – ScreeningService
//
// This file implements the ScreeningService, which owns the donor medical
// questionnaire (MedicalInfo). A submission replaces the previous one
// wholesale: the questionnaire is the donor's current self-reported state,
// not an event log. Ownership is enforced here; the questionnaire's meaning
// (deferral windows, permanent conditions) is interpreted elsewhere by the
// eligibility evaluator.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/donorlink/go-donor-backend/internal/domain"
	"github.com/donorlink/go-donor-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ScreeningService implements the use-cases around the medical questionnaire.
type ScreeningService struct {
	// DB is the database handle used for all screening operations.
	DB *gorm.DB
}

// Submit stores the questionnaire mi for donorID on behalf of userID,
// replacing any previous submission.
//
// Semantics and validation:
//   - The donor profile must exist and belong to userID; otherwise
//     ErrDonorNotFound.
//   - mi.DonationTypeOffered must be a supported type; otherwise
//     ErrInvalidDonationType.
//   - mi.DonorID is overwritten with donorID; the caller cannot submit a
//     questionnaire for somebody else by smuggling a different ID.
//
// Errors:
//   - Returns the service-level sentinel errors for the validation cases
//     above, or the underlying DB error for unexpected failures.
func (s *ScreeningService) Submit(ctx context.Context, userID, donorID string, mi *domain.MedicalInfo) (*domain.MedicalInfo, error) {
	tr := otel.Tracer("services/ScreeningService")
	ctx, span := tr.Start(ctx, "Submit",
		trace.WithAttributes(
			attribute.String("donor.id", donorID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	if !validDonationType(mi.DonationTypeOffered) {
		return nil, ErrInvalidDonationType
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

	mi.DonorID = donorID
	return repo.UpsertMedicalInfo(ctx, s.DB, mi)
}

// Get returns the donor's current questionnaire, or ErrScreeningNotFound
// when none has been submitted. The donor profile itself must exist.
func (s *ScreeningService) Get(ctx context.Context, donorID string) (*domain.MedicalInfo, error) {
	if _, err := repo.GetDonor(ctx, s.DB, donorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonorNotFound
		}
		return nil, err
	}
	mi, err := repo.GetMedicalInfo(ctx, s.DB, donorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScreeningNotFound
		}
		return nil, err
	}
	return mi, nil
}
