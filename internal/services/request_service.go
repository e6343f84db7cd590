// Package services – RequestService
//
// This file implements the RequestService, which governs the seeker→donor
// donation request workflow: a seeker asks a specific donor to donate; the
// donor accepts or declines. It enforces business rules (donor must be
// approved and visible, only the addressed donor may answer, a request is
// answered at most once) and leaves further coordination to channels outside
// this backend.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/donorlink/go-donor-backend/internal/domain"
	"github.com/donorlink/go-donor-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RequestService implements the use-cases around donation requests.
type RequestService struct {
	// DB is the database handle used for all request operations.
	DB *gorm.DB

	// MessageMaxLen caps the optional free-text message, in bytes.
	MessageMaxLen int
}

// Create files a pending request from seekerID toward donorID.
//
// Semantics and validation:
//   - t must be a supported donation type; otherwise ErrInvalidDonationType.
//   - The donor must exist; otherwise ErrDonorNotFound.
//   - The donor must be approved and visible; otherwise ErrDonorNotRequestable.
//   - The free-text message is trimmed and clipped to MessageMaxLen
//     (default 1000 bytes).
func (s *RequestService) Create(ctx context.Context, seekerID, donorID string, t domain.DonationType, message string) (*domain.DonationRequest, error) {
	tr := otel.Tracer("services/RequestService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(
			attribute.String("seeker.id", seekerID),
			attribute.String("donor.id", donorID),
		),
	)
	defer span.End()

	if !validDonationType(t) {
		return nil, ErrInvalidDonationType
	}

	donor, err := repo.GetDonor(ctx, s.DB, donorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonorNotFound
		}
		return nil, err
	}
	if donor.VerificationStatus != domain.VerificationApproved || !donor.AllowProfileVisibility {
		return nil, ErrDonorNotRequestable
	}

	message = strings.TrimSpace(message)
	maxLen := s.MessageMaxLen
	if maxLen <= 0 {
		maxLen = 1000
	}
	if len(message) > maxLen {
		message = message[:maxLen]
	}

	return repo.CreateRequest(ctx, s.DB, seekerID, donorID, t, message)
}

// Answer resolves a pending request on behalf of userID, who must own the
// addressed donor profile. accept moves the request to accepted, otherwise
// declined.
//
// Errors:
//   - ErrRequestNotFound when the request does not exist.
//   - ErrForbiddenRequest when userID does not own the addressed donor.
//   - ErrRequestNotPending when the request was already answered.
func (s *RequestService) Answer(ctx context.Context, userID, requestID string, accept bool) error {
	tr := otel.Tracer("services/RequestService")
	ctx, span := tr.Start(ctx, "Answer",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
			attribute.Bool("accept", accept),
		),
	)
	defer span.End()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, err := repo.GetRequest(ctx, tx, requestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}

		donor, err := repo.GetDonor(ctx, tx, req.DonorID)
		if err != nil {
			// Request exists but its donor is gone; treat as unanswerable.
			return ErrForbiddenRequest
		}
		if donor.UserID != userID {
			return ErrForbiddenRequest
		}
		if req.Status != domain.RequestPending {
			return ErrRequestNotPending
		}

		status := domain.RequestDeclined
		if accept {
			status = domain.RequestAccepted
		}
		if err := repo.UpdateRequestStatus(ctx, tx, requestID, status); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Lost a race with a concurrent answer.
				return ErrRequestNotPending
			}
			return err
		}
		return nil
	})
}

// ListForSeeker returns the requests the seeker has filed, most recent first.
func (s *RequestService) ListForSeeker(ctx context.Context, seekerID string) ([]domain.DonationRequest, error) {
	return repo.ListRequestsBySeeker(ctx, s.DB, seekerID)
}

// ListForDonor returns the requests addressed to the donor profile owned by
// userID, most recent first. A user without a donor profile gets
// ErrDonorNotFound.
func (s *RequestService) ListForDonor(ctx context.Context, userID string) ([]domain.DonationRequest, error) {
	donor, err := repo.GetDonorByUser(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonorNotFound
		}
		return nil, err
	}
	return repo.ListRequestsByDonor(ctx, s.DB, donor.ID)
}
