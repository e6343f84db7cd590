// Donation HTTP handlers.
//
// This file exposes REST endpoints for donation history:
//   - POST /donors/{id}/donations   (record a completed donation)
//   - GET  /donors/{id}/donations   (list paginated history for a donor)
//
// Handlers are transport-thin:
//   - validate & normalize inputs
//   - delegate to application services (DonationService)
//   - implement conditional responses (ETag) and idempotency semantics
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// result exists for (user, donor, key), the handler returns that recorded
// donation and sets `Idempotency-Replayed: true`. Recording a donation is not
// naturally idempotent (retries would inflate the history), so the key is the
// safe-retry mechanism for flaky clients.
package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/donorlink/go-donor-backend/internal/domain"
	"github.com/donorlink/go-donor-backend/internal/repo"
	"github.com/donorlink/go-donor-backend/internal/services"
)

//
// DTOs
//

// RecordDonationRequest is the JSON payload for recording a donation.
type RecordDonationRequest struct {
	// Type is the donation type: whole_blood, plasma, or platelets.
	Type string `json:"type" binding:"required" example:"whole_blood"`
	// Date is when the donation took place (RFC 3339, not in the future).
	Date time.Time `json:"date" binding:"required" example:"2025-03-01T10:00:00Z"`
}

// RecordDonationResponse is the JSON envelope for a newly recorded donation.
type RecordDonationResponse struct {
	// Donation is the history row created as a result of the request.
	Donation *domain.DonationRecord `json:"donation"`
}

// ListDonationsResponse contains a page of donation history and pagination
// metadata.
type ListDonationsResponse struct {
	Donations  []domain.DonationRecord `json:"donations"`
	Pagination Pagination              `json:"pagination"`
}

//
// Handlers
//

// RecordDonation godoc
// @ID          recordDonation
// @Summary     Record a completed donation
// @Description Appends a donation to the donor's history and stamps the questionnaire's
// @Description last-donation date. Supports idempotency via the Idempotency-Key header
// @Description (same key → same result).
// @Tags        Donations
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  true  "User ID that owns the donor profile"  example(user123)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       id               path    string  true  "Donor ID (UUID)"              format(uuid)
// @Param       body             body    handlers.RecordDonationRequest  true  "Donation payload"
//
// @Success     201  {object}  handlers.RecordDonationResponse  "Recorded donation"
// @Failure     400  {object}  handlers.ErrorResponse           "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse           "Donor not found"
// @Failure     500  {object}  handlers.ErrorResponse           "Internal error"
// @Router      /donors/{id}/donations [post]
func (h *Handlers) RecordDonation(c *gin.Context) {
	ctx := c.Request.Context()
	donorID := c.Param("id")

	if _, err := uuid.Parse(donorID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "donor id must be a UUID")
		return
	}

	var req RecordDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "type and date required")
		return
	}

	currentUser := userID(c)

	// Idempotency (replay path) – read validated key if present.
	idemKey, _ := middlewareGetIdempotencyKey(c)
	if idemKey != "" {
		if svc, okSvc := h.donSvc.(*services.DonationService); okSvc && svc.DB != nil {
			if rec, err := repo.GetIdempotency(ctx, svc.DB, currentUser, donorID, idemKey, time.Now().UTC()); err == nil && rec != nil {
				var prev domain.DonationRecord
				if err2 := svc.DB.WithContext(ctx).First(&prev, "id = ?", rec.ResultID).Error; err2 == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusCreated, RecordDonationResponse{Donation: &prev})
					return
				}
			}
		}
	}

	d, err := h.donSvc.Record(ctx, currentUser, donorID, domain.DonationType(req.Type), req.Date)
	if err != nil {
		switch err {
		case services.ErrDonorNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "donor not found")
		case services.ErrInvalidDonationType, services.ErrInvalidDonationDate:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeRecordFailed, err.Error())
		}
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" {
		if svc, ok := h.donSvc.(*services.DonationService); ok && svc.DB != nil {
			ttl := 24 * time.Hour
			_, _ = repo.CreateIdempotency(ctx, svc.DB, currentUser, donorID, idemKey, d.ID, http.StatusCreated, ttl)
		}
	}

	ok(c, http.StatusCreated, RecordDonationResponse{Donation: d})
}

// ListDonations godoc
// @ID          listDonations
// @Summary     List a donor's donation history
// @Description Returns a paginated list of the donor's recorded donations, newest first.
// @Tags        Donations
// @Produce     json
//
// @Param       id         path   string  true  "Donor ID (UUID)"  format(uuid)
// @Param       page       query  int     false "Page number"      minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"   minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListDonationsResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Donor not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /donors/{id}/donations [get]
func (h *Handlers) ListDonations(c *gin.Context) {
	ctx := c.Request.Context()
	donorID := c.Param("id")

	if _, err := uuid.Parse(donorID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "donor id must be a UUID")
		return
	}

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, ok := h.donSvc.(*services.DonationService); ok {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.DonationsStats(ctx, db, donorID)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"donations:%s:%d:%d"`, donorID, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	page, pageSize := clampPagination(c)

	items, total, err := h.donSvc.ListPage(ctx, donorID, page, pageSize)
	if err != nil {
		switch err {
		case services.ErrDonorNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "donor not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		}
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListDonationsResponse{
		Donations: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// middlewareGetIdempotencyKey extracts an idempotency key if an upstream
// middleware has already validated/stashed it. The fallback behavior reads
// the "Idempotency-Key" header directly when no dedicated middleware exists.
func middlewareGetIdempotencyKey(c *gin.Context) (string, bool) {
	if v := strings.TrimSpace(c.GetHeader("Idempotency-Key")); v != "" {
		return v, true
	}
	return "", false
}
