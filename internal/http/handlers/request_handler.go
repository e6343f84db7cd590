// Donation request HTTP handlers.
//
// This file exposes REST endpoints for donation requests:
//   - POST /requests              (seeker files a request toward a donor)
//   - GET  /requests              (list; role=seeker|donor selects the view)
//   - PUT  /requests/{id}/status  (donor accepts or declines a pending request)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/donorlink/go-donor-backend/internal/domain"
	"github.com/donorlink/go-donor-backend/internal/services"
)

//
// DTOs
//

// CreateRequestRequest is the JSON payload for filing a donation request.
type CreateRequestRequest struct {
	// DonorID identifies the donor the request is addressed to.
	DonorID string `json:"donor_id" binding:"required" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	// Type is the requested donation type: whole_blood, plasma, or platelets.
	Type string `json:"type" binding:"required" example:"plasma"`
	// Message is an optional free-text note to the donor.
	Message string `json:"message" example:"My father needs plasma after surgery."`
}

// AnswerRequestRequest is the JSON payload for answering a pending request.
type AnswerRequestRequest struct {
	// Status is the donor's answer: accepted or declined.
	Status string `json:"status" binding:"required" example:"accepted"`
}

// ListRequestsResponse wraps a list of donation requests.
type ListRequestsResponse struct {
	Requests []domain.DonationRequest `json:"requests"`
	Total    int                      `json:"total"`
}

//
// Handlers
//

// CreateRequest godoc
// @ID          createRequest
// @Summary     File a donation request
// @Description Files a pending request from the current user toward a donor. The donor
// @Description must be approved and visible in searches.
// @Tags        Requests
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(seeker42)
// @Param       body       body    handlers.CreateRequestRequest  true  "Request payload"
//
// @Success     201  {object} domain.DonationRequest
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Donor not found"
// @Failure     409  {object} handlers.ErrorResponse "Donor not open to requests"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /requests [post]
func (h *Handlers) CreateRequest(c *gin.Context) {
	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "donor_id and type required")
		return
	}
	if _, err := uuid.Parse(req.DonorID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "donor_id must be a UUID")
		return
	}

	r, err := h.reqSvc.Create(c.Request.Context(), userID(c), req.DonorID, domain.DonationType(req.Type), req.Message)
	if err != nil {
		switch err {
		case services.ErrInvalidDonationType:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case services.ErrDonorNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "donor not found")
		case services.ErrDonorNotRequestable:
			fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeRequestFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, r)
}

// ListRequests godoc
// @ID          listRequests
// @Summary     List donation requests
// @Description Returns the current user's donation requests. With role=seeker (default)
// @Description the requests they filed; with role=donor the requests addressed to their
// @Description donor profile.
// @Tags        Requests
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"          example(seeker42)
// @Param       role       query   string  false "View: seeker (default) or donor" example(donor)
//
// @Success     200  {object} handlers.ListRequestsResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Donor profile not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /requests [get]
func (h *Handlers) ListRequests(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	var (
		items []domain.DonationRequest
		err   error
	)
	switch role := strings.TrimSpace(c.Query("role")); role {
	case "", "seeker":
		items, err = h.reqSvc.ListForSeeker(ctx, uid)
	case "donor":
		items, err = h.reqSvc.ListForDonor(ctx, uid)
	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "role must be seeker or donor")
		return
	}
	if err != nil {
		switch err {
		case services.ErrDonorNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "donor profile not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, ListRequestsResponse{Requests: items, Total: len(items)})
}

// AnswerRequest godoc
// @ID          answerRequest
// @Summary     Answer a pending donation request
// @Description Accepts or declines a pending request addressed to the current user's
// @Description donor profile. Answered requests cannot be changed again.
// @Tags        Requests
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Request ID (UUID)"      format(uuid)
// @Param       body       body    handlers.AnswerRequestRequest  true  "Answer payload"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     403  {object} handlers.ErrorResponse "Not the addressed donor"
// @Failure     404  {object} handlers.ErrorResponse "Request not found"
// @Failure     409  {object} handlers.ErrorResponse "Request already answered"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /requests/{id}/status [put]
func (h *Handlers) AnswerRequest(c *gin.Context) {
	requestID := c.Param("id")
	if _, err := uuid.Parse(requestID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "request id must be a UUID")
		return
	}

	var req AnswerRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status required")
		return
	}

	var accept bool
	switch domain.RequestStatus(strings.TrimSpace(req.Status)) {
	case domain.RequestAccepted:
		accept = true
	case domain.RequestDeclined:
		accept = false
	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status must be accepted or declined")
		return
	}

	if err := h.reqSvc.Answer(c.Request.Context(), userID(c), requestID, accept); err != nil {
		switch err {
		case services.ErrRequestNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "request not found")
		case services.ErrForbiddenRequest:
			fail(c, http.StatusForbidden, ErrCodeForbidden, err.Error())
		case services.ErrRequestNotPending:
			fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeRequestFailed, err.Error())
		}
		return
	}

	noContent(c)
}
