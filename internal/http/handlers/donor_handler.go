// Donor HTTP handlers.
//
// This file exposes REST endpoints for donor profile resources:
//   - POST /donors                    (register)
//   - GET  /donors                    (list, paginated, ETag support)
//   - GET  /donors/{id}               (fetch one profile)
//   - PUT  /donors/{id}               (update display name / visibility)
//   - GET  /donors/{id}/eligibility   (evaluate availability right now)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/donorlink/go-donor-backend/internal/domain"
	"github.com/donorlink/go-donor-backend/internal/eligibility"
	"github.com/donorlink/go-donor-backend/internal/repo"
	"github.com/donorlink/go-donor-backend/internal/services"
	"github.com/donorlink/go-donor-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// DonorService defines donor profile operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type DonorService interface {
	// Register creates a donor profile owned by userID.
	Register(ctx context.Context, userID, displayName string, bt domain.BloodType, rh domain.RhFactor, visible bool) (*domain.DonorProfile, error)
	// Get returns one donor profile by id.
	Get(ctx context.Context, donorID string) (*domain.DonorProfile, error)
	// ListPage returns a page of donor profiles and the total count.
	ListPage(ctx context.Context, page, pageSize int) ([]domain.DonorProfile, int64, error)
	// UpdateProfile changes the display name and visibility of a profile
	// owned by userID.
	UpdateProfile(ctx context.Context, userID, donorID, displayName string, visible bool) error
	// NextDonation evaluates whether the donor may donate right now and,
	// if not, when the deferral ends.
	NextDonation(ctx context.Context, donorID string) (eligibility.Verdict, error)
}

// ScreeningService defines medical questionnaire operations.
type ScreeningService interface {
	// Submit stores (or replaces) the questionnaire for a donor owned by userID.
	Submit(ctx context.Context, userID, donorID string, mi *domain.MedicalInfo) (*domain.MedicalInfo, error)
	// Get returns the stored questionnaire for a donor.
	Get(ctx context.Context, donorID string) (*domain.MedicalInfo, error)
}

// DonationService defines donation history operations.
type DonationService interface {
	// Record persists one completed donation for a donor owned by userID.
	Record(ctx context.Context, userID, donorID string, t domain.DonationType, date time.Time) (*domain.DonationRecord, error)
	// ListPage returns a page of a donor's donation history and the total count.
	ListPage(ctx context.Context, donorID string, page, pageSize int) ([]domain.DonationRecord, int64, error)
}

// MatchService defines the seeker-facing donor search.
type MatchService interface {
	// Search returns the approved, visible, currently eligible donors that
	// match the criteria.
	Search(ctx context.Context, crit services.SearchCriteria) ([]services.Match, error)
}

// RequestService defines donation request operations.
type RequestService interface {
	// Create files a pending request from seekerID toward donorID.
	Create(ctx context.Context, seekerID, donorID string, t domain.DonationType, message string) (*domain.DonationRequest, error)
	// Answer moves a pending request to accepted or declined on behalf of
	// the receiving donor's owner.
	Answer(ctx context.Context, userID, requestID string, accept bool) error
	// ListForSeeker returns the requests filed by a seeker.
	ListForSeeker(ctx context.Context, seekerID string) ([]domain.DonationRequest, error)
	// ListForDonor returns the requests addressed to userID's donor profile.
	ListForDonor(ctx context.Context, userID string) ([]domain.DonationRequest, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for donors, screenings, donations, search,
// and requests. It depends on abstract service interfaces to keep transport
// concerns separate from business logic.
type Handlers struct {
	donorSvc DonorService
	scrSvc   ScreeningService
	donSvc   DonationService
	matchSvc MatchService
	reqSvc   RequestService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(donorSvc DonorService, scrSvc ScreeningService, donSvc DonationService, matchSvc MatchService, reqSvc RequestService) *Handlers {
	return &Handlers{donorSvc: donorSvc, scrSvc: scrSvc, donSvc: donSvc, matchSvc: matchSvc, reqSvc: reqSvc}
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

//
// DTOs
//

// RegisterDonorRequest is the JSON payload for registering a donor profile.
type RegisterDonorRequest struct {
	// DisplayName is the public name shown in search results (1–255 chars).
	DisplayName string `json:"display_name" binding:"required,min=1,max=255" example:"Maria Petrova"`
	// BloodType is the donor's blood group in I–IV notation.
	BloodType string `json:"blood_type" binding:"required" example:"II"`
	// Rh is the donor's Rhesus factor: positive or negative.
	Rh string `json:"rh" binding:"required" example:"positive"`
	// Visible opts the profile into seeker searches.
	Visible bool `json:"visible" example:"true"`
}

// UpdateDonorRequest is the JSON payload for updating a donor profile.
type UpdateDonorRequest struct {
	// DisplayName is the new public name (1–255 chars).
	DisplayName string `json:"display_name" binding:"required,min=1,max=255" example:"Maria P."`
	// Visible opts the profile into or out of seeker searches.
	Visible bool `json:"visible" example:"true"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListDonorsResponse wraps a page of donor profiles and pagination information.
type ListDonorsResponse struct {
	Donors     []domain.DonorProfile `json:"donors"`
	Pagination Pagination            `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

//
// Handlers
//

// RegisterDonor godoc
// @ID          registerDonor
// @Summary     Register a donor profile
// @Description Creates a donor profile for the current user and returns the profile resource.
// @Description A user owns at most one profile.
// @Tags        Donors
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.RegisterDonorRequest  true  "Register donor payload"
//
// @Success     201  {object}  domain.DonorProfile
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "Profile already exists"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /donors [post]
func (h *Handlers) RegisterDonor(c *gin.Context) {
	var req RegisterDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	p, err := h.donorSvc.Register(c.Request.Context(), userID(c),
		req.DisplayName, domain.BloodType(req.BloodType), domain.RhFactor(req.Rh), req.Visible)
	if err != nil {
		switch err {
		case services.ErrEmptyDisplayName, services.ErrInvalidBloodType, services.ErrInvalidRhFactor:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case services.ErrDonorExists:
			fail(c, http.StatusConflict, ErrCodeConflict, "donor profile already exists")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeRegisterFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, p)
}

// ListDonors godoc
// @ID          listDonors
// @Summary     List donor profiles (paginated)
// @Description Returns a page of donor profiles. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Donors
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListDonorsResponse
// @Header      200  {string} ETag           "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /donors [get]
func (h *Handlers) ListDonors(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, ok := h.donorSvc.(*services.DonorService); ok {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.DonorsStats(ctx, db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"donors:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	// Fetch page.
	items, total, err := h.donorSvc.ListPage(ctx, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	resp := ListDonorsResponse{
		Donors: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	}
	ok(c, http.StatusOK, resp)
}

// GetDonor godoc
// @ID          getDonor
// @Summary     Fetch a donor profile
// @Description Returns a single donor profile by id.
// @Tags        Donors
// @Produce     json
//
// @Param       id  path  string  true  "Donor ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.DonorProfile
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Donor not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /donors/{id} [get]
func (h *Handlers) GetDonor(c *gin.Context) {
	donorID := c.Param("id")
	if _, err := uuid.Parse(donorID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "donor id must be a UUID")
		return
	}

	p, err := h.donorSvc.Get(c.Request.Context(), donorID)
	if err != nil {
		switch err {
		case services.ErrDonorNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "donor not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, p)
}

// UpdateDonor godoc
// @ID          updateDonor
// @Summary     Update a donor profile
// @Description Updates the display name and search visibility of a profile owned by the current user.
// @Tags        Donors
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Donor ID (UUID)"        format(uuid)
// @Param       body       body    handlers.UpdateDonorRequest  true  "New profile attributes"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Donor not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /donors/{id} [put]
func (h *Handlers) UpdateDonor(c *gin.Context) {
	donorID := c.Param("id")
	if _, err := uuid.Parse(donorID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "donor id must be a UUID")
		return
	}

	var req UpdateDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.DisplayName) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "display_name required (1–255 chars)")
		return
	}

	if err := h.donorSvc.UpdateProfile(c.Request.Context(), userID(c), donorID, req.DisplayName, req.Visible); err != nil {
		switch err {
		case services.ErrEmptyDisplayName:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case services.ErrDonorNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "donor not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	noContent(c)
}

// GetEligibility godoc
// @ID          getEligibility
// @Summary     Evaluate donor eligibility
// @Description Evaluates whether the donor may donate right now. When deferred, the response
// @Description carries the active deferral windows and the earliest instant they all elapse.
// @Tags        Donors
// @Produce     json
//
// @Param       id  path  string  true  "Donor ID (UUID)"  format(uuid)
//
// @Success     200  {object} eligibility.Verdict
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Donor not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /donors/{id}/eligibility [get]
func (h *Handlers) GetEligibility(c *gin.Context) {
	donorID := c.Param("id")
	if _, err := uuid.Parse(donorID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "donor id must be a UUID")
		return
	}

	v, err := h.donorSvc.NextDonation(c.Request.Context(), donorID)
	if err != nil {
		switch err {
		case services.ErrDonorNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "donor not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeEvaluateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, v)
}
