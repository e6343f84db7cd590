// Search HTTP handler.
//
// This file exposes the seeker-facing donor search:
//   - GET /donors/search   (filter by blood attributes and donation type)
//
// Only approved, visible, currently eligible donors appear in results; the
// temporal eligibility rules are evaluated per candidate at request time.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/donorlink/go-donor-backend/internal/domain"
	"github.com/donorlink/go-donor-backend/internal/services"
)

// SearchDonorsResponse wraps donor search results.
type SearchDonorsResponse struct {
	Matches []services.Match `json:"matches"`
	Total   int              `json:"total"`
}

// SearchDonors godoc
// @ID          searchDonors
// @Summary     Search for eligible donors
// @Description Returns approved, visible donors that match the given criteria and are
// @Description eligible to donate right now. All criteria are optional; empty criteria
// @Description return every matchable donor.
// @Tags        Search
// @Produce     json
//
// @Param       blood_type     query  string  false "Blood group (I, II, III, IV)"                      example(II)
// @Param       rh             query  string  false "Rhesus factor (positive, negative)"                example(positive)
// @Param       donation_type  query  string  false "Offered donation type (whole_blood, plasma, platelets)"  example(whole_blood)
//
// @Success     200  {object} handlers.SearchDonorsResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /donors/search [get]
func (h *Handlers) SearchDonors(c *gin.Context) {
	crit := services.SearchCriteria{
		BloodType:    domain.BloodType(strings.TrimSpace(c.Query("blood_type"))),
		Rh:           domain.RhFactor(strings.TrimSpace(c.Query("rh"))),
		DonationType: domain.DonationType(strings.TrimSpace(c.Query("donation_type"))),
	}

	matches, err := h.matchSvc.Search(c.Request.Context(), crit)
	if err != nil {
		switch err {
		case services.ErrInvalidBloodType, services.ErrInvalidRhFactor, services.ErrInvalidDonationType:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeSearchFailed, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, SearchDonorsResponse{Matches: matches, Total: len(matches)})
}
