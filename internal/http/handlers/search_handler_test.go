package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/donorlink/go-donor-backend/internal/domain"
)

func TestSearchDonors_Validation_Filtering(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newDonorDB(t)
	h := newRealDonorHandlers(db)

	// Matchable: approved and visible.
	match := seedDonor(t, db, "u1", domain.VerificationApproved, true)
	// Hidden and unapproved donors never surface.
	seedDonor(t, db, "u2", domain.VerificationApproved, false)
	seedDonor(t, db, "u3", domain.VerificationPending, true)

	// A visible donor with a wrong blood group for the filtered query.
	other := &domain.DonorProfile{
		ID:                     uuid.NewString(),
		UserID:                 "u4",
		DisplayName:            "Elena",
		BloodType:              domain.BloodTypeIV,
		Rh:                     domain.RhNegative,
		VerificationStatus:     domain.VerificationApproved,
		AllowProfileVisibility: true,
	}
	if err := db.Create(other).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	r := gin.New()
	r.GET("/donors/search", h.SearchDonors)

	get := func(q string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/donors/search"+q, nil)
		r.ServeHTTP(w, req)
		return w
	}

	// Invalid criteria -> 400
	if w := get("?blood_type=X"); w.Code != http.StatusBadRequest {
		t.Fatalf("bad blood type -> %d", w.Code)
	}
	if w := get("?rh=sideways"); w.Code != http.StatusBadRequest {
		t.Fatalf("bad rh -> %d", w.Code)
	}
	if w := get("?donation_type=bone_marrow"); w.Code != http.StatusBadRequest {
		t.Fatalf("bad donation type -> %d", w.Code)
	}

	// Empty criteria: both visible approved donors are returned.
	w := get("")
	if w.Code != http.StatusOK {
		t.Fatalf("open search -> %d body=%s", w.Code, w.Body.String())
	}
	var out SearchDonorsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if out.Total != 2 {
		t.Fatalf("open search total = %d, want 2", out.Total)
	}

	// Narrow by blood attributes: only the II+ donor remains.
	w = get("?blood_type=II&rh=positive")
	if w.Code != http.StatusOK {
		t.Fatalf("filtered search -> %d body=%s", w.Code, w.Body.String())
	}
	out = SearchDonorsResponse{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if out.Total != 1 || out.Matches[0].Donor.ID != match.ID {
		t.Fatalf("filtered search matched wrong set: %+v", out)
	}
}
