// Package services – MatchService
//
// This file implements the MatchService, the seeker-facing donor search. The
// repository narrows candidates with the attribute gates expressible in SQL
// (approved, visible, blood attributes); this service then loads each
// survivor's medical snapshot and delegates the temporal rules to the pure
// eligibility filter.
//
// Partial-failure tolerance: a candidate whose related rows cannot be read is
// skipped, never allowed to fail the whole search.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/donorlink/go-donor-backend/internal/domain"
	"github.com/donorlink/go-donor-backend/internal/eligibility"
	"github.com/donorlink/go-donor-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SearchCriteria is a seeker's donor search filter. Empty fields are not
// applied.
type SearchCriteria struct {
	BloodType    domain.BloodType
	Rh           domain.RhFactor
	DonationType domain.DonationType
}

// Match is one search hit: the donor profile plus the donation type they
// currently offer (empty when the donor has not screened yet).
type Match struct {
	Donor   domain.DonorProfile `json:"donor"`
	Offered domain.DonationType `json:"offered,omitempty"`
}

// MatchService implements the seeker's donor search.
type MatchService struct {
	// DB is the database handle used to load candidates and their snapshots.
	DB *gorm.DB

	// Policy configures how donors without a questionnaire are treated.
	Policy eligibility.Policy

	// Now supplies the evaluation instant; injectable for deterministic tests.
	Now func() time.Time
}

// now returns the injected clock or falls back to wall-clock UTC.
func (s *MatchService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Search returns the approved, visible donors that match the criteria and
// are eligible to donate right now. Criteria enum values are validated when
// present; result order follows the repository's deterministic ordering.
func (s *MatchService) Search(ctx context.Context, crit SearchCriteria) ([]Match, error) {
	tr := otel.Tracer("services/MatchService")
	ctx, span := tr.Start(ctx, "Search",
		trace.WithAttributes(
			attribute.String("criteria.blood_type", string(crit.BloodType)),
			attribute.String("criteria.rh", string(crit.Rh)),
			attribute.String("criteria.donation_type", string(crit.DonationType)),
		),
	)
	defer span.End()

	if crit.BloodType != "" && !validBloodType(crit.BloodType) {
		return nil, ErrInvalidBloodType
	}
	if crit.Rh != "" && !validRhFactor(crit.Rh) {
		return nil, ErrInvalidRhFactor
	}
	if crit.DonationType != "" && !validDonationType(crit.DonationType) {
		return nil, ErrInvalidDonationType
	}

	profiles, err := repo.SearchDonors(ctx, s.DB, crit.BloodType, crit.Rh)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.DonorProfile, len(profiles))
	candidates := make([]eligibility.Candidate, 0, len(profiles))
	for _, p := range profiles {
		cand, err := s.candidate(ctx, p)
		if err != nil {
			// Per-candidate failure: skip this donor, keep searching.
			span.AddEvent("candidate skipped",
				trace.WithAttributes(attribute.String("donor.id", p.ID)))
			continue
		}
		byID[p.ID] = p
		candidates = append(candidates, cand)
	}

	kept := eligibility.Filter(candidates, eligibility.Criteria{
		DonationType: eligibility.DonationType(crit.DonationType),
	}, s.now(), s.Policy)

	out := make([]Match, 0, len(kept))
	for _, c := range kept {
		m := Match{Donor: byID[c.ID]}
		if c.Screening != nil {
			m.Offered = domain.DonationType(c.Screening.Offered)
		}
		out = append(out, m)
	}
	return out, nil
}

// candidate assembles the eligibility snapshot for one donor profile. The
// blood attribute filters were already applied in SQL, so only the medical
// snapshot and history remain to be loaded.
func (s *MatchService) candidate(ctx context.Context, p domain.DonorProfile) (eligibility.Candidate, error) {
	mi, err := repo.GetMedicalInfo(ctx, s.DB, p.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return eligibility.Candidate{}, err
	}
	records, err := repo.ListDonations(ctx, s.DB, p.ID)
	if err != nil {
		return eligibility.Candidate{}, err
	}
	return eligibility.Candidate{
		ID:        p.ID,
		BloodType: eligibility.BloodType(p.BloodType),
		Rh:        eligibility.Rh(p.Rh),
		Screening: screeningSnapshot(mi),
		History:   donationSnapshots(records),
	}, nil
}
