// Package services – DonorService
//
// This file implements the DonorService, which manages the lifecycle of donor
// profiles. It validates and normalizes display names and blood attributes,
// enforces ownership rules, and coordinates repository operations for
// registering, fetching, listing (with pagination), and updating profiles.
//
// It also exposes NextDonation, the single authoritative answer to "may this
// donor donate now, and if not, when?". Both the profile page and the seeker
// search go through the same eligibility evaluator, so the two call sites can
// never disagree about the rules.
//
// Service-level errors (e.g., ErrDonorNotFound) are returned for predictable
// cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/donorlink/go-donor-backend/internal/domain"
	"github.com/donorlink/go-donor-backend/internal/eligibility"
	"github.com/donorlink/go-donor-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DonorRepo defines the repository contract required by DonorService.
// Implementations are responsible for persistence of donor aggregates.
type DonorRepo interface {
	// CreateDonor inserts a new donor profile row for the given user.
	CreateDonor(ctx context.Context, db *gorm.DB, userID, displayName string, bt domain.BloodType, rh domain.RhFactor, visible bool) (*domain.DonorProfile, error)

	// GetDonor fetches a donor profile by ID.
	GetDonor(ctx context.Context, db *gorm.DB, id string) (*domain.DonorProfile, error)

	// GetDonorByUser fetches the donor profile owned by userID.
	GetDonorByUser(ctx context.Context, db *gorm.DB, userID string) (*domain.DonorProfile, error)

	// CountDonors returns the total number of donor profiles for pagination.
	CountDonors(ctx context.Context, db *gorm.DB) (int64, error)

	// ListDonorsPage returns a page of donor profiles.
	ListDonorsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.DonorProfile, error)

	// UpdateDonorProfile updates mutable attributes (only if owned by the user).
	UpdateDonorProfile(ctx context.Context, db *gorm.DB, id, userID, displayName string, visible bool) error
}

// DonorService provides donor-profile operations such as registration,
// listing, profile updates, and eligibility evaluation. It enforces
// display-name rules and ensures ownership constraints.
type DonorService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the donor repository used by this service.
	Repo DonorRepo

	// Policy configures how donors without a questionnaire are treated.
	Policy eligibility.Policy

	// NameMaxLen caps stored display names by rune length.
	NameMaxLen int
	// NameCaser title-cases display names for consistent presentation.
	NameCaser cases.Caser

	// Now supplies the evaluation instant; injectable for deterministic tests.
	Now func() time.Time
}

// NewDonorService constructs a DonorService with sane defaults for
// display-name handling and a real-time clock.
func NewDonorService(db *gorm.DB, r DonorRepo, policy eligibility.Policy) *DonorService {
	return &DonorService{
		DB:         db,
		Repo:       r,
		Policy:     policy,
		NameMaxLen: 80,
		NameCaser:  cases.Title(language.Und, cases.NoLower),
		Now:        func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a new donor profile owned by userID. Display names are
// normalized, title-cased, trimmed, and clipped; blood attributes are
// validated against the supported sets. A user owns at most one profile.
func (s *DonorService) Register(ctx context.Context, userID, displayName string, bt domain.BloodType, rh domain.RhFactor, visible bool) (*domain.DonorProfile, error) {
	displayName = s.normalizeName(displayName)
	if displayName == "" {
		return nil, ErrEmptyDisplayName
	}
	if !validBloodType(bt) {
		return nil, ErrInvalidBloodType
	}
	if !validRhFactor(rh) {
		return nil, ErrInvalidRhFactor
	}

	// One profile per user.
	if _, err := s.Repo.GetDonorByUser(ctx, s.DB, userID); err == nil {
		return nil, ErrDonorExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return s.Repo.CreateDonor(ctx, s.DB, userID, displayName, bt, rh, visible)
}

// Get returns a donor profile by ID, or ErrDonorNotFound.
func (s *DonorService) Get(ctx context.Context, donorID string) (*domain.DonorProfile, error) {
	d, err := s.Repo.GetDonor(ctx, s.DB, donorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonorNotFound
		}
		return nil, err
	}
	return d, nil
}

// ListPage returns a page of donor profiles (paginated).
// It applies defaults for invalid page/pageSize and returns total count.
func (s *DonorService) ListPage(ctx context.Context, page, pageSize int) ([]domain.DonorProfile, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountDonors(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.DonorProfile{}, 0, nil
	}

	items, err := s.Repo.ListDonorsPage(ctx, s.DB, offset, pageSize)
	return items, total, err
}

// UpdateProfile updates a donor's display name and visibility, ensuring the
// profile exists and belongs to the given user.
func (s *DonorService) UpdateProfile(ctx context.Context, userID, donorID, displayName string, visible bool) error {
	displayName = s.normalizeName(displayName)
	if displayName == "" {
		return ErrEmptyDisplayName
	}
	// Ensure the profile exists and belongs to the user.
	if _, err := s.Repo.GetDonor(ctx, s.DB, donorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDonorNotFound
		}
		return err
	}
	if err := s.Repo.UpdateDonorProfile(ctx, s.DB, donorID, userID, displayName, visible); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDonorNotFound
		}
		return err
	}
	return nil
}

// NextDonation evaluates the donor's current eligibility: whether they may
// donate as of now, the active deferral windows, and the next eligible date.
//
// An absent questionnaire is not an error; the configured policy decides the
// verdict. Donation history and the stored questionnaire are read as one
// snapshot and handed to the pure evaluator.
func (s *DonorService) NextDonation(ctx context.Context, donorID string) (eligibility.Verdict, error) {
	tr := otel.Tracer("services/DonorService")
	ctx, span := tr.Start(ctx, "NextDonation",
		trace.WithAttributes(attribute.String("donor.id", donorID)),
	)
	defer span.End()

	if _, err := s.Repo.GetDonor(ctx, s.DB, donorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return eligibility.Verdict{}, ErrDonorNotFound
		}
		return eligibility.Verdict{}, err
	}

	mi, err := repo.GetMedicalInfo(ctx, s.DB, donorID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return eligibility.Verdict{}, err
	}

	records, err := repo.ListDonations(ctx, s.DB, donorID)
	if err != nil {
		return eligibility.Verdict{}, err
	}

	return eligibility.Evaluate(screeningSnapshot(mi), donationSnapshots(records), s.Now(), s.Policy), nil
}

// normalizeName trims whitespace, collapses runs of spaces, title-cases the
// result, and clips it to the configured maximum rune length.
func (s *DonorService) normalizeName(name string) string {
	name = whitespaceRE.ReplaceAllString(strings.TrimSpace(name), " ")
	if name == "" {
		return ""
	}
	name = s.NameCaser.String(name)
	if s.NameMaxLen > 0 && utf8.RuneCountInString(name) > s.NameMaxLen {
		return string([]rune(name)[:s.NameMaxLen])
	}
	return name
}

// validBloodType reports whether bt is one of the supported blood groups.
func validBloodType(bt domain.BloodType) bool {
	switch bt {
	case domain.BloodTypeI, domain.BloodTypeII, domain.BloodTypeIII, domain.BloodTypeIV:
		return true
	}
	return false
}

// validRhFactor reports whether rh is a supported Rhesus factor.
func validRhFactor(rh domain.RhFactor) bool {
	return rh == domain.RhPositive || rh == domain.RhNegative
}

// validDonationType reports whether t is a supported donation type.
func validDonationType(t domain.DonationType) bool {
	switch t {
	case domain.DonationWholeBlood, domain.DonationPlasma, domain.DonationPlatelets:
		return true
	}
	return false
}

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)
