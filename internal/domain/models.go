// Package domain defines the persistence models for donor profiles, medical
// screenings, donation history, and donation requests. These types are mapped
// with GORM and form the core data layer of the donor platform backend.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// BloodType is a blood group in the I–IV notation used by the platform.
type BloodType string

// Blood groups.
const (
	BloodTypeI   BloodType = "I"
	BloodTypeII  BloodType = "II"
	BloodTypeIII BloodType = "III"
	BloodTypeIV  BloodType = "IV"
)

// RhFactor is the Rhesus factor of a donor's blood.
type RhFactor string

// Rhesus factors.
const (
	RhPositive RhFactor = "positive"
	RhNegative RhFactor = "negative"
)

// DonationType identifies what a donor gives during a single donation.
type DonationType string

// Donation types.
const (
	DonationWholeBlood DonationType = "whole_blood"
	DonationPlasma     DonationType = "plasma"
	DonationPlatelets  DonationType = "platelets"
)

// VerificationStatus is the moderation state of a donor profile. Only
// approved profiles are visible to seekers.
type VerificationStatus string

// Verification states.
const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// RequestStatus is the state of a seeker's donation request toward a donor.
type RequestStatus string

// Request states.
const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestDeclined RequestStatus = "declined"
)

// DonorProfile represents a registered donor's identity and searchable
// attributes. Availability is intentionally NOT stored here: whether the
// donor may donate right now is derived at read time by the eligibility
// evaluator from MedicalInfo and DonationRecord rows, so it can never go
// stale.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - UserID: identifier of the owning account; indexed for retrieval.
//   - DisplayName: human-readable name shown in search results.
//   - BloodType / Rh: searchable blood attributes.
//   - VerificationStatus: moderation gate; only "approved" donors are matchable.
//   - AllowProfileVisibility: donor-controlled opt-in to appear in searches.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type DonorProfile struct {
	ID                     string             `json:"id"           gorm:"type:char(36);primaryKey"`
	UserID                 string             `json:"user_id"      gorm:"type:varchar(64);not null;index:idx_user_donor"`
	DisplayName            string             `json:"display_name" gorm:"type:varchar(255);not null"`
	BloodType              BloodType          `json:"blood_type"   gorm:"type:varchar(8);not null;index:idx_donor_blood,priority:1;check:blood_type IN ('I','II','III','IV')"`
	Rh                     RhFactor           `json:"rh"           gorm:"type:varchar(16);not null;index:idx_donor_blood,priority:2;check:rh IN ('positive','negative')"`
	VerificationStatus     VerificationStatus `json:"verification_status" gorm:"type:varchar(16);not null;default:'pending';check:verification_status IN ('pending','approved','rejected')"`
	AllowProfileVisibility bool               `json:"allow_profile_visibility" gorm:"not null;default:false"`
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at"`
	DeletedAt              gorm.DeletedAt     `json:"-"            gorm:"index"`
}

// TableName returns the database table name for DonorProfile.
func (DonorProfile) TableName() string { return "donor_profiles" }

// MedicalInfo holds a donor's self-reported medical questionnaire: the
// temporary restriction flags with their trigger dates, the permanent
// disqualifying conditions, the donation type the donor currently offers,
// and an authoritative last-donation fallback used when no DonationRecord
// exists yet (e.g., donations made before registering on the platform).
//
// Each (flag, date) pair opens a fixed-length restriction window starting at
// the date; the window lengths live in the eligibility package, not here.
// Permanent condition booleans are a one-way gate: any true value makes the
// donor permanently unavailable to the matching engine.
//
// At most one row exists per donor (unique index on DonorID). The row is
// replaced wholesale on questionnaire resubmission and updated in place when
// a donation is recorded.
type MedicalInfo struct {
	ID      string `json:"id"       gorm:"type:char(36);primaryKey"`
	DonorID string `json:"donor_id" gorm:"type:char(36);not null;uniqueIndex:ux_medical_donor"`

	DonationTypeOffered  DonationType `json:"donation_type_offered" gorm:"type:varchar(16);not null;check:donation_type_offered IN ('whole_blood','plasma','platelets')"`
	LastDonationDate     *time.Time   `json:"last_donation_date,omitempty"`
	YearlyDonationsCount int          `json:"yearly_donations_count" gorm:"not null;default:0"`

	// Temporary restriction flags with trigger dates. A window only exists
	// when the flag is true and its date is set.
	HasRecentUpgrade          bool       `json:"has_recent_upgrade"          gorm:"not null;default:false"`
	RecentUpgradeDate         *time.Time `json:"recent_upgrade_date,omitempty"`
	HasRespiratoryInfection   bool       `json:"has_respiratory_infection"   gorm:"not null;default:false"`
	RespiratoryInfectionDate  *time.Time `json:"respiratory_infection_date,omitempty"`
	HasAntibioticTherapy      bool       `json:"has_antibiotic_therapy"      gorm:"not null;default:false"`
	AntibioticTherapyEndDate  *time.Time `json:"antibiotic_therapy_end_date,omitempty"`
	HasVaccination            bool       `json:"has_vaccination"             gorm:"not null;default:false"`
	VaccinationDate           *time.Time `json:"vaccination_date,omitempty"`
	HasSurgeryOrInjury        bool       `json:"has_surgery_or_injury"       gorm:"not null;default:false"`
	SurgeryOrInjuryDate       *time.Time `json:"surgery_or_injury_date,omitempty"`
	HasPregnancy              bool       `json:"has_pregnancy"               gorm:"not null;default:false"`
	PregnancyEndDate          *time.Time `json:"pregnancy_end_date,omitempty"`
	HasDentalProcedure        bool       `json:"has_dental_procedure"        gorm:"not null;default:false"`
	DentalProcedureDate       *time.Time `json:"dental_procedure_date,omitempty"`
	HasHerpesSimplex          bool       `json:"has_herpes_simplex"          gorm:"not null;default:false"`
	HerpesSimplexOutbreakDate *time.Time `json:"herpes_simplex_outbreak_date,omitempty"`

	// Permanent disqualifying conditions (no dates; presence alone defers).
	HasHIVOrAIDS      bool `json:"has_hiv_or_aids"      gorm:"not null;default:false"`
	HasHepatitisBOrC  bool `json:"has_hepatitis_b_or_c" gorm:"not null;default:false"`
	HasSyphilis       bool `json:"has_syphilis"         gorm:"not null;default:false"`
	HasTuberculosis   bool `json:"has_tuberculosis"     gorm:"not null;default:false"`
	HasOncologicalIll bool `json:"has_oncological_ill"  gorm:"not null;default:false"`
	HasDiabetes       bool `json:"has_diabetes"         gorm:"not null;default:false"`
	HasCardiovascular bool `json:"has_cardiovascular"   gorm:"not null;default:false"`
	HasCNSDisorder    bool `json:"has_cns_disorder"     gorm:"not null;default:false"`
	HasAutoimmune     bool `json:"has_autoimmune"       gorm:"not null;default:false"`
	HasBloodDisease   bool `json:"has_blood_disease"    gorm:"not null;default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Donor is the owning profile. The screening row is cascade-deleted
	// if the donor profile is removed.
	Donor DonorProfile `json:"-" gorm:"foreignKey:DonorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for MedicalInfo.
func (MedicalInfo) TableName() string { return "medical_info" }

// DonationRecord is an immutable historical fact: one completed donation.
// Rows are created once and never updated; the recovery window after a
// donation is computed from Type and Date by the eligibility evaluator.
//
// SequenceNumber is the 1-based count of the donor's donations at creation
// time. It is derived bookkeeping (not globally unique) and exists so
// exported history reads "donation #7" without a COUNT query.
type DonationRecord struct {
	ID             string         `json:"id"              gorm:"type:char(36);primaryKey"`
	DonorID        string         `json:"donor_id"        gorm:"type:char(36);not null;index:idx_donor_donations,priority:1"`
	Type           DonationType   `json:"type"            gorm:"type:varchar(16);not null;check:type IN ('whole_blood','plasma','platelets')"`
	Date           time.Time      `json:"date"            gorm:"not null;index:idx_donor_donations,priority:2"`
	SequenceNumber int            `json:"sequence_number" gorm:"not null"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	// Donor is the owning profile. History is cascade-deleted with it.
	Donor DonorProfile `json:"-" gorm:"foreignKey:DonorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for DonationRecord.
func (DonationRecord) TableName() string { return "donation_records" }

// DonationRequest is a seeker's request toward a specific donor. The donor
// answers by moving the status from pending to accepted or declined; any
// further coordination happens outside this backend.
type DonationRequest struct {
	ID       string        `json:"id"        gorm:"type:char(36);primaryKey"`
	SeekerID string        `json:"seeker_id" gorm:"type:varchar(64);not null;index:idx_seeker_requests"`
	DonorID  string        `json:"donor_id"  gorm:"type:char(36);not null;index:idx_donor_requests"`
	Type     DonationType  `json:"type"      gorm:"type:varchar(16);not null;check:type IN ('whole_blood','plasma','platelets')"`
	Message  string        `json:"message"   gorm:"type:text"`
	Status   RequestStatus `json:"status"    gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending','accepted','declined')"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Donor is the requested profile. Requests are cascade-deleted with it.
	Donor DonorProfile `json:"-" gorm:"foreignKey:DonorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for DonationRequest.
func (DonationRequest) TableName() string { return "donation_requests" }
