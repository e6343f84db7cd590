// Screening HTTP handlers.
//
// This file exposes REST endpoints for the medical questionnaire:
//   - PUT /donors/{id}/screening   (submit or replace the questionnaire)
//   - GET /donors/{id}/screening   (fetch the stored questionnaire)
//
// The questionnaire is replaced wholesale on every submission: omitted flags
// revert to false and omitted dates to null, so a stale restriction can never
// survive a resubmission by accident.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/donorlink/go-donor-backend/internal/domain"
	"github.com/donorlink/go-donor-backend/internal/services"
)

//
// DTOs
//

// PutScreeningRequest is the JSON payload for submitting the medical
// questionnaire. Dates are RFC 3339 timestamps; a restriction window only
// opens when both the flag is true and its date is set.
type PutScreeningRequest struct {
	// DonationTypeOffered is what the donor offers: whole_blood, plasma, or platelets.
	DonationTypeOffered string `json:"donation_type_offered" binding:"required" example:"whole_blood"`
	// LastDonationDate is a fallback for donations made before registering.
	LastDonationDate *time.Time `json:"last_donation_date,omitempty"`

	HasRecentUpgrade          bool       `json:"has_recent_upgrade"`
	RecentUpgradeDate         *time.Time `json:"recent_upgrade_date,omitempty"`
	HasRespiratoryInfection   bool       `json:"has_respiratory_infection"`
	RespiratoryInfectionDate  *time.Time `json:"respiratory_infection_date,omitempty"`
	HasAntibioticTherapy      bool       `json:"has_antibiotic_therapy"`
	AntibioticTherapyEndDate  *time.Time `json:"antibiotic_therapy_end_date,omitempty"`
	HasVaccination            bool       `json:"has_vaccination"`
	VaccinationDate           *time.Time `json:"vaccination_date,omitempty"`
	HasSurgeryOrInjury        bool       `json:"has_surgery_or_injury"`
	SurgeryOrInjuryDate       *time.Time `json:"surgery_or_injury_date,omitempty"`
	HasPregnancy              bool       `json:"has_pregnancy"`
	PregnancyEndDate          *time.Time `json:"pregnancy_end_date,omitempty"`
	HasDentalProcedure        bool       `json:"has_dental_procedure"`
	DentalProcedureDate       *time.Time `json:"dental_procedure_date,omitempty"`
	HasHerpesSimplex          bool       `json:"has_herpes_simplex"`
	HerpesSimplexOutbreakDate *time.Time `json:"herpes_simplex_outbreak_date,omitempty"`

	HasHIVOrAIDS      bool `json:"has_hiv_or_aids"`
	HasHepatitisBOrC  bool `json:"has_hepatitis_b_or_c"`
	HasSyphilis       bool `json:"has_syphilis"`
	HasTuberculosis   bool `json:"has_tuberculosis"`
	HasOncologicalIll bool `json:"has_oncological_ill"`
	HasDiabetes       bool `json:"has_diabetes"`
	HasCardiovascular bool `json:"has_cardiovascular"`
	HasCNSDisorder    bool `json:"has_cns_disorder"`
	HasAutoimmune     bool `json:"has_autoimmune"`
	HasBloodDisease   bool `json:"has_blood_disease"`
}

// medicalInfo maps the request payload onto the persistence model. DonorID
// is left empty on purpose; the service sets it from the path parameter.
func (r *PutScreeningRequest) medicalInfo() *domain.MedicalInfo {
	return &domain.MedicalInfo{
		DonationTypeOffered: domain.DonationType(r.DonationTypeOffered),
		LastDonationDate:    r.LastDonationDate,

		HasRecentUpgrade:          r.HasRecentUpgrade,
		RecentUpgradeDate:         r.RecentUpgradeDate,
		HasRespiratoryInfection:   r.HasRespiratoryInfection,
		RespiratoryInfectionDate:  r.RespiratoryInfectionDate,
		HasAntibioticTherapy:      r.HasAntibioticTherapy,
		AntibioticTherapyEndDate:  r.AntibioticTherapyEndDate,
		HasVaccination:            r.HasVaccination,
		VaccinationDate:           r.VaccinationDate,
		HasSurgeryOrInjury:        r.HasSurgeryOrInjury,
		SurgeryOrInjuryDate:       r.SurgeryOrInjuryDate,
		HasPregnancy:              r.HasPregnancy,
		PregnancyEndDate:          r.PregnancyEndDate,
		HasDentalProcedure:        r.HasDentalProcedure,
		DentalProcedureDate:       r.DentalProcedureDate,
		HasHerpesSimplex:          r.HasHerpesSimplex,
		HerpesSimplexOutbreakDate: r.HerpesSimplexOutbreakDate,

		HasHIVOrAIDS:      r.HasHIVOrAIDS,
		HasHepatitisBOrC:  r.HasHepatitisBOrC,
		HasSyphilis:       r.HasSyphilis,
		HasTuberculosis:   r.HasTuberculosis,
		HasOncologicalIll: r.HasOncologicalIll,
		HasDiabetes:       r.HasDiabetes,
		HasCardiovascular: r.HasCardiovascular,
		HasCNSDisorder:    r.HasCNSDisorder,
		HasAutoimmune:     r.HasAutoimmune,
		HasBloodDisease:   r.HasBloodDisease,
	}
}

//
// Handlers
//

// PutScreening godoc
// @ID          putScreening
// @Summary     Submit the medical questionnaire
// @Description Stores the donor's medical questionnaire, replacing any previous submission.
// @Description Only the profile owner may submit.
// @Tags        Screening
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Donor ID (UUID)"        format(uuid)
// @Param       body       body    handlers.PutScreeningRequest  true  "Questionnaire payload"
//
// @Success     200  {object} domain.MedicalInfo
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Donor not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /donors/{id}/screening [put]
func (h *Handlers) PutScreening(c *gin.Context) {
	donorID := c.Param("id")
	if _, err := uuid.Parse(donorID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "donor id must be a UUID")
		return
	}

	var req PutScreeningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	mi, err := h.scrSvc.Submit(c.Request.Context(), userID(c), donorID, req.medicalInfo())
	if err != nil {
		switch err {
		case services.ErrInvalidDonationType:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case services.ErrDonorNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "donor not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeScreeningFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, mi)
}

// GetScreening godoc
// @ID          getScreening
// @Summary     Fetch the medical questionnaire
// @Description Returns the donor's stored questionnaire, if one has been submitted.
// @Tags        Screening
// @Produce     json
//
// @Param       id  path  string  true  "Donor ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.MedicalInfo
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Donor or screening not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /donors/{id}/screening [get]
func (h *Handlers) GetScreening(c *gin.Context) {
	donorID := c.Param("id")
	if _, err := uuid.Parse(donorID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "donor id must be a UUID")
		return
	}

	mi, err := h.scrSvc.Get(c.Request.Context(), donorID)
	if err != nil {
		switch err {
		case services.ErrDonorNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "donor not found")
		case services.ErrScreeningNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "screening not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeScreeningFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, mi)
}
