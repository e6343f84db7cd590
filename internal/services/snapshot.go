// Package services – eligibility snapshot mapping
//
// The eligibility package is deliberately persistence-free: it evaluates
// plain snapshots, not GORM rows. This file is the single place where stored
// MedicalInfo and DonationRecord rows are translated into those snapshots,
// so the translation (and the flag/date pairing rules) cannot diverge
// between the "next donation date" and donor search call sites.
package services

import (
	"time"

	"github.com/donorlink/go-donor-backend/internal/domain"
	"github.com/donorlink/go-donor-backend/internal/eligibility"
)

// screeningSnapshot converts a stored questionnaire row into an eligibility
// screening. A nil input yields a nil snapshot (questionnaire not submitted),
// which the evaluator resolves via the configured policy.
//
// A restriction event is emitted only when its flag is true AND its date is
// set; a flag without a date contributes nothing, matching the evaluator's
// missing-date semantics.
func screeningSnapshot(mi *domain.MedicalInfo) *eligibility.Screening {
	if mi == nil {
		return nil
	}

	scr := &eligibility.Screening{
		Offered: eligibility.DonationType(mi.DonationTypeOffered),
	}
	if mi.LastDonationDate != nil && !mi.LastDonationDate.IsZero() {
		d := *mi.LastDonationDate
		scr.LastDonation = &d
	}

	type flagged struct {
		on   bool
		date *time.Time
		kind eligibility.RestrictionKind
	}
	for _, f := range []flagged{
		{mi.HasRecentUpgrade, mi.RecentUpgradeDate, eligibility.KindRecentUpgrade},
		{mi.HasRespiratoryInfection, mi.RespiratoryInfectionDate, eligibility.KindRespiratoryInfection},
		{mi.HasAntibioticTherapy, mi.AntibioticTherapyEndDate, eligibility.KindAntibioticTherapy},
		{mi.HasVaccination, mi.VaccinationDate, eligibility.KindVaccination},
		{mi.HasSurgeryOrInjury, mi.SurgeryOrInjuryDate, eligibility.KindSurgeryOrInjury},
		{mi.HasPregnancy, mi.PregnancyEndDate, eligibility.KindPregnancy},
		{mi.HasDentalProcedure, mi.DentalProcedureDate, eligibility.KindDentalProcedure},
		{mi.HasHerpesSimplex, mi.HerpesSimplexOutbreakDate, eligibility.KindHerpesSimplex},
	} {
		if f.on && f.date != nil && !f.date.IsZero() {
			scr.Restrictions = append(scr.Restrictions, eligibility.Event{Kind: f.kind, Date: *f.date})
		}
	}

	type condition struct {
		on   bool
		cond eligibility.Condition
	}
	for _, c := range []condition{
		{mi.HasHIVOrAIDS, eligibility.ConditionHIVOrAIDS},
		{mi.HasHepatitisBOrC, eligibility.ConditionHepatitisBOrC},
		{mi.HasSyphilis, eligibility.ConditionSyphilis},
		{mi.HasTuberculosis, eligibility.ConditionTuberculosis},
		{mi.HasOncologicalIll, eligibility.ConditionOncological},
		{mi.HasDiabetes, eligibility.ConditionDiabetes},
		{mi.HasCardiovascular, eligibility.ConditionCardio},
		{mi.HasCNSDisorder, eligibility.ConditionCNS},
		{mi.HasAutoimmune, eligibility.ConditionAutoimmune},
		{mi.HasBloodDisease, eligibility.ConditionBloodDisease},
	} {
		if c.on {
			scr.Conditions = append(scr.Conditions, c.cond)
		}
	}

	return scr
}

// donationSnapshots converts stored donation records into evaluator inputs.
func donationSnapshots(records []domain.DonationRecord) []eligibility.Donation {
	if len(records) == 0 {
		return nil
	}
	out := make([]eligibility.Donation, 0, len(records))
	for _, r := range records {
		out = append(out, eligibility.Donation{
			Type: eligibility.DonationType(r.Type),
			Date: r.Date,
		})
	}
	return out
}
