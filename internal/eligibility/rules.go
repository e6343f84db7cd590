// Deferral rule tables.
//
// Every temporary deferral the platform knows about lives in one of the two
// tables below, keyed by kind. Adding a restriction kind is a one-line table
// change; Evaluate iterates the tables and never special-cases a kind.
//
// Month- and year-based periods from the medical guidelines are denominated
// in days (month = 30, year = 365) so a window's end is an exact instant,
// independent of calendar month lengths.
package eligibility

import "time"

const day = 24 * time.Hour

// RestrictionKind names a temporary deferral cause.
type RestrictionKind string

// Temporary restriction kinds. KindDonationRecovery is synthetic: it is never
// reported by a screening but appears in verdicts for the post-donation
// recovery window.
const (
	KindRecentUpgrade        RestrictionKind = "recent_upgrade"
	KindRespiratoryInfection RestrictionKind = "respiratory_infection"
	KindAntibioticTherapy    RestrictionKind = "antibiotic_therapy"
	KindVaccination          RestrictionKind = "vaccination"
	KindSurgeryOrInjury      RestrictionKind = "surgery_or_injury"
	KindPregnancy            RestrictionKind = "pregnancy"
	KindDentalProcedure      RestrictionKind = "dental_procedure"
	KindHerpesSimplex        RestrictionKind = "herpes_simplex"

	KindDonationRecovery RestrictionKind = "donation_recovery"
)

// restrictionPeriods maps each restriction kind to its fixed deferral length,
// measured from the reported trigger date.
var restrictionPeriods = map[RestrictionKind]time.Duration{
	KindRecentUpgrade:        150 * day, // 5 months
	KindRespiratoryInfection: 30 * day,  // 1 month
	KindAntibioticTherapy:    14 * day,  // 2 weeks
	KindVaccination:          30 * day,  // 1 month
	KindSurgeryOrInjury:      180 * day, // 6 months
	KindPregnancy:            365 * day, // 1 year
	KindDentalProcedure:      30 * day,  // 1 month
	KindHerpesSimplex:        14 * day,  // 2 weeks
}

// recoveryPeriods maps a donation type to the mandatory waiting period before
// the donor may donate again, measured from that donation's date.
var recoveryPeriods = map[DonationType]time.Duration{
	WholeBlood: 60 * day,
	Plasma:     14 * day,
	Platelets:  14 * day,
}

// RestrictionPeriod returns the deferral length for kind, or 0 for an
// unknown kind (unknown restrictions never open a window).
func RestrictionPeriod(kind RestrictionKind) time.Duration {
	return restrictionPeriods[kind]
}

// RecoveryPeriod returns the post-donation waiting period for a donation
// type. Unknown types get the whole-blood period, the longest, so malformed
// input can only over-defer, never under-defer.
func RecoveryPeriod(t DonationType) time.Duration {
	if d, ok := recoveryPeriods[t]; ok {
		return d
	}
	return recoveryPeriods[WholeBlood]
}
