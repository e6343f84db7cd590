// Package eligibility decides whether a blood donor may donate at a given
// instant, and when they next become able to. It is intentionally small and
// dependency-free, but engineered with production-grade ergonomics:
//
//   - No logging and no I/O in the library (callers fetch the snapshots)
//   - Pure functions over immutable input snapshots; safe for concurrent use
//   - One static rule table per concern (see rules.go), iterated uniformly
//   - Deterministic output ordering (active windows sorted by end, then kind)
//   - Explicit, caller-configured policy for donors without a questionnaire
//
// A donor is blocked by the longer of (a) the recovery period after their
// most recent donation, which depends on the donation type of that specific
// donation, and (b) any currently active medical restriction window. Permanent
// disqualifying conditions are a separate one-way gate checked before any
// temporal logic.
package eligibility

import (
	"sort"
	"time"
)

// DonationType identifies what was (or will be) given during a donation.
// Values mirror the platform's wire representation.
type DonationType string

// Donation types.
const (
	WholeBlood DonationType = "whole_blood"
	Plasma     DonationType = "plasma"
	Platelets  DonationType = "platelets"
)

// Condition names a permanent disqualifying condition. Any reported
// condition makes the donor permanently unavailable to the engine; there is
// no window arithmetic for these.
type Condition string

// Permanent disqualifying conditions.
const (
	ConditionHIVOrAIDS     Condition = "hiv_aids"
	ConditionHepatitisBOrC Condition = "hepatitis_b_c"
	ConditionSyphilis      Condition = "syphilis"
	ConditionTuberculosis  Condition = "tuberculosis"
	ConditionOncological   Condition = "oncological"
	ConditionDiabetes      Condition = "diabetes"
	ConditionCardio        Condition = "cardiovascular"
	ConditionCNS           Condition = "cns_disorder"
	ConditionAutoimmune    Condition = "autoimmune"
	ConditionBloodDisease  Condition = "blood_disease"
)

// Event is one reported restriction occurrence: a kind and the date it
// happened. Events with a zero date are skipped (treated as "no restriction
// from that field"), never an error.
type Event struct {
	Kind RestrictionKind
	Date time.Time
}

// Donation is an immutable historical fact: one completed donation.
type Donation struct {
	Type DonationType
	Date time.Time
}

// Screening is a snapshot of a donor's medical questionnaire as the engine
// needs it: what they offer, permanent conditions, restriction events, and an
// optional last-donation fallback for donors whose history predates the
// platform.
type Screening struct {
	// Offered is the donation type the donor currently offers.
	Offered DonationType
	// LastDonation, when set, is the authoritative fallback last-donation
	// date used only if the donor has no recorded donation history. It is
	// paired with Offered for the recovery period.
	LastDonation *time.Time
	// Conditions lists the donor's permanent disqualifying conditions.
	Conditions []Condition
	// Restrictions lists reported temporary restriction events.
	Restrictions []Event
}

// Policy configures behavior the medical rules leave open.
type Policy struct {
	// EligibleWithoutScreening controls donors who have not submitted the
	// medical questionnaire: when true they evaluate as eligible by default;
	// when false they are blocked until a screening exists.
	EligibleWithoutScreening bool
}

// Window is one active deferral: its cause and the instant it ends.
type Window struct {
	Kind RestrictionKind `json:"kind"`
	Ends time.Time       `json:"ends"`
}

// Verdict is the outcome of evaluating one donor at one instant.
type Verdict struct {
	// EligibleNow reports whether the donor may donate as of the evaluation
	// instant. It is true exactly when Active is empty and neither permanent
	// deferral nor a missing-screening block applies.
	EligibleNow bool `json:"eligible_now"`
	// PermanentlyDeferred is true when a permanent disqualifying condition
	// was reported. NextEligible is the zero time in that case.
	PermanentlyDeferred bool `json:"permanently_deferred"`
	// AwaitingScreening is true when the donor has no screening and the
	// policy blocks unscreened donors. NextEligible is the zero time then.
	AwaitingScreening bool `json:"awaiting_screening"`
	// NextEligible is the earliest instant at which every active window has
	// elapsed. It equals the evaluation instant when no window is active.
	NextEligible time.Time `json:"next_eligible"`
	// Active holds the currently active windows sorted ascending by end
	// date (ties broken by kind). Elapsed windows never appear.
	Active []Window `json:"active,omitempty"`
}

// Evaluate computes the eligibility verdict for one donor as of asOf.
//
// scr may be nil (questionnaire not submitted); p then decides the outcome.
// history may be empty. Recorded history wins over the screening's
// LastDonation fallback, and the recovery period is that of the specific
// past donation's type, not the type currently offered.
func Evaluate(scr *Screening, history []Donation, asOf time.Time, p Policy) Verdict {
	if scr == nil && !p.EligibleWithoutScreening {
		return Verdict{AwaitingScreening: true}
	}

	if scr != nil && len(scr.Conditions) > 0 {
		return Verdict{PermanentlyDeferred: true}
	}

	var windows []Window

	// Recovery window from the most recent donation. Recorded history is
	// preferred; the screening's fallback date applies only when no record
	// exists at all.
	if last, ok := lastDonation(scr, history); ok {
		windows = append(windows, Window{
			Kind: KindDonationRecovery,
			Ends: last.Date.Add(RecoveryPeriod(last.Type)),
		})
	}

	if scr != nil {
		for _, ev := range scr.Restrictions {
			if ev.Date.IsZero() {
				continue
			}
			period := RestrictionPeriod(ev.Kind)
			if period <= 0 {
				continue
			}
			windows = append(windows, Window{Kind: ev.Kind, Ends: ev.Date.Add(period)})
		}
	}

	// Keep only windows still open: a window is inactive exactly at its end
	// instant (asOf == end means the deferral has elapsed).
	active := windows[:0]
	for _, w := range windows {
		if w.Ends.After(asOf) {
			active = append(active, w)
		}
	}
	if len(active) == 0 {
		return Verdict{EligibleNow: true, NextEligible: asOf}
	}

	sort.Slice(active, func(i, j int) bool {
		if !active[i].Ends.Equal(active[j].Ends) {
			return active[i].Ends.Before(active[j].Ends)
		}
		return active[i].Kind < active[j].Kind
	})

	// The latest of all active window ends wins.
	next := active[len(active)-1].Ends

	return Verdict{
		EligibleNow:  false,
		NextEligible: next,
		Active:       active,
	}
}

// lastDonation resolves the donor's most recent donation: the latest history
// entry by date, or the screening fallback paired with the offered type.
func lastDonation(scr *Screening, history []Donation) (Donation, bool) {
	var (
		best  Donation
		found bool
	)
	for _, d := range history {
		if d.Date.IsZero() {
			continue
		}
		if !found || d.Date.After(best.Date) {
			best, found = d, true
		}
	}
	if found {
		return best, true
	}
	if scr != nil && scr.LastDonation != nil && !scr.LastDonation.IsZero() {
		return Donation{Type: scr.Offered, Date: *scr.LastDonation}, true
	}
	return Donation{}, false
}
