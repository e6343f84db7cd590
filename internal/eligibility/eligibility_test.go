package eligibility

import (
	"reflect"
	"testing"
	"time"
)

// fixed evaluation instant for deterministic tests
var asOf = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time { return asOf.Add(-time.Duration(n) * day) }

func tp(t time.Time) *time.Time { return &t }

func TestEvaluate_NoScreening_DefaultEligible(t *testing.T) {
	v := Evaluate(nil, nil, asOf, Policy{EligibleWithoutScreening: true})

	if !v.EligibleNow {
		t.Fatalf("unscreened donor should be eligible under permissive policy: %+v", v)
	}
	if !v.NextEligible.Equal(asOf) {
		t.Fatalf("NextEligible = %v; want asOf %v", v.NextEligible, asOf)
	}
	if len(v.Active) != 0 {
		t.Fatalf("expected no active windows, got %v", v.Active)
	}
}

func TestEvaluate_NoScreening_BlockedPolicy(t *testing.T) {
	v := Evaluate(nil, nil, asOf, Policy{EligibleWithoutScreening: false})

	if v.EligibleNow {
		t.Fatalf("unscreened donor should be blocked under strict policy")
	}
	if !v.AwaitingScreening {
		t.Fatalf("expected AwaitingScreening, got %+v", v)
	}
	if !v.NextEligible.IsZero() {
		t.Fatalf("NextEligible should be zero while awaiting screening, got %v", v.NextEligible)
	}
}

func TestEvaluate_PermanentCondition_AlwaysDeferred(t *testing.T) {
	for _, cond := range []Condition{
		ConditionHIVOrAIDS, ConditionHepatitisBOrC, ConditionSyphilis,
		ConditionTuberculosis, ConditionOncological, ConditionDiabetes,
		ConditionCardio, ConditionCNS, ConditionAutoimmune, ConditionBloodDisease,
	} {
		t.Run(string(cond), func(t *testing.T) {
			// Temporal fields must not matter at all.
			scr := &Screening{
				Offered:      Plasma,
				LastDonation: tp(daysAgo(1)),
				Conditions:   []Condition{cond},
				Restrictions: []Event{{Kind: KindVaccination, Date: daysAgo(1)}},
			}
			v := Evaluate(scr, []Donation{{Type: WholeBlood, Date: daysAgo(1)}}, asOf, Policy{})
			if v.EligibleNow || !v.PermanentlyDeferred {
				t.Fatalf("verdict = %+v; want permanent deferral", v)
			}
			if !v.NextEligible.IsZero() {
				t.Fatalf("NextEligible should be zero (never) for permanent deferral, got %v", v.NextEligible)
			}
			if len(v.Active) != 0 {
				t.Fatalf("no windows should be reported for permanent deferral, got %v", v.Active)
			}
		})
	}
}

func TestEvaluate_WholeBloodRecovery_59Days(t *testing.T) {
	donated := daysAgo(59)
	scr := &Screening{Offered: WholeBlood}
	v := Evaluate(scr, []Donation{{Type: WholeBlood, Date: donated}}, asOf, Policy{})

	if v.EligibleNow {
		t.Fatalf("59 days after whole blood should still be blocked")
	}
	want := donated.Add(60 * day)
	if !v.NextEligible.Equal(want) {
		t.Fatalf("NextEligible = %v; want donation+60d %v", v.NextEligible, want)
	}
	if len(v.Active) != 1 || v.Active[0].Kind != KindDonationRecovery {
		t.Fatalf("expected single recovery window, got %v", v.Active)
	}
}

func TestEvaluate_PlasmaRecovery_Exactly14Days(t *testing.T) {
	// Boundary: a window is inactive exactly at its end instant.
	scr := &Screening{Offered: Plasma}
	v := Evaluate(scr, []Donation{{Type: Plasma, Date: daysAgo(14)}}, asOf, Policy{})

	if !v.EligibleNow {
		t.Fatalf("exactly 14 days after plasma should be eligible: %+v", v)
	}
	if !v.NextEligible.Equal(asOf) {
		t.Fatalf("NextEligible = %v; want asOf", v.NextEligible)
	}
}

func TestEvaluate_RecoveryUsesTypeOfThatDonation(t *testing.T) {
	// Donor switched to offering whole blood, but the last donation was
	// plasma: the 14-day period of the plasma donation applies, not 60 days.
	scr := &Screening{Offered: WholeBlood}
	v := Evaluate(scr, []Donation{{Type: Plasma, Date: daysAgo(20)}}, asOf, Policy{})

	if !v.EligibleNow {
		t.Fatalf("plasma donation 20 days ago should not block: %+v", v)
	}
}

func TestEvaluate_FallbackLastDonation_UsesOfferedType(t *testing.T) {
	// No recorded history: the screening's fallback date pairs with the
	// currently offered type.
	scr := &Screening{Offered: WholeBlood, LastDonation: tp(daysAgo(30))}
	v := Evaluate(scr, nil, asOf, Policy{})

	if v.EligibleNow {
		t.Fatalf("30 days after fallback whole blood donation should block")
	}
	want := daysAgo(30).Add(60 * day)
	if !v.NextEligible.Equal(want) {
		t.Fatalf("NextEligible = %v; want %v", v.NextEligible, want)
	}
}

func TestEvaluate_HistoryWinsOverFallback(t *testing.T) {
	// A recorded plasma donation is more recent than the stale fallback;
	// the record must be preferred.
	scr := &Screening{Offered: WholeBlood, LastDonation: tp(daysAgo(90))}
	v := Evaluate(scr, []Donation{{Type: Plasma, Date: daysAgo(10)}}, asOf, Policy{})

	want := daysAgo(10).Add(14 * day)
	if v.EligibleNow {
		t.Fatalf("10 days after plasma should block")
	}
	if !v.NextEligible.Equal(want) {
		t.Fatalf("NextEligible = %v; want plasma record +14d %v", v.NextEligible, want)
	}
}

func TestEvaluate_RestrictionWindows_Boundaries(t *testing.T) {
	cases := map[RestrictionKind]time.Duration{
		KindRecentUpgrade:        150 * day,
		KindRespiratoryInfection: 30 * day,
		KindAntibioticTherapy:    14 * day,
		KindVaccination:          30 * day,
		KindSurgeryOrInjury:      180 * day,
		KindPregnancy:            365 * day,
		KindDentalProcedure:      30 * day,
		KindHerpesSimplex:        14 * day,
	}
	for kind, period := range cases {
		t.Run(string(kind), func(t *testing.T) {
			// One day before the window end: active.
			start := asOf.Add(day).Add(-period) // end = asOf + 1d
			v := Evaluate(&Screening{
				Offered:      WholeBlood,
				Restrictions: []Event{{Kind: kind, Date: start}},
			}, nil, asOf, Policy{})
			if v.EligibleNow {
				t.Fatalf("window ending in 1 day should be active")
			}
			if want := start.Add(period); !v.NextEligible.Equal(want) {
				t.Fatalf("NextEligible = %v; want %v", v.NextEligible, want)
			}

			// Exactly at the window end: inactive.
			start = asOf.Add(-period) // end == asOf
			v = Evaluate(&Screening{
				Offered:      WholeBlood,
				Restrictions: []Event{{Kind: kind, Date: start}},
			}, nil, asOf, Policy{})
			if !v.EligibleNow {
				t.Fatalf("window ending exactly at asOf should be inactive: %+v", v)
			}
			if len(v.Active) != 0 {
				t.Fatalf("elapsed window must not appear in Active: %v", v.Active)
			}
		})
	}
}

func TestEvaluate_VaccinationOutlastsRecovery(t *testing.T) {
	// Whole blood 70 days ago: recovery has elapsed (70 > 60). Vaccination
	// 20 days ago: still active (20 < 30). The vaccination window wins.
	vaccinated := daysAgo(20)
	scr := &Screening{
		Offered:      WholeBlood,
		Restrictions: []Event{{Kind: KindVaccination, Date: vaccinated}},
	}
	v := Evaluate(scr, []Donation{{Type: WholeBlood, Date: daysAgo(70)}}, asOf, Policy{})

	if v.EligibleNow {
		t.Fatalf("active vaccination window should block")
	}
	want := vaccinated.Add(30 * day)
	if !v.NextEligible.Equal(want) {
		t.Fatalf("NextEligible = %v; want vaccination+30d %v", v.NextEligible, want)
	}
	if len(v.Active) != 1 || v.Active[0].Kind != KindVaccination {
		t.Fatalf("only the vaccination window should be active, got %v", v.Active)
	}
}

func TestEvaluate_NextEligibleIsMaxOfActiveEnds(t *testing.T) {
	scr := &Screening{
		Offered: WholeBlood,
		Restrictions: []Event{
			{Kind: KindHerpesSimplex, Date: daysAgo(10)},     // ends in 4d
			{Kind: KindSurgeryOrInjury, Date: daysAgo(100)},  // ends in 80d
			{Kind: KindDentalProcedure, Date: daysAgo(40)},   // elapsed 10d ago
			{Kind: KindVaccination, Date: daysAgo(25)},       // ends in 5d
		},
	}
	v := Evaluate(scr, []Donation{{Type: WholeBlood, Date: daysAgo(30)}}, asOf, Policy{}) // recovery ends in 30d

	if v.EligibleNow {
		t.Fatalf("expected blocked verdict")
	}
	if want := daysAgo(100).Add(180 * day); !v.NextEligible.Equal(want) {
		t.Fatalf("NextEligible = %v; want surgery end %v", v.NextEligible, want)
	}

	// Active is exactly the open windows, ascending by end date.
	gotKinds := make([]RestrictionKind, 0, len(v.Active))
	for _, w := range v.Active {
		gotKinds = append(gotKinds, w.Kind)
	}
	wantKinds := []RestrictionKind{KindHerpesSimplex, KindVaccination, KindDonationRecovery, KindSurgeryOrInjury}
	if !reflect.DeepEqual(gotKinds, wantKinds) {
		t.Fatalf("Active order = %v; want %v", gotKinds, wantKinds)
	}
	for i := 1; i < len(v.Active); i++ {
		if v.Active[i].Ends.Before(v.Active[i-1].Ends) {
			t.Fatalf("Active not sorted ascending: %v", v.Active)
		}
	}
}

func TestEvaluate_ZeroDatesSkipped(t *testing.T) {
	scr := &Screening{
		Offered:      WholeBlood,
		Restrictions: []Event{{Kind: KindVaccination}}, // flag set, date missing
	}
	v := Evaluate(scr, []Donation{{Type: WholeBlood}}, asOf, Policy{})

	if !v.EligibleNow {
		t.Fatalf("events and donations without dates must be skipped: %+v", v)
	}
}

func TestEvaluate_UnknownRestrictionKindIgnored(t *testing.T) {
	scr := &Screening{
		Offered:      WholeBlood,
		Restrictions: []Event{{Kind: RestrictionKind("tea_overdose"), Date: daysAgo(1)}},
	}
	if v := Evaluate(scr, nil, asOf, Policy{}); !v.EligibleNow {
		t.Fatalf("unknown restriction kind must not open a window: %+v", v)
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	scr := &Screening{
		Offered:      Plasma,
		Restrictions: []Event{{Kind: KindVaccination, Date: daysAgo(5)}},
	}
	hist := []Donation{{Type: Plasma, Date: daysAgo(3)}}

	a := Evaluate(scr, hist, asOf, Policy{EligibleWithoutScreening: true})
	b := Evaluate(scr, hist, asOf, Policy{EligibleWithoutScreening: true})
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("identical inputs produced different verdicts:\n%+v\n%+v", a, b)
	}
}

func TestRecoveryPeriod_UnknownTypeIsConservative(t *testing.T) {
	if got := RecoveryPeriod(DonationType("marrow")); got != 60*day {
		t.Fatalf("unknown type recovery = %v; want whole-blood 60d", got)
	}
}
