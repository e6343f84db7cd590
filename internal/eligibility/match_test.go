package eligibility

import "testing"

func matchFixtures() []Candidate {
	return []Candidate{
		{
			ID:        "don-1",
			BloodType: "I",
			Rh:        RhPositive,
			Screening: &Screening{Offered: WholeBlood},
		},
		{
			ID:        "don-2",
			BloodType: "I",
			Rh:        RhPositive,
			Screening: &Screening{
				Offered:      WholeBlood,
				Restrictions: []Event{{Kind: KindVaccination, Date: daysAgo(5)}},
			},
		},
		{
			ID:        "don-3",
			BloodType: "III",
			Rh:        RhNegative,
			Screening: &Screening{Offered: Plasma},
		},
		{
			ID:        "don-4", // no questionnaire submitted
			BloodType: "I",
			Rh:        RhNegative,
		},
	}
}

func ids(cands []Candidate) []string {
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.ID)
	}
	return out
}

func TestFilter_BloodTypeWithBlockedDonor(t *testing.T) {
	// Two type-I positive donors: one clean, one inside a vaccination
	// window. Only the clean one matches.
	got := Filter(matchFixtures(), Criteria{BloodType: "I", Rh: RhPositive}, asOf, Policy{})
	if len(got) != 1 || got[0].ID != "don-1" {
		t.Fatalf("Filter = %v; want [don-1]", ids(got))
	}
}

func TestFilter_NoCriteriaKeepsEligibleInOrder(t *testing.T) {
	got := Filter(matchFixtures(), Criteria{}, asOf, Policy{EligibleWithoutScreening: true})
	want := []string{"don-1", "don-3", "don-4"}
	if g := ids(got); len(g) != len(want) || g[0] != want[0] || g[1] != want[1] || g[2] != want[2] {
		t.Fatalf("Filter = %v; want %v (input order preserved)", g, want)
	}
}

func TestFilter_DonationTypeCriterion(t *testing.T) {
	got := Filter(matchFixtures(), Criteria{DonationType: Plasma}, asOf, Policy{EligibleWithoutScreening: true})
	if len(got) != 1 || got[0].ID != "don-3" {
		t.Fatalf("Filter = %v; want [don-3]", ids(got))
	}
}

func TestFilter_UnscreenedFailsDonationTypeCriterion(t *testing.T) {
	// don-4 passes the eligibility check by the permissive policy but has
	// no offered type, so any donation-type criterion rejects it.
	got := Filter(matchFixtures(), Criteria{DonationType: WholeBlood}, asOf, Policy{EligibleWithoutScreening: true})
	for _, c := range got {
		if c.ID == "don-4" {
			t.Fatalf("unscreened donor must not satisfy a donation type criterion")
		}
	}
	if len(got) != 1 || got[0].ID != "don-1" {
		t.Fatalf("Filter = %v; want [don-1]", ids(got))
	}
}

func TestFilter_StrictPolicyDropsUnscreened(t *testing.T) {
	got := Filter(matchFixtures(), Criteria{}, asOf, Policy{EligibleWithoutScreening: false})
	for _, c := range got {
		if c.ID == "don-4" {
			t.Fatalf("strict policy must drop unscreened donors")
		}
	}
}

func TestFilter_EmptyInput(t *testing.T) {
	if got := Filter(nil, Criteria{BloodType: "I"}, asOf, Policy{}); len(got) != 0 {
		t.Fatalf("Filter(nil) = %v; want empty", got)
	}
}
