// Donor matching.
//
// Filter applies a seeker's search criteria to a slice of candidate donors:
// attribute equality first, then a full eligibility evaluation per candidate.
// The caller is expected to have applied coarse profile gates (verification,
// visibility) when assembling the candidate slice; everything temporal and
// medical happens here.
package eligibility

import "time"

// BloodType is a blood group in the I–IV notation.
type BloodType string

// Rh is a Rhesus factor.
type Rh string

// Rhesus factors.
const (
	RhPositive Rh = "positive"
	RhNegative Rh = "negative"
)

// Candidate is one donor under consideration for a seeker's search: the
// attributes a seeker filters on plus the snapshots the evaluator needs.
type Candidate struct {
	ID        string
	BloodType BloodType
	Rh        Rh
	Screening *Screening
	History   []Donation
}

// Criteria is a seeker's search filter. Zero-valued fields are not applied.
type Criteria struct {
	BloodType    BloodType
	Rh           Rh
	DonationType DonationType
}

// Filter returns the candidates that match the criteria and are eligible to
// donate as of asOf, preserving input order.
//
// A donation-type criterion requires a screening with a matching offered
// type; donors without a screening cannot satisfy it even when the policy
// lets them pass the eligibility check itself.
func Filter(candidates []Candidate, crit Criteria, asOf time.Time, p Policy) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	for _, cand := range candidates {
		if crit.BloodType != "" && cand.BloodType != crit.BloodType {
			continue
		}
		if crit.Rh != "" && cand.Rh != crit.Rh {
			continue
		}
		if crit.DonationType != "" {
			if cand.Screening == nil || cand.Screening.Offered != crit.DonationType {
				continue
			}
		}
		if !Evaluate(cand.Screening, cand.History, asOf, p).EligibleNow {
			continue
		}
		out = append(out, cand)
	}
	return out
}
