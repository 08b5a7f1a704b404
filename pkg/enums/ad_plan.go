package enums

import "fmt"

// AdPlan names the paid visibility tiers a pulpería can purchase.
type AdPlan string

const (
	AdPlanBasico    AdPlan = "basico"
	AdPlanDestacado AdPlan = "destacado"
	AdPlanPremium   AdPlan = "premium"
)

var validAdPlans = []AdPlan{
	AdPlanBasico,
	AdPlanDestacado,
	AdPlanPremium,
}

// String implements fmt.Stringer.
func (a AdPlan) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AdPlan.
func (a AdPlan) IsValid() bool {
	for _, candidate := range validAdPlans {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAdPlan converts raw input into an AdPlan.
func ParseAdPlan(value string) (AdPlan, error) {
	for _, candidate := range validAdPlans {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ad plan %q", value)
}
