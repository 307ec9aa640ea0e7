package field

import (
	"sort"

	"digital.vasic.constraints/pkg/constraint"
)

// tier holds the constraints sharing one priority, in
// declaration order.
type tier struct {
	priority    int
	constraints []constraint.Constraint
}

// tiers groups constraints by priority, highest first.
func tiers(cs []constraint.Constraint) []tier {
	sorted := make([]constraint.Constraint, len(cs))
	copy(sorted, cs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})

	var out []tier
	for _, c := range sorted {
		if n := len(out); n > 0 && out[n-1].priority == c.Priority {
			out[n-1].constraints = append(out[n-1].constraints, c)
			continue
		}
		out = append(out, tier{
			priority:    c.Priority,
			constraints: []constraint.Constraint{c},
		})
	}
	return out
}

func flatten(ts []tier) []constraint.Constraint {
	var out []constraint.Constraint
	for _, t := range ts {
		out = append(out, t.constraints...)
	}
	return out
}
