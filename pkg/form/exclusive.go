package form

import "digital.vasic.constraints/pkg/field"

// Representative picks the member of an exclusive group that
// is evaluated for a pass. Members are in registration order
// and never empty. Returning nil selects the first member.
type Representative func(members []*field.Field) *field.Field

// FirstMember is the default Representative.
func FirstMember(members []*field.Field) *field.Field {
	return members[0]
}

// CheckedMember selects the first checked member, falling back
// to the first member when none is checked.
func CheckedMember(isChecked func(*field.Field) bool) Representative {
	return func(members []*field.Field) *field.Field {
		for _, m := range members {
			if isChecked(m) {
				return m
			}
		}
		return members[0]
	}
}
