package remote

import (
	"digital.vasic.constraints/pkg/logging"
	"digital.vasic.constraints/pkg/plugin"
	"digital.vasic.constraints/pkg/rule"
)

// Version of the remote rule pack.
const Version = "1.0.0"

// Pack bundles the remote rules. The unique rule is included
// only when sets is non-nil.
func Pack(
	checker *HTTPChecker,
	sets SetChecker,
	logger logging.Logger,
) *plugin.Pack {
	defs := []rule.Definition{checker.Definition()}
	if sets != nil {
		defs = append(defs, UniqueRule(sets, logger))
	}
	return plugin.NewPack("remote", Version, defs...)
}
