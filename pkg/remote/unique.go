package remote

import (
	"context"
	"fmt"
	"time"

	"digital.vasic.constraints/pkg/logging"
	"digital.vasic.constraints/pkg/rule"
)

// SetChecker answers set membership questions.
type SetChecker interface {
	IsMember(ctx context.Context, key, member string) (bool, error)
}

// UniqueRule returns the "unique" rule. Its requirement is the
// key of a set of taken values; the value passes when it is not
// a member.
func UniqueRule(sets SetChecker, logger logging.Logger) rule.Definition {
	logger = logging.OrNull(logger)
	return rule.Definition{
		Name:            "unique",
		Priority:        -1,
		RequirementType: rule.RequirementString,
		Validate: func(
			_ context.Context,
			value rule.Value,
			requirements any,
		) rule.Verdict {
			key, _ := requirements.(string)
			member := value.String()
			return rule.Defer(func(ctx context.Context) (bool, error) {
				start := time.Now()
				taken, err := sets.IsMember(ctx, key, member)
				call := logging.RemoteCallLog{
					Timestamp:  start.UTC().Format(time.RFC3339Nano),
					PassID:     rule.PassID(ctx),
					Rule:       "unique",
					Method:     "SISMEMBER",
					URL:        key,
					DurationMs: time.Since(start).Milliseconds(),
				}
				if err != nil {
					call.Error = err.Error()
					logger.LogRemoteCall(call)
					return false, fmt.Errorf("check set %s: %w", key, err)
				}
				logger.LogRemoteCall(call)
				return !taken, nil
			})
		},
	}
}
