package rule

import (
	"context"
	"errors"
	"fmt"
)

var (
	errEmptyVerdict  = errors.New("rule returned an empty verdict")
	errClosedPending = errors.New(
		"pending verdict closed without an outcome",
	)
)

// Outcome is a settled verdict.
type Outcome struct {
	Passed bool
	Err    error
}

// Verdict is what a rule returns: either an immediate outcome
// or one that settles later.
type Verdict struct {
	settled  bool
	outcome  Outcome
	pending  <-chan Outcome
	deferred func(ctx context.Context) (bool, error)
}

// Ready returns an immediate pass or failure.
func Ready(passed bool) Verdict {
	return Verdict{settled: true, outcome: Outcome{Passed: passed}}
}

// Failed returns an immediate evaluation error.
func Failed(err error) Verdict {
	return Verdict{settled: true, outcome: Outcome{Err: err}}
}

// Pending returns a verdict settled by the first outcome sent
// on ch.
func Pending(ch <-chan Outcome) Verdict {
	return Verdict{pending: ch}
}

// Defer returns a verdict computed by fn on its own goroutine
// once the verdict is started.
func Defer(fn func(ctx context.Context) (bool, error)) Verdict {
	return Verdict{deferred: fn}
}

// IsReady reports whether the verdict settled immediately.
func (v Verdict) IsReady() bool {
	return v.settled
}

// Start launches a deferred computation and returns the
// resulting pending verdict. Other verdicts are returned
// unchanged.
func (v Verdict) Start(ctx context.Context) Verdict {
	if v.deferred == nil {
		return v
	}

	ch := make(chan Outcome, 1)
	fn := v.deferred
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- Outcome{Err: fmt.Errorf("panic: %v", r)}
			}
		}()
		passed, err := fn(ctx)
		ch <- Outcome{Passed: passed && err == nil, Err: err}
	}()
	return Pending(ch)
}

// Wait blocks until the verdict settles or ctx is done.
func (v Verdict) Wait(ctx context.Context) Outcome {
	if v.settled {
		return v.outcome
	}
	if v.deferred != nil {
		return v.Start(ctx).Wait(ctx)
	}
	if v.pending == nil {
		return Outcome{Err: errEmptyVerdict}
	}

	select {
	case out, ok := <-v.pending:
		if !ok {
			return Outcome{Err: errClosedPending}
		}
		return out
	case <-ctx.Done():
		return Outcome{Err: ctx.Err()}
	}
}
