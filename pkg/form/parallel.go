package form

import (
	"context"
	"fmt"
	"sync"

	"digital.vasic.constraints/pkg/field"
)

// fieldPass runs one field pass with or without events.
func fieldPass(
	ctx context.Context,
	fld *field.Field,
	opts []field.PassOption,
	events bool,
) (field.Result, error) {
	if events {
		return fld.Validate(ctx, opts...)
	}
	return fld.Evaluate(ctx, opts...)
}

func runSequential(
	ctx context.Context,
	fields []*field.Field,
	opts []field.PassOption,
	events bool,
	failFast bool,
) ([]FieldOutcome, error) {
	outcomes := make([]FieldOutcome, 0, len(fields))
	for _, fld := range fields {
		res, err := fieldPass(ctx, fld, opts, events)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", fld.Name(), err)
		}
		outcomes = append(outcomes, FieldOutcome{Field: fld, Result: res})
		if failFast && res.Status == field.StatusInvalid {
			break
		}
	}
	return outcomes, nil
}

// parallelResult pairs an outcome with its registration index
// so outcomes are returned in registration order.
type parallelResult struct {
	index   int
	outcome FieldOutcome
	err     error
}

// runParallel validates fields concurrently with a semaphore
// limiting maxConcurrency goroutines.
func runParallel(
	ctx context.Context,
	fields []*field.Field,
	opts []field.PassOption,
	events bool,
	maxConcurrency int,
) ([]FieldOutcome, error) {
	sem := make(chan struct{}, maxConcurrency)
	resultsCh := make(chan parallelResult, len(fields))

	var wg sync.WaitGroup

	for i, fld := range fields {
		wg.Add(1)
		go func(idx int, fld *field.Field) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				resultsCh <- parallelResult{index: idx, err: ctx.Err()}
				return
			}

			res, err := fieldPass(ctx, fld, opts, events)
			if err != nil {
				err = fmt.Errorf("field %s: %w", fld.Name(), err)
			}
			resultsCh <- parallelResult{
				index:   idx,
				outcome: FieldOutcome{Field: fld, Result: res},
				err:     err,
			}
		}(i, fld)
	}

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	ordered := make([]FieldOutcome, len(fields))
	var firstErr error
	for pr := range resultsCh {
		if pr.err != nil && firstErr == nil {
			firstErr = pr.err
		}
		ordered[pr.index] = pr.outcome
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return ordered, nil
}
