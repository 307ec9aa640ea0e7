package rule

import "context"

type passIDKey struct{}

// WithPassID returns a context carrying the id of the
// validation pass evaluating a rule.
func WithPassID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, passIDKey{}, id)
}

// PassID returns the pass id carried by ctx, or "".
func PassID(ctx context.Context) string {
	id, _ := ctx.Value(passIDKey{}).(string)
	return id
}
