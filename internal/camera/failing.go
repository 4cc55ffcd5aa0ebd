package camera

import (
	"context"
	"fmt"
)

// Failing never opens. It stands in for a denied or missing camera.
type Failing struct {
	reason string
}

// NewFailing creates a provider that always fails with reason
func NewFailing(reason string) *Failing {
	if reason == "" {
		reason = "permission denied"
	}
	return &Failing{reason: reason}
}

func (f *Failing) Name() string { return "fail" }

func (f *Failing) Open(ctx context.Context, _ Request) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %s", ErrUnavailable, f.reason)
}
