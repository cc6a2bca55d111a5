package confirm

import (
	"context"
	"time"
)

// SimulatedSubmitter stands in for the booking call when the backend has no
// endpoint for it: it waits for Delay and reports success.
type SimulatedSubmitter struct {
	Delay time.Duration
}

func (s SimulatedSubmitter) SubmitPackageBooking(ctx context.Context, _ Request) error {
	if s.Delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
