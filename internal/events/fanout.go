package events

import (
	"context"
	"errors"

	"washride/internal/modules/booking"
)

// Fanout delivers each status change to every publisher. All sinks are
// attempted; errors are joined rather than short-circuiting.
type Fanout []booking.EventPublisher

func (f Fanout) PublishStatusChange(ctx context.Context, e booking.StatusChange) error {
	var errs []error
	for _, p := range f {
		if err := p.PublishStatusChange(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
