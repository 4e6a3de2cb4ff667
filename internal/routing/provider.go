// README: Route provider contract shared by the simulator.
package routing

import (
	"context"
	"errors"

	"washride/internal/types"
)

// ErrRouteUnavailable is returned when the provider errors or has no path
// between the requested points. Callers are expected to degrade gracefully
// (hold position, retry later) rather than fail the whole tick.
var ErrRouteUnavailable = errors.New("route unavailable")

// Route is an ordered waypoint path plus the provider's duration estimate.
// Routes are ephemeral: they live for one leg and are never persisted.
type Route struct {
	Waypoints       []types.Point
	DurationSeconds float64
}

// Provider computes a driving path between two points. Implementations wrap
// unreliable network I/O and must honor the context deadline.
type Provider interface {
	GetRoute(ctx context.Context, start, end types.Point) (Route, error)
}
