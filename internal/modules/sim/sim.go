// README:
// The position simulator moves every approved driver once per tick.
// Drivers on a job are stepped along a fetched route toward the leg
// target their booking status implies; idle available drivers wander
// around their last position inside the city bounding box. Route
// lookups that keep failing back off linearly and eventually raise a
// single tracking alert for the booking, cleared again on the first
// successful fetch.
package sim

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"washride/internal/config"
	"washride/internal/modules/booking"
	"washride/internal/modules/driver"
	"washride/internal/modules/location"
	"washride/internal/modules/provider"
	"washride/internal/observability"
	"washride/internal/routing"
	"washride/internal/types"
)

type DriverSource interface {
	List(ctx context.Context) ([]*driver.Driver, error)
}

type BookingSource interface {
	ActiveForDriver(ctx context.Context, driverID types.ID) (*booking.Booking, error)
}

type ProviderSource interface {
	Get(ctx context.Context, id types.ID) (*provider.Provider, error)
}

// PositionSink receives each simulated step. location.Service
// implements it. Tracked updates carry the booking and the remaining
// route ETA; wander updates go through plain Update.
type PositionSink interface {
	Update(ctx context.Context, driverID types.ID, pt types.Point) error
	UpdateTracked(ctx context.Context, driverID types.ID, pt types.Point, bookingID types.ID, etaSeconds float64) error
	Position(ctx context.Context, driverID types.ID) (types.Point, error)
}

// Alerter is told, once per stuck leg, that a driver on a job can no
// longer be tracked, and again when routing recovers.
type Alerter interface {
	TrackingUnavailable(ctx context.Context, driverID, bookingID types.ID)
	TrackingRestored(ctx context.Context, driverID, bookingID types.ID)
}

// legState is the cached route for one driver's current leg. It is
// dropped whenever the booking or the target changes.
type legState struct {
	bookingID types.ID
	target    types.Point
	waypoints []types.Point
	idx       int

	// remaining counts down from the route duration, perStep per
	// advanced waypoint.
	remaining float64
	perStep   float64

	failures int
	nextTry  uint64
	alerted  bool
}

type Simulator struct {
	drivers   DriverSource
	bookings  BookingSource
	providers ProviderSource
	routes    routing.Provider
	sink      PositionSink
	alerter   Alerter
	cfg       config.SimConfig
	log       *slog.Logger

	mu   sync.Mutex
	legs map[types.ID]*legState
	tick uint64
}

func New(drivers DriverSource, bookings BookingSource, providers ProviderSource, routes routing.Provider, sink PositionSink, alerter Alerter, cfg config.SimConfig, log *slog.Logger) *Simulator {
	if log == nil {
		log = slog.Default()
	}
	return &Simulator{
		drivers:   drivers,
		bookings:  bookings,
		providers: providers,
		routes:    routes,
		sink:      sink,
		alerter:   alerter,
		cfg:       cfg,
		log:       log,
		legs:      make(map[types.ID]*legState),
	}
}

// Run ticks the simulator until ctx is cancelled.
func (s *Simulator) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick advances every approved driver by at most one waypoint.
func (s *Simulator) Tick(ctx context.Context) {
	s.mu.Lock()
	s.tick++
	tick := s.tick
	s.mu.Unlock()

	observability.SimTicksTotal.Inc()

	all, err := s.drivers.List(ctx)
	if err != nil {
		s.log.Error("sim: list drivers", "err", err)
		return
	}

	var tracked int
	var wg sync.WaitGroup
	for _, d := range all {
		if !d.Approved {
			continue
		}
		tracked++
		wg.Add(1)
		go func(d *driver.Driver) {
			defer wg.Done()
			s.stepDriver(ctx, d, tick)
		}(d)
	}
	wg.Wait()
	observability.SimDriversTracked.Set(float64(tracked))
}

func (s *Simulator) stepDriver(ctx context.Context, d *driver.Driver, tick uint64) {
	b, err := s.bookings.ActiveForDriver(ctx, d.ID)
	switch {
	case errors.Is(err, booking.ErrNotFound):
		s.dropLeg(d.ID)
		if d.Availability {
			s.wander(ctx, d)
		}
		return
	case err != nil:
		s.log.Warn("sim: active booking lookup", "driver_id", d.ID, "err", err)
		return
	}

	target, ok := s.targetFor(ctx, b)
	if !ok {
		// Terminal status observed mid-path; stop moving immediately.
		s.dropLeg(d.ID)
		return
	}

	leg := s.legFor(d.ID, b.ID, target)
	if leg.waypoints == nil {
		if tick < leg.nextTry {
			return
		}
		if !s.fetchLeg(ctx, d, b, leg, tick) {
			return
		}
	}

	if leg.idx >= len(leg.waypoints) {
		// Arrived; hold at the last waypoint until the status changes the leg.
		return
	}
	pt := leg.waypoints[leg.idx]
	eta := s.advance(leg)
	if err := s.sink.UpdateTracked(ctx, d.ID, pt, b.ID, eta); err != nil {
		s.log.Warn("sim: publish position", "driver_id", d.ID, "err", err)
	}
}

// targetFor maps a booking's status to the point the driver should be
// heading toward. The second return is false for terminal statuses.
func (s *Simulator) targetFor(ctx context.Context, b *booking.Booking) (types.Point, bool) {
	switch b.Status {
	case booking.StatusRequested, booking.StatusConfirmed:
		return b.Pickup, true
	case booking.StatusPickedUp, booking.StatusInWash, booking.StatusDrying:
		p, err := s.providers.Get(ctx, b.ProviderID)
		if err != nil {
			s.log.Warn("sim: provider lookup", "provider_id", b.ProviderID, "err", err)
			return types.Point{}, false
		}
		return p.Location, true
	case booking.StatusDone:
		// Returning the washed car to the pickup point.
		return b.Pickup, true
	default:
		return types.Point{}, false
	}
}

// legFor returns the cached leg for the driver, resetting it when the
// booking or the target changed.
func (s *Simulator) legFor(driverID, bookingID types.ID, target types.Point) *legState {
	s.mu.Lock()
	defer s.mu.Unlock()
	leg := s.legs[driverID]
	if leg == nil || leg.bookingID != bookingID || leg.target != target {
		leg = &legState{bookingID: bookingID, target: target}
		s.legs[driverID] = leg
	}
	return leg
}

// fetchLeg resolves the route for a leg. On failure it schedules a
// linearly backed-off retry and, past the threshold, raises the
// tracking alert exactly once per leg.
func (s *Simulator) fetchLeg(ctx context.Context, d *driver.Driver, b *booking.Booking, leg *legState, tick uint64) bool {
	start, err := s.sink.Position(ctx, d.ID)
	if errors.Is(err, location.ErrNoPosition) {
		start = d.Home
	} else if err != nil {
		s.log.Warn("sim: read position", "driver_id", d.ID, "err", err)
		return false
	}

	rctx, cancel := context.WithTimeout(ctx, s.cfg.RouteTimeout)
	defer cancel()

	observability.RouteRequestsTotal.Inc()
	route, err := s.routes.GetRoute(rctx, start, leg.target)
	if err != nil {
		observability.RouteFailuresTotal.Inc()
		s.mu.Lock()
		leg.failures++
		leg.nextTry = tick + uint64(leg.failures)
		escalate := leg.failures >= s.cfg.RouteFailureThreshold && !leg.alerted
		if escalate {
			leg.alerted = true
		}
		s.mu.Unlock()

		s.log.Warn("sim: route lookup failed", "driver_id", d.ID, "booking_id", b.ID, "failures", leg.failures, "err", err)
		if escalate && s.alerter != nil {
			s.alerter.TrackingUnavailable(ctx, d.ID, b.ID)
		}
		return false
	}

	s.mu.Lock()
	leg.waypoints = route.Waypoints
	leg.idx = 0
	leg.remaining = route.DurationSeconds
	if n := len(route.Waypoints); n > 0 {
		leg.perStep = route.DurationSeconds / float64(n)
	}
	leg.failures = 0
	leg.nextTry = 0
	restored := leg.alerted
	leg.alerted = false
	s.mu.Unlock()

	if restored && s.alerter != nil {
		s.alerter.TrackingRestored(ctx, d.ID, b.ID)
	}
	return true
}

// advance moves the leg one waypoint and returns the remaining ETA.
func (s *Simulator) advance(leg *legState) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	leg.idx++
	leg.remaining -= leg.perStep
	if leg.remaining < 0 || leg.idx >= len(leg.waypoints) {
		leg.remaining = 0
	}
	return leg.remaining
}

func (s *Simulator) dropLeg(driverID types.ID) {
	s.mu.Lock()
	delete(s.legs, driverID)
	s.mu.Unlock()
}

// wander nudges an idle driver around their last position, clamped to
// the configured bounding box.
func (s *Simulator) wander(ctx context.Context, d *driver.Driver) {
	cur, err := s.sink.Position(ctx, d.ID)
	if errors.Is(err, location.ErrNoPosition) {
		cur = d.Home
	} else if err != nil {
		s.log.Warn("sim: read position", "driver_id", d.ID, "err", err)
		return
	}

	next := types.Point{
		Lat: clamp(cur.Lat+(rand.Float64()-0.5)*s.cfg.WanderNoiseDeg, s.cfg.BoundsMin.Lat, s.cfg.BoundsMax.Lat),
		Lng: clamp(cur.Lng+(rand.Float64()-0.5)*s.cfg.WanderNoiseDeg, s.cfg.BoundsMin.Lng, s.cfg.BoundsMax.Lng),
	}
	if err := s.sink.Update(ctx, d.ID, next); err != nil {
		s.log.Warn("sim: publish position", "driver_id", d.ID, "err", err)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
