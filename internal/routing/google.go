package routing

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"washride/internal/types"
)

// GoogleClient resolves routes through the Google Maps Directions API.
type GoogleClient struct {
	client *maps.Client
}

func NewGoogleClient(apiKey string) (*GoogleClient, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleClient{client: client}, nil
}

func (g *GoogleClient) GetRoute(ctx context.Context, start, end types.Point) (Route, error) {
	r := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%.6f,%.6f", start.Lat, start.Lng),
		Destination: fmt.Sprintf("%.6f,%.6f", end.Lat, end.Lng),
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := g.client.Directions(ctx, r)
	if err != nil {
		return Route{}, fmt.Errorf("%w: maps api: %v", ErrRouteUnavailable, err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return Route{}, fmt.Errorf("%w: no route found", ErrRouteUnavailable)
	}

	decoded, err := routes[0].OverviewPolyline.Decode()
	if err != nil {
		return Route{}, fmt.Errorf("%w: polyline: %v", ErrRouteUnavailable, err)
	}
	waypoints := make([]types.Point, 0, len(decoded))
	for _, ll := range decoded {
		waypoints = append(waypoints, types.Point{Lat: ll.Lat, Lng: ll.Lng})
	}
	if len(waypoints) == 0 {
		return Route{}, fmt.Errorf("%w: empty polyline", ErrRouteUnavailable)
	}

	var duration float64
	for _, leg := range routes[0].Legs {
		duration += leg.Duration.Seconds()
	}
	return Route{Waypoints: waypoints, DurationSeconds: duration}, nil
}
