package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"washride/internal/types"
)

// OSRMClient performs route lookups against an OSRM HTTP server.
type OSRMClient struct {
	Endpoint string
	Client   *http.Client
}

func NewOSRMClient(endpoint string) *OSRMClient {
	return &OSRMClient{Endpoint: endpoint, Client: &http.Client{Timeout: 2 * time.Second}}
}

// GetRoute queries OSRM /route between points and returns the full geometry
// so callers can step along it.
func (o *OSRMClient) GetRoute(ctx context.Context, start, end types.Point) (Route, error) {
	// OSRM route query: /route/v1/driving/{lon1},{lat1};{lon2},{lat2}
	url := fmt.Sprintf("%s/route/v1/driving/%.6f,%.6f;%.6f,%.6f?overview=full&geometries=geojson",
		o.Endpoint, start.Lng, start.Lat, end.Lng, end.Lat)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Route{}, err
	}
	resp, err := o.Client.Do(req)
	if err != nil {
		return Route{}, fmt.Errorf("%w: %v", ErrRouteUnavailable, err)
	}
	defer resp.Body.Close()

	var out struct {
		Routes []struct {
			Duration float64 `json:"duration"`
			Geometry struct {
				Coordinates [][]float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"routes"`
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Route{}, fmt.Errorf("%w: decode: %v", ErrRouteUnavailable, err)
	}
	if out.Code != "Ok" || len(out.Routes) == 0 {
		return Route{}, fmt.Errorf("%w: osrm code %q", ErrRouteUnavailable, out.Code)
	}

	r := out.Routes[0]
	waypoints := make([]types.Point, 0, len(r.Geometry.Coordinates))
	for _, c := range r.Geometry.Coordinates {
		if len(c) < 2 {
			continue
		}
		// GeoJSON order is lng,lat.
		waypoints = append(waypoints, types.Point{Lat: c[1], Lng: c[0]})
	}
	if len(waypoints) == 0 {
		return Route{}, fmt.Errorf("%w: empty geometry", ErrRouteUnavailable)
	}
	return Route{Waypoints: waypoints, DurationSeconds: r.Duration}, nil
}
