// README: Driver record and geo helpers for assignment.
package driver

import (
	"math"
	"time"

	"washride/internal/types"
)

type Driver struct {
	ID           types.ID `json:"id"`
	UserID       types.ID `json:"user_id,omitempty"`
	Name         string   `json:"name"`
	Phone        string   `json:"phone,omitempty"`
	Approved     bool     `json:"approved"`
	Availability bool     `json:"availability"`
	// Home is where the driver idles between jobs; live position is owned
	// by the location module.
	Home      types.Point `json:"home"`
	CreatedAt time.Time   `json:"created_at"`
}

const earthRadiusKm = 6371.0

// haversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func haversineKm(a, b types.Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
