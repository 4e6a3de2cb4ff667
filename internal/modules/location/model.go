// README:
// Live driver positions. The hot path is Redis GEO so nearby queries
// stay cheap; Postgres keeps an append-only snapshot trail for replay
// and dispute handling.
package location

import (
	"math"
	"time"

	"washride/internal/types"
)

type Position struct {
	DriverID types.ID    `json:"driver_id"`
	Point    types.Point `json:"point"`
	At       time.Time   `json:"at"`

	// Set on simulator-tracked updates only: the booking being served
	// and the remaining route time toward the current leg target.
	BookingID  types.ID `json:"booking_id,omitempty"`
	EtaSeconds float64  `json:"eta_seconds,omitempty"`
}

const earthRadiusKm = 6371

func haversineKm(a, b types.Point) float64 {
	la1 := a.Lat * math.Pi / 180
	la2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(la1)*math.Cos(la2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
