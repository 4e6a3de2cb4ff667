// README: Common identifier and geographic value types used across modules.
package types

// ID is an opaque entity identifier (uuid in practice).
type ID string

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
