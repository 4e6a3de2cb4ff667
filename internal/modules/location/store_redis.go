// README: Redis-backed live position index using the GEO commands.
package location

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"washride/internal/types"
)

var ErrNoPosition = errors.New("no position for driver")

const geoKey = "washride:driver_positions"

// GeoStore is the live position index.
type GeoStore interface {
	Set(ctx context.Context, driverID types.ID, p types.Point) error
	Get(ctx context.Context, driverID types.ID) (types.Point, error)
	Nearby(ctx context.Context, center types.Point, radiusKm float64, limit int) ([]types.ID, error)
	Remove(ctx context.Context, driverID types.ID) error
}

type RedisGeoStore struct {
	rdb *redis.Client
}

func NewRedisGeoStore(rdb *redis.Client) *RedisGeoStore {
	return &RedisGeoStore{rdb: rdb}
}

func (s *RedisGeoStore) Set(ctx context.Context, driverID types.ID, p types.Point) error {
	return s.rdb.GeoAdd(ctx, geoKey, &redis.GeoLocation{
		Name:      string(driverID),
		Longitude: p.Lng,
		Latitude:  p.Lat,
	}).Err()
}

func (s *RedisGeoStore) Get(ctx context.Context, driverID types.ID) (types.Point, error) {
	pos, err := s.rdb.GeoPos(ctx, geoKey, string(driverID)).Result()
	if err != nil {
		return types.Point{}, err
	}
	if len(pos) == 0 || pos[0] == nil {
		return types.Point{}, ErrNoPosition
	}
	return types.Point{Lat: pos[0].Latitude, Lng: pos[0].Longitude}, nil
}

func (s *RedisGeoStore) Nearby(ctx context.Context, center types.Point, radiusKm float64, limit int) ([]types.ID, error) {
	locs, err := s.rdb.GeoSearchLocation(ctx, geoKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  center.Lng,
			Latitude:   center.Lat,
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
			Count:      limit,
		},
	}).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]types.ID, 0, len(locs))
	for _, l := range locs {
		ids = append(ids, types.ID(l.Name))
	}
	return ids, nil
}

func (s *RedisGeoStore) Remove(ctx context.Context, driverID types.ID) error {
	return s.rdb.ZRem(ctx, geoKey, string(driverID)).Err()
}
