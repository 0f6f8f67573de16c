// README: Pincode directory backed by PostgreSQL and a zone cache backed by Redis.
package zone

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const zoneKeyPrefix = "zone:%s:%s"

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Region(ctx context.Context, pincode string) (Region, bool, error) {
	var r Region
	var lat, lng *float64
	err := s.db.QueryRow(ctx, `
        SELECT pincode, city, state, lat, lng
        FROM pincode_regions
        WHERE pincode = $1`, pincode,
	).Scan(&r.Pincode, &r.City, &r.State, &lat, &lng)
	if errors.Is(err, pgx.ErrNoRows) {
		return Region{}, false, nil
	}
	if err != nil {
		return Region{}, false, err
	}
	if lat != nil && lng != nil {
		r.Point.Lat, r.Point.Lng = *lat, *lng
		r.Located = true
	}
	return r, true, nil
}

// Save upserts a region, keeping existing coordinates when r has none.
func (s *Store) Save(ctx context.Context, r Region) error {
	var lat, lng *float64
	if r.Located {
		lat, lng = &r.Point.Lat, &r.Point.Lng
	}
	_, err := s.db.Exec(ctx, `
        INSERT INTO pincode_regions (pincode, city, state, lat, lng)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (pincode) DO UPDATE
        SET city = EXCLUDED.city,
            state = EXCLUDED.state,
            lat = COALESCE(EXCLUDED.lat, pincode_regions.lat),
            lng = COALESCE(EXCLUDED.lng, pincode_regions.lng)`,
		r.Pincode, r.City, r.State, lat, lng,
	)
	return err
}

type RedisCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisCache(redis *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{redis: redis, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, origin, destination string) (string, bool, error) {
	val, err := c.redis.Get(ctx, cacheKey(origin, destination)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, origin, destination, zone string) error {
	return c.redis.Set(ctx, cacheKey(origin, destination), zone, c.ttl).Err()
}

// Zones are symmetric, so both directions share one key.
func cacheKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf(zoneKeyPrefix, a, b)
}
