// README: Zone resolution tests with in-memory directory, cache and geocoder.
package zone

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"shipcalc/internal/types"
)

type memDirectory struct {
	regions map[string]Region
	saved   []Region
}

func (m *memDirectory) Region(_ context.Context, pincode string) (Region, bool, error) {
	r, ok := m.regions[pincode]
	return r, ok, nil
}

func (m *memDirectory) Save(_ context.Context, r Region) error {
	m.saved = append(m.saved, r)
	return nil
}

type memCache struct {
	zones map[string]string
	gets  int
	err   error
}

func (m *memCache) Get(_ context.Context, o, d string) (string, bool, error) {
	m.gets++
	if m.err != nil {
		return "", false, m.err
	}
	z, ok := m.zones[cacheKey(o, d)]
	return z, ok, nil
}

func (m *memCache) Set(_ context.Context, o, d, z string) error {
	if m.err != nil {
		return m.err
	}
	m.zones[cacheKey(o, d)] = z
	return nil
}

type stubGeocoder struct {
	regions map[string]Region
	calls   int
}

func (g *stubGeocoder) Geocode(_ context.Context, pincode string) (Region, error) {
	g.calls++
	r, ok := g.regions[pincode]
	if !ok {
		return Region{}, ErrUnknownPincode
	}
	return r, nil
}

func directory() *memDirectory {
	return &memDirectory{regions: map[string]Region{
		"400001": {Pincode: "400001", City: "Mumbai", State: "Maharashtra"},
		"400050": {Pincode: "400050", City: "Mumbai", State: "Maharashtra"},
		"411001": {Pincode: "411001", City: "Pune", State: "Maharashtra"},
		"110001": {Pincode: "110001", City: "New Delhi", State: "Delhi"},
	}}
}

func TestResolve_Directory(t *testing.T) {
	svc := NewService(directory(), nil, nil, Config{}, nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		from, to string
		want     string
	}{
		{"same pincode", "400001", "400001", Local},
		{"same city", "400001", "400050", Local},
		{"same state", "400001", "411001", Regional},
		{"different state", "411001", "110001", National},
		{"whitespace trimmed", " 400001 ", "411001", Regional},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Resolve(ctx, tt.from, tt.to)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got.Zone != tt.want {
				t.Errorf("zone = %s, want %s", got.Zone, tt.want)
			}
		})
	}
}

func TestResolve_InvalidPincode(t *testing.T) {
	svc := NewService(directory(), nil, nil, Config{}, nil)
	for _, p := range []string{"", "12345", "1234567", "012345", "40000a"} {
		if _, err := svc.Resolve(context.Background(), p, "400001"); !errors.Is(err, ErrInvalidPincode) {
			t.Errorf("pincode %q: expected ErrInvalidPincode, got %v", p, err)
		}
	}
}

func TestResolve_UnknownWithoutGeocoder(t *testing.T) {
	svc := NewService(directory(), nil, nil, Config{}, nil)
	_, err := svc.Resolve(context.Background(), "400001", "560001")
	if !errors.Is(err, ErrUnknownPincode) {
		t.Fatalf("expected ErrUnknownPincode, got %v", err)
	}
}

func TestResolve_GeocoderDistance(t *testing.T) {
	dir := &memDirectory{regions: map[string]Region{}}
	geo := &stubGeocoder{regions: map[string]Region{
		"400001": {Pincode: "400001", Point: types.Point{Lat: 19.0760, Lng: 72.8777}, Located: true},
		"400601": {Pincode: "400601", Point: types.Point{Lat: 19.2183, Lng: 72.9781}, Located: true},
		"411001": {Pincode: "411001", Point: types.Point{Lat: 18.5204, Lng: 73.8567}, Located: true},
		"110001": {Pincode: "110001", Point: types.Point{Lat: 28.6139, Lng: 77.2090}, Located: true},
	}}
	svc := NewService(dir, nil, geo, Config{LocalRadiusKm: 50, RegionalRadiusKm: 500}, nil)
	ctx := context.Background()

	cases := map[string]struct {
		from, to string
		want     string
	}{
		"mumbai-thane": {"400001", "400601", Local},
		"mumbai-pune":  {"400001", "411001", Regional},
		"mumbai-delhi": {"400001", "110001", National},
	}
	for name, tc := range cases {
		got, err := svc.Resolve(ctx, tc.from, tc.to)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got.Zone != tc.want || got.Source != SourceGeocoder {
			t.Errorf("%s: got %+v, want zone %s from geocoder", name, got, tc.want)
		}
	}
	if len(dir.saved) == 0 {
		t.Error("geocoded regions were not saved to the directory")
	}
}

func TestResolve_CacheShortCircuits(t *testing.T) {
	cache := &memCache{zones: map[string]string{}}
	geo := &stubGeocoder{regions: map[string]Region{}}
	svc := NewService(directory(), cache, geo, Config{}, nil)
	ctx := context.Background()

	first, err := svc.Resolve(ctx, "400001", "110001")
	if err != nil {
		t.Fatal(err)
	}
	if first.Source != SourceDirectory {
		t.Errorf("first source = %s", first.Source)
	}

	// Reverse direction hits the same cache entry.
	second, err := svc.Resolve(ctx, "110001", "400001")
	if err != nil {
		t.Fatal(err)
	}
	if second.Source != SourceCache || second.Zone != National {
		t.Errorf("second = %+v, want national from cache", second)
	}
}

func TestResolve_CacheErrorsIgnored(t *testing.T) {
	cache := &memCache{zones: map[string]string{}, err: errors.New("connection refused")}
	svc := NewService(directory(), cache, nil, Config{}, nil)
	got, err := svc.Resolve(context.Background(), "400001", "411001")
	if err != nil {
		t.Fatalf("cache failure should not fail resolution: %v", err)
	}
	if got.Zone != Regional {
		t.Errorf("zone = %s", got.Zone)
	}
}

func TestCacheKeySymmetric(t *testing.T) {
	if cacheKey("400001", "110001") != cacheKey("110001", "400001") {
		t.Fatal("cache key depends on direction")
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("SHIPCALC_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SHIPCALC_TEST_REDIS_ADDR not set; skipping integration test")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	cache := NewRedisCache(rdb, time.Minute)
	ctx := context.Background()
	origin := "560001"
	dest := "600001"
	t.Cleanup(func() { rdb.Del(ctx, cacheKey(origin, dest)) })

	if _, ok, err := cache.Get(ctx, origin, dest); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := cache.Set(ctx, origin, dest, National); err != nil {
		t.Fatalf("Set: %v", err)
	}
	z, ok, err := cache.Get(ctx, dest, origin)
	if err != nil || !ok || z != National {
		t.Fatalf("Get = %q %v %v", z, ok, err)
	}
}
