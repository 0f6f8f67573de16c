package zone

import (
	"math"
	"testing"

	"googlemaps.github.io/maps"

	"shipcalc/internal/types"
)

func TestHaversineKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		a, b      types.Point
		wantKm    float64
		tolerance float64
	}{
		{"same point", types.Point{Lat: 19.076, Lng: 72.8777}, types.Point{Lat: 19.076, Lng: 72.8777}, 0, 0.001},
		{"Mumbai to Pune (~120km)", types.Point{Lat: 19.0760, Lng: 72.8777}, types.Point{Lat: 18.5204, Lng: 73.8567}, 120, 10},
		{"Mumbai to Delhi (~1150km)", types.Point{Lat: 19.0760, Lng: 72.8777}, types.Point{Lat: 28.6139, Lng: 77.2090}, 1150, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := haversineKm(tt.a, tt.b)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("haversineKm() = %f, want %f (±%f)", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestHaversineKm_Symmetry(t *testing.T) {
	a := types.Point{Lat: 12.97, Lng: 77.59}
	b := types.Point{Lat: 13.08, Lng: 80.27}
	if d1, d2 := haversineKm(a, b), haversineKm(b, a); math.Abs(d1-d2) > 0.0001 {
		t.Errorf("haversine is not symmetric: %f vs %f", d1, d2)
	}
}

func TestRegionFromResult(t *testing.T) {
	res := maps.GeocodingResult{
		AddressComponents: []maps.AddressComponent{
			{LongName: "Haveli", Types: []string{"administrative_area_level_3", "political"}},
			{LongName: "Pune", Types: []string{"locality", "political"}},
			{LongName: "Maharashtra", Types: []string{"administrative_area_level_1", "political"}},
			{LongName: "411001", Types: []string{"postal_code"}},
		},
	}
	res.Geometry.Location = maps.LatLng{Lat: 18.5204, Lng: 73.8567}

	r := regionFromResult("411001", res)
	if r.City != "Pune" || r.State != "Maharashtra" || !r.Located || r.Point.Lat != 18.5204 {
		t.Errorf("region = %+v", r)
	}

	res.AddressComponents = res.AddressComponents[:1]
	if r := regionFromResult("411001", res); r.City != "Haveli" || r.State != "" {
		t.Errorf("fallback city: %+v", r)
	}
}
