package zone

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"shipcalc/internal/types"
)

// MapsGeocoder looks pincodes up with the Google Geocoding API.
type MapsGeocoder struct {
	client  *maps.Client
	country string
}

func NewMapsGeocoder(client *maps.Client, country string) *MapsGeocoder {
	if country == "" {
		country = "IN"
	}
	return &MapsGeocoder{client: client, country: country}
}

func (g *MapsGeocoder) Geocode(ctx context.Context, pincode string) (Region, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Components: map[maps.Component]string{
			maps.ComponentPostalCode: pincode,
			maps.ComponentCountry:    g.country,
		},
		Region: g.country,
	})
	if err != nil {
		return Region{}, fmt.Errorf("maps api error: %w", err)
	}
	if len(results) == 0 {
		return Region{}, fmt.Errorf("%w: %s", ErrUnknownPincode, pincode)
	}
	return regionFromResult(pincode, results[0]), nil
}

func regionFromResult(pincode string, res maps.GeocodingResult) Region {
	r := Region{
		Pincode: pincode,
		Point:   types.Point{Lat: res.Geometry.Location.Lat, Lng: res.Geometry.Location.Lng},
		Located: true,
	}
	for _, c := range res.AddressComponents {
		for _, t := range c.Types {
			switch t {
			case "locality":
				r.City = c.LongName
			case "administrative_area_level_3":
				if r.City == "" {
					r.City = c.LongName
				}
			case "administrative_area_level_1":
				r.State = c.LongName
			}
		}
	}
	return r
}
