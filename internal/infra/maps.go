// README: Google Maps client used for pincode geocoding.
package infra

import (
	"fmt"

	"googlemaps.github.io/maps"
)

// NewMapsClient returns nil, nil when no key is configured; geocoding is then disabled.
func NewMapsClient(apiKey string) (*maps.Client, error) {
	if apiKey == "" {
		return nil, nil
	}
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("maps client: %w", err)
	}
	return client, nil
}
