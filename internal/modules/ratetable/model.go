// README: Rate table schema (zones x service types, fuel and tax percentages).
package ratetable

import "sort"

// ServiceType is the metadata shared by every zone offering the service.
type ServiceType struct {
	Label        string `json:"label,omitempty"`
	DeliveryDays string `json:"deliveryDays" validate:"required"`
	// Hidden services are priced when asked for by key but not listed as options.
	Hidden bool `json:"hidden,omitempty"`
}

// ServiceRate is the billing rule for one (zone, service type) pair.
type ServiceRate struct {
	PerKgRate     float64 `json:"perKgRate" validate:"gt=0"`
	MinimumCharge float64 `json:"minimumCharge" validate:"gte=0"`
}

// ZoneRates maps service key to its rate inside a zone.
type ZoneRates map[string]ServiceRate

// RateTable is treated as immutable once returned by Parse.
type RateTable struct {
	Version              string                 `json:"version,omitempty"`
	Currency             string                 `json:"currency,omitempty"`
	ServiceTypes         map[string]ServiceType `json:"serviceTypes" validate:"required,min=1,dive"`
	Zones                map[string]ZoneRates   `json:"zones" validate:"required,min=1,dive,required,min=1"`
	FuelSurchargePercent float64                `json:"fuelSurchargePercent" validate:"gte=0"`
	TaxPercent           float64                `json:"taxPercent" validate:"gte=0"`
}

// Lookup returns the rate for (zone, service) and reports which key was missing.
func (t *RateTable) Lookup(zone, service string) (rate ServiceRate, zoneOK, serviceOK bool) {
	rates, ok := t.Zones[zone]
	if !ok {
		return ServiceRate{}, false, false
	}
	rate, ok = rates[service]
	return rate, true, ok
}

// ZoneKeys returns zone identifiers in sorted order.
func (t *RateTable) ZoneKeys() []string {
	keys := make([]string, 0, len(t.Zones))
	for k := range t.Zones {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ServicesIn returns the service keys offered in zone, sorted.
func (t *RateTable) ServicesIn(zone string) []string {
	rates := t.Zones[zone]
	keys := make([]string, 0, len(rates))
	for k := range rates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
