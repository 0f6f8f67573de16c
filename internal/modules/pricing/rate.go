package pricing

import (
	"errors"
	"fmt"
	"math"

	"shipcalc/internal/modules/ratetable"
	"shipcalc/internal/types"
)

var (
	ErrInvalidDimension     = errors.New("invalid dimension")
	ErrInvalidWeight        = errors.New("invalid chargeable weight")
	ErrUnknownZone          = errors.New("unknown zone")
	ErrUnknownServiceType   = errors.New("unknown service type")
	ErrRateTableUnavailable = errors.New("rate table unavailable")
)

// CalculateShippingRate prices chargeableWeight for (zone, serviceType).
// Every named field is rounded to 2 decimals before it feeds the next one.
// table is assumed validated by ratetable.Parse and is never modified.
func CalculateShippingRate(chargeableWeight float64, zone, serviceType string, table *ratetable.RateTable) (RateCalculation, error) {
	if !positive(chargeableWeight) {
		return RateCalculation{}, fmt.Errorf("%w: %v", ErrInvalidWeight, chargeableWeight)
	}
	if table == nil {
		return RateCalculation{}, ErrRateTableUnavailable
	}
	rate, zoneOK, serviceOK := table.Lookup(zone, serviceType)
	if !zoneOK {
		return RateCalculation{}, fmt.Errorf("%w: %q", ErrUnknownZone, zone)
	}
	if !serviceOK {
		return RateCalculation{}, fmt.Errorf("%w: %q in zone %q", ErrUnknownServiceType, serviceType, zone)
	}

	// Below the minimum billable weight the minimum charge applies.
	base := types.Round2(math.Max(rate.MinimumCharge, chargeableWeight*rate.PerKgRate))
	fuel := types.Round2(base * table.FuelSurchargePercent)
	subtotal := types.Round2(base + fuel)
	gst := types.Round2(subtotal * table.TaxPercent)
	total := types.Round2(subtotal + gst)
	if !finite(total) {
		return RateCalculation{}, fmt.Errorf("%w: %v kg overflows the price", ErrInvalidWeight, chargeableWeight)
	}

	return RateCalculation{
		BaseAmount:    base,
		FuelSurcharge: fuel,
		Subtotal:      subtotal,
		GST:           gst,
		Total:         total,
		Zone:          zone,
		Service:       serviceType,
		DeliveryDays:  table.ServiceTypes[serviceType].DeliveryDays,
	}, nil
}
