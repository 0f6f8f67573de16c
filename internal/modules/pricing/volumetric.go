package pricing

import (
	"fmt"
	"math"

	"shipcalc/internal/types"
)

// VolumetricDivisor converts cm³ to kg. Fixed by business convention.
const VolumetricDivisor = 5000.0

// CalculateVolumetricWeight derives volumetric and chargeable weight.
// Only the volumetric weight is rounded before comparing with actualWeight.
func CalculateVolumetricWeight(length, breadth, height, actualWeight float64) (VolumetricCalcResult, error) {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"length", length},
		{"breadth", breadth},
		{"height", height},
		{"actualWeight", actualWeight},
	} {
		if !positive(f.v) {
			return VolumetricCalcResult{}, fmt.Errorf("%w: %s must be a positive number, got %v", ErrInvalidDimension, f.name, f.v)
		}
	}

	volumetric := types.Round2(length * breadth * height / VolumetricDivisor)
	chargeable := types.Round2(math.Max(actualWeight, volumetric))
	if !finite(volumetric) || !finite(chargeable) {
		return VolumetricCalcResult{}, fmt.Errorf("%w: %v x %v x %v cm with %v kg is out of range", ErrInvalidDimension, length, breadth, height, actualWeight)
	}
	return VolumetricCalcResult{
		VolumetricWeight: volumetric,
		ActualWeight:     actualWeight,
		ChargeableWeight: chargeable,
	}, nil
}

func positive(v float64) bool {
	return v > 0 && finite(v)
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
