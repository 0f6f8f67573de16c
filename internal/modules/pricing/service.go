// README: Pricing service binds the calculators to the live rate table snapshot.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"shipcalc/internal/modules/ratetable"
)

// TableProvider returns the current immutable rate table.
type TableProvider interface {
	Table(ctx context.Context) (*ratetable.RateTable, error)
}

type Service struct {
	tables TableProvider
}

func NewService(tables TableProvider) *Service {
	return &Service{tables: tables}
}

func (s *Service) Volumetric(dims Dimensions, actualWeight float64) (VolumetricCalcResult, error) {
	return CalculateVolumetricWeight(dims.Length, dims.Breadth, dims.Height, actualWeight)
}

// Rate prices one service type. Calling it again with a different service
// type for the same weight is the "switch service and recompute" path.
func (s *Service) Rate(ctx context.Context, chargeableWeight float64, zone, serviceType string) (Priced, error) {
	table, err := s.table(ctx)
	if err != nil {
		return Priced{}, err
	}
	calc, err := CalculateShippingRate(chargeableWeight, zone, serviceType, table)
	if err != nil {
		return Priced{}, err
	}
	return priced(calc, table), nil
}

// Options prices every visible service type offered in zone, cheapest first.
func (s *Service) Options(ctx context.Context, chargeableWeight float64, zone string) ([]Priced, error) {
	table, err := s.table(ctx)
	if err != nil {
		return nil, err
	}
	if !positive(chargeableWeight) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWeight, chargeableWeight)
	}
	if _, ok := table.Zones[zone]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownZone, zone)
	}

	out := make([]Priced, 0, len(table.Zones[zone]))
	for _, svc := range table.ServicesIn(zone) {
		if table.ServiceTypes[svc].Hidden {
			continue
		}
		calc, err := CalculateShippingRate(chargeableWeight, zone, svc, table)
		if err != nil {
			return nil, err
		}
		out = append(out, priced(calc, table))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total < out[j].Total
		}
		return out[i].Service < out[j].Service
	})
	return out, nil
}

func (s *Service) table(ctx context.Context) (*ratetable.RateTable, error) {
	if s.tables == nil {
		return nil, ErrRateTableUnavailable
	}
	t, err := s.tables.Table(ctx)
	if errors.Is(err, ratetable.ErrNoTable) {
		return nil, ErrRateTableUnavailable
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func priced(calc RateCalculation, t *ratetable.RateTable) Priced {
	return Priced{RateCalculation: calc, Currency: t.Currency, RateTableVersion: t.Version}
}
