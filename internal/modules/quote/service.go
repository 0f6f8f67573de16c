// README: Quote service computes, stores and re-prices shipping quotes.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"shipcalc/internal/modules/pricing"
	"shipcalc/internal/modules/zone"
	"shipcalc/internal/types"
)

var (
	ErrQuoteNotFound   = errors.New("quote not found")
	ErrBadRequest      = errors.New("bad request")
	ErrZoneUnavailable = errors.New("zone resolution unavailable")
)

type Repository interface {
	Create(ctx context.Context, q *Quote) error
	Get(ctx context.Context, id types.ID) (*Quote, error)
}

type Pricer interface {
	Volumetric(dims pricing.Dimensions, actualWeight float64) (pricing.VolumetricCalcResult, error)
	Rate(ctx context.Context, chargeableWeight float64, zone, serviceType string) (pricing.Priced, error)
}

type ZoneResolver interface {
	Resolve(ctx context.Context, origin, destination string) (zone.Resolution, error)
}

type Service struct {
	store   Repository
	pricing Pricer
	zones   ZoneResolver
	now     func() time.Time
}

// NewService accepts a nil zones resolver; quotes must then name a zone.
func NewService(store Repository, pricing Pricer, zones ZoneResolver) *Service {
	return &Service{store: store, pricing: pricing, zones: zones, now: time.Now}
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Quote, error) {
	if strings.TrimSpace(cmd.ServiceType) == "" {
		return nil, fmt.Errorf("%w: serviceType is required", ErrBadRequest)
	}
	weights, err := s.pricing.Volumetric(cmd.Dimensions, cmd.ActualWeight)
	if err != nil {
		return nil, err
	}
	if weights.ChargeableWeight <= 0 {
		return nil, fmt.Errorf("%w: chargeable weight rounds to 0 kg; the smallest billable weight is 0.01 kg", pricing.ErrInvalidWeight)
	}
	cmd.OriginPincode = strings.TrimSpace(cmd.OriginPincode)
	cmd.DestinationPincode = strings.TrimSpace(cmd.DestinationPincode)
	for _, p := range []string{cmd.OriginPincode, cmd.DestinationPincode} {
		if p == "" {
			continue
		}
		if err := zone.ValidatePincode(p); err != nil {
			return nil, err
		}
	}
	zoneKey, err := s.zoneFor(ctx, cmd)
	if err != nil {
		return nil, err
	}
	rate, err := s.pricing.Rate(ctx, weights.ChargeableWeight, zoneKey, cmd.ServiceType)
	if err != nil {
		return nil, err
	}

	q := s.build(cmd.Dimensions, weights, rate)
	q.OriginPincode = cmd.OriginPincode
	q.DestinationPincode = cmd.DestinationPincode
	if err := s.store.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Expired reports whether q is past its validity on the service clock.
func (s *Service) Expired(q *Quote) bool {
	return q.Expired(s.now())
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Quote, error) {
	if _, err := uuid.Parse(string(id)); err != nil {
		return nil, ErrQuoteNotFound
	}
	return s.store.Get(ctx, id)
}

// Requote prices a stored quote's chargeable weight and zone under another
// service type. Weight is not re-derived from dimensions.
func (s *Service) Requote(ctx context.Context, cmd RequoteCommand) (*Quote, error) {
	if strings.TrimSpace(cmd.ServiceType) == "" {
		return nil, fmt.Errorf("%w: serviceType is required", ErrBadRequest)
	}
	prev, err := s.Get(ctx, cmd.QuoteID)
	if err != nil {
		return nil, err
	}
	rate, err := s.pricing.Rate(ctx, prev.ChargeableWeight, prev.Zone, cmd.ServiceType)
	if err != nil {
		return nil, err
	}

	q := s.build(prev.Dimensions, pricing.VolumetricCalcResult{
		VolumetricWeight: prev.VolumetricWeight,
		ActualWeight:     prev.ActualWeight,
		ChargeableWeight: prev.ChargeableWeight,
	}, rate)
	parent := prev.ID
	q.ParentID = &parent
	q.OriginPincode = prev.OriginPincode
	q.DestinationPincode = prev.DestinationPincode
	if err := s.store.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Export renders the downloadable quote document and its file name.
func Export(q *Quote) (string, []byte, error) {
	b, err := json.MarshalIndent(q, "", "  ")
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("shipping-quote-%s.json", q.ID), b, nil
}

func (s *Service) zoneFor(ctx context.Context, cmd CreateCommand) (string, error) {
	if z := strings.TrimSpace(cmd.Zone); z != "" {
		return z, nil
	}
	if cmd.OriginPincode == "" || cmd.DestinationPincode == "" {
		return "", fmt.Errorf("%w: zone or origin and destination pincodes are required", ErrBadRequest)
	}
	if s.zones == nil {
		return "", ErrZoneUnavailable
	}
	res, err := s.zones.Resolve(ctx, cmd.OriginPincode, cmd.DestinationPincode)
	if err != nil {
		return "", err
	}
	return res.Zone, nil
}

func (s *Service) build(dims pricing.Dimensions, w pricing.VolumetricCalcResult, rate pricing.Priced) *Quote {
	now := s.now().UTC().Truncate(time.Millisecond)
	return &Quote{
		ID:               newID(),
		Dimensions:       dims,
		VolumetricWeight: w.VolumetricWeight,
		ActualWeight:     w.ActualWeight,
		ChargeableWeight: w.ChargeableWeight,
		ServiceType:      rate.Service,
		Zone:             rate.Zone,
		DeliveryDays:     rate.DeliveryDays,
		Breakdown:        rate.RateCalculation,
		Currency:         rate.Currency,
		RateTableVersion: rate.RateTableVersion,
		GeneratedAt:      now,
		ValidUntil:       now.Add(ValidityPeriod),
	}
}

func newID() types.ID {
	return types.ID(uuid.NewString())
}
