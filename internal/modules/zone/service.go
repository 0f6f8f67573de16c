// README: Zone service resolves an origin/destination pincode pair to a pricing zone.
package zone

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

type Directory interface {
	Region(ctx context.Context, pincode string) (Region, bool, error)
	Save(ctx context.Context, r Region) error
}

type Cache interface {
	Get(ctx context.Context, origin, destination string) (string, bool, error)
	Set(ctx context.Context, origin, destination, zone string) error
}

type Geocoder interface {
	Geocode(ctx context.Context, pincode string) (Region, error)
}

// Config holds the distance thresholds used when only coordinates are known.
type Config struct {
	LocalRadiusKm    float64
	RegionalRadiusKm float64
}

type Service struct {
	directory Directory
	cache     Cache
	geocoder  Geocoder
	cfg       Config
	logger    *slog.Logger
}

// NewService accepts nil cache and geocoder; the directory is required.
func NewService(directory Directory, cache Cache, geocoder Geocoder, cfg Config, logger *slog.Logger) *Service {
	if cfg.LocalRadiusKm <= 0 {
		cfg.LocalRadiusKm = 50
	}
	if cfg.RegionalRadiusKm <= 0 {
		cfg.RegionalRadiusKm = 500
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{directory: directory, cache: cache, geocoder: geocoder, cfg: cfg, logger: logger}
}

func (s *Service) Resolve(ctx context.Context, origin, destination string) (Resolution, error) {
	origin, destination = strings.TrimSpace(origin), strings.TrimSpace(destination)
	if err := ValidatePincode(origin); err != nil {
		return Resolution{}, err
	}
	if err := ValidatePincode(destination); err != nil {
		return Resolution{}, err
	}
	if origin == destination {
		return Resolution{Zone: Local, Source: SourceDirectory}, nil
	}

	if s.cache != nil {
		z, ok, err := s.cache.Get(ctx, origin, destination)
		if err != nil {
			s.logger.Warn("zone cache read failed", "origin", origin, "destination", destination, "err", err)
		} else if ok {
			return Resolution{Zone: z, Source: SourceCache}, nil
		}
	}

	a, geoA, err := s.region(ctx, origin)
	if err != nil {
		return Resolution{}, err
	}
	b, geoB, err := s.region(ctx, destination)
	if err != nil {
		return Resolution{}, err
	}
	z, err := s.classify(a, b)
	if err != nil {
		return Resolution{}, err
	}

	res := Resolution{Zone: z, Source: SourceDirectory}
	if geoA || geoB {
		res.Source = SourceGeocoder
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, origin, destination, z); err != nil {
			s.logger.Warn("zone cache write failed", "origin", origin, "destination", destination, "err", err)
		}
	}
	return res, nil
}

// region looks pincode up in the directory, falling back to the geocoder.
// The bool reports whether the geocoder was used.
func (s *Service) region(ctx context.Context, pincode string) (Region, bool, error) {
	r, ok, err := s.directory.Region(ctx, pincode)
	if err != nil {
		return Region{}, false, fmt.Errorf("pincode directory: %w", err)
	}
	if ok {
		return r, false, nil
	}
	if s.geocoder == nil {
		return Region{}, false, fmt.Errorf("%w: %s", ErrUnknownPincode, pincode)
	}
	r, err = s.geocoder.Geocode(ctx, pincode)
	if err != nil {
		return Region{}, false, err
	}
	if err := s.directory.Save(ctx, r); err != nil {
		s.logger.Warn("saving geocoded pincode failed", "pincode", pincode, "err", err)
	}
	return r, true, nil
}

// classify prefers administrative areas and falls back to distance.
func (s *Service) classify(a, b Region) (string, error) {
	if a.City != "" && a.State != "" && b.City != "" && b.State != "" {
		switch {
		case strings.EqualFold(a.State, b.State) && strings.EqualFold(a.City, b.City):
			return Local, nil
		case strings.EqualFold(a.State, b.State):
			return Regional, nil
		default:
			return National, nil
		}
	}
	if a.Located && b.Located {
		d := haversineKm(a.Point, b.Point)
		switch {
		case d <= s.cfg.LocalRadiusKm:
			return Local, nil
		case d <= s.cfg.RegionalRadiusKm:
			return Regional, nil
		default:
			return National, nil
		}
	}
	return "", fmt.Errorf("%w: cannot place %s and %s", ErrUnknownPincode, a.Pincode, b.Pincode)
}

// ValidatePincode accepts six digits not starting with zero.
func ValidatePincode(p string) error {
	if len(p) != 6 || p[0] == '0' {
		return fmt.Errorf("%w: %q", ErrInvalidPincode, p)
	}
	for _, c := range p {
		if c < '0' || c > '9' {
			return fmt.Errorf("%w: %q", ErrInvalidPincode, p)
		}
	}
	return nil
}
