// README: Rate table decoding and one-time schema validation.
package ratetable

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"shipcalc/internal/types"
)

var ErrInvalidTable = errors.New("invalid rate table")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Parse decodes a rate table document and validates it. The returned table
// is safe to share between goroutines as long as nobody mutates it.
func Parse(data []byte) (*RateTable, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var t RateTable
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidTable, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after the rate table object", ErrInvalidTable)
	}
	if t.Currency == "" {
		t.Currency = types.DefaultCurrency
	}
	if err := Validate(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks field constraints and that every zone only references
// declared service types.
func Validate(t *RateTable) error {
	if t == nil {
		return fmt.Errorf("%w: nil table", ErrInvalidTable)
	}
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	if !finite(t.FuelSurchargePercent) || !finite(t.TaxPercent) {
		return fmt.Errorf("%w: percentages must be finite", ErrInvalidTable)
	}

	var problems []string
	for key := range t.ServiceTypes {
		if strings.TrimSpace(key) == "" {
			problems = append(problems, "empty service type key")
		}
	}
	for _, zone := range t.ZoneKeys() {
		if strings.TrimSpace(zone) == "" {
			problems = append(problems, "empty zone key")
			continue
		}
		for _, svc := range t.ServicesIn(zone) {
			if _, ok := t.ServiceTypes[svc]; !ok {
				problems = append(problems, fmt.Sprintf("zone %q references undeclared service %q", zone, svc))
				continue
			}
			rate := t.Zones[zone][svc]
			if err := validate.Struct(rate); err != nil {
				problems = append(problems, fmt.Sprintf("zone %q service %q: %v", zone, svc, err))
				continue
			}
			if !finite(rate.PerKgRate) || !finite(rate.MinimumCharge) {
				problems = append(problems, fmt.Sprintf("zone %q service %q: non-finite rate", zone, svc))
			}
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("%w: %s", ErrInvalidTable, strings.Join(problems, "; "))
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
