// README: Quote document built from a calculation and kept for export and re-quoting.
package quote

import (
	"time"

	"shipcalc/internal/modules/pricing"
	"shipcalc/internal/types"
)

// ValidityPeriod is how long a generated quote is honoured.
const ValidityPeriod = 30 * 24 * time.Hour

type Quote struct {
	ID                 types.ID                `json:"id"`
	ParentID           *types.ID               `json:"parentId,omitempty"`
	Dimensions         pricing.Dimensions      `json:"dimensions"`
	VolumetricWeight   float64                 `json:"volumetricWeight"`
	ActualWeight       float64                 `json:"actualWeight"`
	ChargeableWeight   float64                 `json:"chargeableWeight"`
	ServiceType        string                  `json:"serviceType"`
	Zone               string                  `json:"zone"`
	DeliveryDays       string                  `json:"deliveryDays"`
	Breakdown          pricing.RateCalculation `json:"breakdown"`
	Currency           string                  `json:"currency"`
	RateTableVersion   string                  `json:"rateTableVersion,omitempty"`
	OriginPincode      string                  `json:"originPincode,omitempty"`
	DestinationPincode string                  `json:"destinationPincode,omitempty"`
	GeneratedAt        time.Time               `json:"generatedAt"`
	ValidUntil         time.Time               `json:"validUntil"`
}

// Expired reports whether the quote is past its validity at t.
func (q *Quote) Expired(t time.Time) bool {
	return t.After(q.ValidUntil)
}

type CreateCommand struct {
	Dimensions         pricing.Dimensions
	ActualWeight       float64
	ServiceType        string
	Zone               string
	OriginPincode      string
	DestinationPincode string
}

type RequoteCommand struct {
	QuoteID     types.ID
	ServiceType string
}
