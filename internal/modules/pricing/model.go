// README: Calculator inputs and outputs for chargeable weight and rate breakdowns.
package pricing

// Dimensions are in centimetres.
type Dimensions struct {
	Length  float64 `json:"length"`
	Breadth float64 `json:"breadth"`
	Height  float64 `json:"height"`
}

type VolumetricCalcResult struct {
	VolumetricWeight float64 `json:"volumetricWeight"`
	ActualWeight     float64 `json:"actualWeight"`
	ChargeableWeight float64 `json:"chargeableWeight"`
}

// RateCalculation is an itemized price. Invariants:
// Subtotal == BaseAmount+FuelSurcharge and Total == Subtotal+GST.
type RateCalculation struct {
	BaseAmount    float64 `json:"baseAmount"`
	FuelSurcharge float64 `json:"fuelSurcharge"`
	Subtotal      float64 `json:"subtotal"`
	GST           float64 `json:"gst"`
	Total         float64 `json:"total"`
	Zone          string  `json:"zone"`
	Service       string  `json:"service"`
	DeliveryDays  string  `json:"deliveryDays"`
}

// Priced is a RateCalculation tagged with the table it came from.
type Priced struct {
	RateCalculation
	Currency         string `json:"currency"`
	RateTableVersion string `json:"rateTableVersion,omitempty"`
}
