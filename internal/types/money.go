// README: Common money helpers used across modules.
package types

import "math"

// DefaultCurrency is used when a rate table does not name one.
const DefaultCurrency = "INR"

// Round2 rounds v to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
