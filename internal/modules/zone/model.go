// README: Zone resolution types (pincode regions and resolved zones).
package zone

import (
	"errors"

	"shipcalc/internal/types"
)

const (
	Local    = "local"
	Regional = "regional"
	National = "national"
)

// Where a Resolution came from.
const (
	SourceCache     = "cache"
	SourceDirectory = "directory"
	SourceGeocoder  = "geocoder"
)

var (
	ErrInvalidPincode = errors.New("invalid pincode")
	ErrUnknownPincode = errors.New("unknown pincode")
)

// Region is one row of the pincode directory.
type Region struct {
	Pincode string
	City    string
	State   string
	Point   types.Point
	Located bool
}

type Resolution struct {
	Zone   string `json:"zone"`
	Source string `json:"source"`
}
