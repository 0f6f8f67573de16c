// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shipcalc/internal/modules/pricing"
	"shipcalc/internal/modules/quote"
	"shipcalc/internal/modules/ratetable"
	"shipcalc/internal/modules/zone"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// bindJSON decodes the body and writes a 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusBadRequest, "invalid json: "+err.Error())
		return false
	}
	return true
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, pricing.ErrInvalidDimension),
		errors.Is(err, pricing.ErrInvalidWeight),
		errors.Is(err, zone.ErrInvalidPincode),
		errors.Is(err, quote.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, pricing.ErrUnknownZone),
		errors.Is(err, pricing.ErrUnknownServiceType),
		errors.Is(err, zone.ErrUnknownPincode),
		errors.Is(err, ratetable.ErrInvalidTable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, quote.ErrQuoteNotFound):
		return http.StatusNotFound
	case errors.Is(err, pricing.ErrRateTableUnavailable),
		errors.Is(err, ratetable.ErrNoTable),
		errors.Is(err, quote.ErrZoneUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		writeError(c, status, "internal error")
		return
	}
	writeError(c, status, err.Error())
}
