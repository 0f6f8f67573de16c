// README: Zone handler resolves a pincode pair to a pricing zone.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shipcalc/internal/modules/quote"
	"shipcalc/internal/modules/zone"
)

type ZoneHandler struct {
	zones *zone.Service
}

// NewZoneHandler accepts a nil service; requests then get 503.
func NewZoneHandler(svc *zone.Service) *ZoneHandler {
	return &ZoneHandler{zones: svc}
}

type resolveZoneReq struct {
	OriginPincode      string `json:"originPincode"`
	DestinationPincode string `json:"destinationPincode"`
}

func (h *ZoneHandler) Resolve(c *gin.Context) {
	var req resolveZoneReq
	if !bindJSON(c, &req) {
		return
	}
	if h.zones == nil {
		writeServiceError(c, quote.ErrZoneUnavailable)
		return
	}
	res, err := h.zones.Resolve(c.Request.Context(), req.OriginPincode, req.DestinationPincode)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}
