// README: Calculator handlers for volumetric weight, single rates and service comparison.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shipcalc/internal/modules/pricing"
)

type CalculatorHandler struct {
	pricing *pricing.Service
}

func NewCalculatorHandler(svc *pricing.Service) *CalculatorHandler {
	return &CalculatorHandler{pricing: svc}
}

type volumetricReq struct {
	Length       float64 `json:"length"`
	Breadth      float64 `json:"breadth"`
	Height       float64 `json:"height"`
	ActualWeight float64 `json:"actualWeight"`
}

type rateReq struct {
	ChargeableWeight float64 `json:"chargeableWeight"`
	Zone             string  `json:"zone" binding:"required"`
	ServiceType      string  `json:"serviceType" binding:"required"`
}

type optionsReq struct {
	ChargeableWeight float64 `json:"chargeableWeight"`
	Zone             string  `json:"zone" binding:"required"`
}

func (h *CalculatorHandler) Volumetric(c *gin.Context) {
	var req volumetricReq
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.pricing.Volumetric(pricing.Dimensions{
		Length:  req.Length,
		Breadth: req.Breadth,
		Height:  req.Height,
	}, req.ActualWeight)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}

func (h *CalculatorHandler) Rate(c *gin.Context) {
	var req rateReq
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.pricing.Rate(c.Request.Context(), req.ChargeableWeight, req.Zone, req.ServiceType)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}

func (h *CalculatorHandler) Options(c *gin.Context) {
	var req optionsReq
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.pricing.Options(c.Request.Context(), req.ChargeableWeight, req.Zone)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}
