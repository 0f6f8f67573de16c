// README: Quote handlers for create/get/export/requote.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"shipcalc/internal/modules/pricing"
	"shipcalc/internal/modules/quote"
	"shipcalc/internal/types"
)

type QuoteHandler struct {
	quotes *quote.Service
}

func NewQuoteHandler(svc *quote.Service) *QuoteHandler {
	return &QuoteHandler{quotes: svc}
}

type createQuoteReq struct {
	Length             float64 `json:"length"`
	Breadth            float64 `json:"breadth"`
	Height             float64 `json:"height"`
	ActualWeight       float64 `json:"actualWeight"`
	ServiceType        string  `json:"serviceType" binding:"required"`
	Zone               string  `json:"zone"`
	OriginPincode      string  `json:"originPincode"`
	DestinationPincode string  `json:"destinationPincode"`
}

// quoteResp adds the validity state as of the request time.
type quoteResp struct {
	*quote.Quote
	Expired bool `json:"expired"`
}

type requoteReq struct {
	ServiceType string `json:"serviceType" binding:"required"`
}

func (h *QuoteHandler) Create(c *gin.Context) {
	var req createQuoteReq
	if !bindJSON(c, &req) {
		return
	}
	q, err := h.quotes.Create(c.Request.Context(), quote.CreateCommand{
		Dimensions: pricing.Dimensions{
			Length:  req.Length,
			Breadth: req.Breadth,
			Height:  req.Height,
		},
		ActualWeight:       req.ActualWeight,
		ServiceType:        req.ServiceType,
		Zone:               req.Zone,
		OriginPincode:      req.OriginPincode,
		DestinationPincode: req.DestinationPincode,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.Header("Location", "/api/quotes/"+string(q.ID))
	writeJSON(c, http.StatusCreated, q)
}

func (h *QuoteHandler) Get(c *gin.Context) {
	q, err := h.quotes.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, quoteResp{Quote: q, Expired: h.quotes.Expired(q)})
}

func (h *QuoteHandler) Export(c *gin.Context) {
	q, err := h.quotes.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	name, body, err := quote.Export(q)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/json", body)
}

func (h *QuoteHandler) Requote(c *gin.Context) {
	var req requoteReq
	if !bindJSON(c, &req) {
		return
	}
	q, err := h.quotes.Requote(c.Request.Context(), quote.RequoteCommand{
		QuoteID:     types.ID(c.Param("id")),
		ServiceType: req.ServiceType,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.Header("Location", "/api/quotes/"+string(q.ID))
	writeJSON(c, http.StatusCreated, q)
}
