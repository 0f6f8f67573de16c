// README: Rate table handlers expose the live snapshot and trigger reloads.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shipcalc/internal/modules/ratetable"
)

type RateTableHandler struct {
	registry *ratetable.Registry
}

func NewRateTableHandler(registry *ratetable.Registry) *RateTableHandler {
	return &RateTableHandler{registry: registry}
}

type rateTableResp struct {
	LoadedAt time.Time            `json:"loadedAt"`
	Table    *ratetable.RateTable `json:"table"`
}

func (h *RateTableHandler) Current(c *gin.Context) {
	t, err := h.registry.Table(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, rateTableResp{LoadedAt: h.registry.LoadedAt(), Table: t})
}

// Reload swaps in a fresh table; on failure the previous snapshot keeps serving.
func (h *RateTableHandler) Reload(c *gin.Context) {
	t, err := h.registry.Reload(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"version":  t.Version,
		"loadedAt": h.registry.LoadedAt(),
		"zones":    t.ZoneKeys(),
	})
}

func (h *RateTableHandler) Health(c *gin.Context) {
	t := h.registry.Current()
	if t == nil {
		writeJSON(c, http.StatusServiceUnavailable, gin.H{"status": "no rate table"})
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "ok", "rateTableVersion": t.Version})
}
