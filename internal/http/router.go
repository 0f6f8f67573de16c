// README: HTTP router registration.
package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"shipcalc/internal/http/handlers"
	"shipcalc/internal/http/middleware"
)

func NewRouter(deps ServerDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger), middleware.Logging(logger))

	rates := handlers.NewRateTableHandler(deps.Rates)
	r.GET("/health", rates.Health)

	api := r.Group("/api")

	calc := handlers.NewCalculatorHandler(deps.Pricing)
	api.POST("/calculator/volumetric", calc.Volumetric)
	api.POST("/calculator/rate", calc.Rate)
	api.POST("/calculator/options", calc.Options)

	zones := handlers.NewZoneHandler(deps.Zones)
	api.POST("/zones/resolve", zones.Resolve)

	quotes := handlers.NewQuoteHandler(deps.Quotes)
	api.POST("/quotes", quotes.Create)
	api.GET("/quotes/:id", quotes.Get)
	api.GET("/quotes/:id/export", quotes.Export)
	api.POST("/quotes/:id/requote", quotes.Requote)

	api.GET("/rate-table", rates.Current)
	api.POST("/rate-table/reload", rates.Reload)

	return r
}
