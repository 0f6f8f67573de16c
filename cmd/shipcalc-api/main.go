// README: Entry point; loads config, wires services, starts the HTTP server and the rate table reloader.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shipcalc/internal/config"
	httptransport "shipcalc/internal/http"
	"shipcalc/internal/infra"
	"shipcalc/internal/modules/pricing"
	"shipcalc/internal/modules/quote"
	"shipcalc/internal/modules/ratetable"
	"shipcalc/internal/modules/zone"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := infra.NewLogger(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("shipcalc-api stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	var source ratetable.Source = ratetable.FileSource{Path: cfg.Rates.File}
	if cfg.Rates.Source == config.RateSourcePostgres {
		source = ratetable.NewStore(dbPool)
	}
	registry := ratetable.NewRegistry(source, logger)
	if _, err := registry.Reload(ctx); err != nil {
		// Requests get 503 until the reloader picks up a valid table.
		logger.Error("initial rate table load failed", "source", cfg.Rates.Source, "err", err)
	}
	go registry.RunReloader(ctx, time.Duration(cfg.Rates.ReloadSeconds)*time.Second)

	var cache zone.Cache
	if redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr); err != nil {
		logger.Warn("redis unavailable; zone cache disabled", "err", err)
	} else {
		defer redisClient.Close()
		cache = zone.NewRedisCache(redisClient, cfg.Zone.CacheTTL)
	}

	var geocoder zone.Geocoder
	mapsClient, err := infra.NewMapsClient(cfg.Maps.APIKey)
	if err != nil {
		return fmt.Errorf("maps: %w", err)
	}
	if mapsClient != nil {
		geocoder = zone.NewMapsGeocoder(mapsClient, cfg.Maps.Country)
	} else {
		logger.Info("no maps api key; pincodes outside the directory will not resolve")
	}

	zoneSvc := zone.NewService(zone.NewStore(dbPool), cache, geocoder, zone.Config{
		LocalRadiusKm:    cfg.Zone.LocalRadiusKm,
		RegionalRadiusKm: cfg.Zone.RegionalRadiusKm,
	}, logger)
	pricingSvc := pricing.NewService(registry)
	quoteSvc := quote.NewService(quote.NewStore(dbPool), pricingSvc, zoneSvc)

	server := httptransport.NewServer(httptransport.ServerDeps{
		Pricing: pricingSvc,
		Quotes:  quoteSvc,
		Zones:   zoneSvc,
		Rates:   registry,
		Logger:  logger,
	})
	return server.Run(ctx, cfg.HTTP.Addr, cfg.HTTP.ShutdownTimeout)
}
