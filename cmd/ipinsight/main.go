package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"ipinsight/api"
	"ipinsight/internal/analytics"
	"ipinsight/internal/config"
	"ipinsight/internal/logger"
	"ipinsight/internal/metrics"
	"ipinsight/pkg/cache"
	"ipinsight/pkg/lookup"
	"ipinsight/pkg/reconcile"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info("config loaded", map[string]any{"path": *configPath})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsSrv := metrics.New()
	go func() {
		if err := metrics.StartServer(ctx, cfg.Metrics); err != nil {
			log.Error("metrics server error", map[string]any{"err": err.Error()})
		}
	}()

	client := buildLookup(cfg, log, metricsSrv)
	store := analytics.NewStore(cfg.Analytics.Limit)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.CORSMiddleware(cfg.API.CORSOrigin))
	router.Use(api.AnalyticsMiddleware(store, metricsSrv))

	handlers := &api.Handlers{
		Lookup:    client,
		Records:   cache.New[reconcile.UnifiedRecord](cfg.Cache.RecordCapacity),
		RecordTTL: cfg.Cache.RecordTTL,
		Analytics: store,
		Metrics:   metricsSrv,
		Log:       log,
	}
	api.RegisterRoutes(router, handlers)

	go func() {
		if err := router.Run(cfg.API.Address); err != nil {
			log.Error("api server error", map[string]any{"err": err.Error()})
		}
	}()

	log.Info("listening", map[string]any{"address": cfg.API.Address})
	<-ctx.Done()
	log.Info("shutdown", nil)
}

func buildLookup(cfg *config.Config, log *logger.Logger, metricsSrv *metrics.Metrics) *lookup.CachedClient {
	var provider lookup.Provider
	switch cfg.Lookup.Provider {
	case "http":
		token := config.ResolveSecret(cfg.Lookup.Token)
		if token == "" {
			log.Warn("lookup token not configured", nil)
		}
		provider = lookup.NewHTTPClient(cfg.Lookup.Endpoint, token, cfg.Lookup.Timeout)
	case "mmdb":
		client, err := lookup.NewMMDBClient(cfg.Lookup.MMDBPath)
		if err != nil {
			log.Error("mmdb unavailable", map[string]any{"path": cfg.Lookup.MMDBPath, "err": err.Error()})
		} else {
			provider = client
		}
	case "none":
		log.Info("external lookup disabled", nil)
	}

	return lookup.NewCachedClient(
		provider,
		cache.New[*lookup.Result](cfg.Cache.LookupCapacity),
		cfg.Lookup.TTL,
		cfg.Lookup.NegativeTTL,
		metricsSrv,
	)
}
