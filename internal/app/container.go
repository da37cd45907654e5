package app

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dearpower/dearpower-go/internal/config"
	"github.com/dearpower/dearpower-go/internal/constants"
	"github.com/dearpower/dearpower-go/internal/server"
	"github.com/dearpower/dearpower-go/internal/service/ai"
	"github.com/dearpower/dearpower-go/internal/service/cache"
	"github.com/dearpower/dearpower-go/internal/service/draft"
	"github.com/dearpower/dearpower-go/internal/service/geocode"
	"github.com/dearpower/dearpower-go/internal/service/parliament"
	"github.com/dearpower/dearpower-go/internal/service/postcode"
	"github.com/dearpower/dearpower-go/internal/service/representative"
	"github.com/dearpower/dearpower-go/internal/service/upstream"
	"github.com/dearpower/dearpower-go/internal/util"
	"go.uber.org/zap"
)

// Container bundles assembled services for constructing the HTTP server.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Pipeline *representative.Pipeline
	Drafts   *draft.Service
	Models   *ai.ModelManager

	serverDeps server.Dependencies
	closers    []func()
}

// NewServer instantiates the HTTP server using the pre-built dependency graph.
func (c *Container) NewServer() (*server.Server, error) {
	if c == nil {
		return nil, fmt.Errorf("server dependencies not initialized")
	}
	return server.New(c.serverDeps)
}

// Close releases connections opened by Build, newest first.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Build assembles every service. Redis and the language models are optional: without
// them articles are not cached and drafts come from the built-in letters.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	httpClient := &http.Client{}

	// Lookup pipeline
	postcodeClient := postcode.NewClient(
		upstream.NewClient("postcodes", cfg.Postcodes.BaseURL, httpClient, cfg.Lookup.Timeout, logger),
		logger,
	)
	directory := parliament.NewClient(
		upstream.NewClient("parliament", cfg.Parliament.BaseURL, httpClient, cfg.Lookup.Timeout, logger),
		logger,
	)
	pipeline := representative.NewPipeline(postcodeClient, directory, directory, logger)

	geocoder := geocode.NewClient(
		upstream.NewClient("mapbox", cfg.Mapbox.BaseURL, httpClient, constants.GeocodeConfig.RequestTimeout, logger),
		cfg.Mapbox.Token,
		logger,
	)
	if !geocoder.Configured() {
		logger.Warn("MAPBOX_TOKEN not set, address search disabled")
	}

	healthChecks := map[string]server.HealthCheck{}

	// Optional article cache
	var articleCache draft.ArticleCache
	if cfg.Redis.Enabled() {
		cacheSvc, cacheErr := cache.NewCacheService(ctx, cache.CacheConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, constants.RedisConfig.ReadyTimeout, logger)
		if cacheErr != nil {
			logger.Warn("Redis unavailable, reference articles will not be cached", zap.Error(cacheErr))
		} else {
			articleCache = cacheSvc
			healthChecks["redis"] = cacheSvc.IsConnected
			closers = append(closers, func() {
				_ = cacheSvc.Close()
			})
		}
	}

	// AI stack
	modelManager, err := ai.NewModelManager(ctx, ai.ModelManagerConfig{
		OpenAIAPIKey:       cfg.OpenAI.APIKey,
		GeminiAPIKey:       cfg.Gemini.APIKey,
		DefaultOpenAIModel: cfg.OpenAI.Model,
		DefaultGeminiModel: cfg.Gemini.Model,
		EnableFallback:     cfg.Gemini.EnableFallback,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create model manager: %w", err)
	}
	if modelManager.Configured() {
		healthChecks["language_model"] = func(context.Context) bool {
			return modelManager.GetCircuitStatus().State != util.CircuitStateOpen
		}
	}

	articles := draft.NewArticleFetcher(nil, articleCache, logger)
	drafts := draft.NewService(modelManager, articles, logger)

	deps := server.Dependencies{
		Addr:            ":" + strconv.Itoa(cfg.Server.Port),
		StaticDir:       cfg.Server.StaticDir,
		MapboxToken:     cfg.Mapbox.Token,
		Representatives: pipeline,
		Postcodes:       postcodeClient,
		Geocoder:        geocoder,
		Drafter:         drafts,
		HealthChecks:    healthChecks,
		Logger:          logger,
	}

	return &Container{
		Config:     cfg,
		Logger:     logger,
		Pipeline:   pipeline,
		Drafts:     drafts,
		Models:     modelManager,
		serverDeps: deps,
		closers:    closers,
	}, nil
}
