package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/config"
	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/db"
	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/logging"
	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/metrics"
	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/translation"
)

// syncRuntime wires the store, provider and engine of one process.
type syncRuntime struct {
	cfg      *config.Config
	logger   zerolog.Logger
	pool     *db.Pool
	registry *translation.Registry
	caller   *translation.Caller
	engine   *translation.Engine
	driver   *translation.Driver
	metrics  *metrics.Metrics
}

type runtimeOptions struct {
	// Provider overrides TRANSLATION_PROVIDER when set.
	Provider string
}

func newSyncRuntime(ctx context.Context, cfg *config.Config, opts runtimeOptions) (*syncRuntime, error) {
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	providerName := strings.TrimSpace(opts.Provider)
	if providerName == "" {
		providerName = cfg.TranslationProvider
	}
	registry, err := translation.NewRegistryFromSettings(translation.ProviderSettings{
		Default:  providerName,
		Endpoint: cfg.TranslationEndpoint,
		APIKey:   cfg.TranslationAPIKey,
		Model:    cfg.TranslationModel,
	})
	if err != nil {
		return nil, err
	}
	provider, err := registry.Provider("")
	if err != nil {
		return nil, err
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	m := metrics.New()
	caller := translation.NewCaller(provider, translation.CallerOptions{
		Timeout:  cfg.TranslationTimeout,
		Limiter:  translation.NewIntervalLimiter(cfg.TranslationInterval, cfg.TranslationBurst),
		Observer: m.ObserveCall,
	})

	engine, err := translation.NewEngine(pool, caller, translation.EngineOptions{
		CanonicalLanguage: cfg.CanonicalLanguage,
		TargetLanguages:   cfg.TargetLanguages,
	}, logger)
	if err != nil {
		_ = pool.Close()
		return nil, err
	}

	logger.Debug().
		Str("provider", provider.Name()).
		Str("canonical", engine.CanonicalLanguage()).
		Strs("targets", engine.TargetLanguages()).
		Dur("interval", cfg.TranslationInterval).
		Msg("sync runtime ready")

	return &syncRuntime{
		cfg:      cfg,
		logger:   logger,
		pool:     pool,
		registry: registry,
		caller:   caller,
		engine:   engine,
		driver:   translation.NewDriver(engine, logger),
		metrics:  m,
	}, nil
}

func (r *syncRuntime) Close() {
	if r == nil || r.pool == nil {
		return
	}
	if err := r.pool.Close(); err != nil {
		r.logger.Warn().Err(err).Msg("close database pool")
	}
}
