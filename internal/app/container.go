package app

import (
	"fmt"
	"net/http"

	"github.com/3Titanes/playclips-sample/internal/assets"
	"github.com/3Titanes/playclips-sample/internal/catalog"
	"github.com/3Titanes/playclips-sample/internal/config"
	"github.com/3Titanes/playclips-sample/internal/selection"
	"github.com/3Titanes/playclips-sample/internal/util"
	"go.uber.org/zap"
)

// Container bundles the assembled services used by the command line.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Store   *catalog.Store
	Checker *assets.Checker
}

// Build wires the catalog store, its HTTP fetcher and the asset checker from
// cfg. Nothing is fetched here; callers decide when to Load.
func Build(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout}

	breaker := util.NewCircuitBreaker(
		"metadata",
		cfg.CircuitBreaker.FailureThreshold,
		cfg.CircuitBreaker.ResetTimeout,
		logger,
	)
	fetcher := catalog.NewHTTPFetcher(httpClient, breaker, logger)

	var random selection.Source
	if cfg.Catalog.Seed != 0 {
		random = selection.NewSeededSource(cfg.Catalog.Seed)
	} else {
		random = selection.NewTimeSeededSource()
	}
	random = selection.NewLockedSource(random)

	store := catalog.NewStore(fetcher, logger, catalog.WithRandomSource(random))
	checker := assets.NewChecker(httpClient, cfg.Verify.Concurrency, logger)

	logger.Debug("Services assembled",
		zap.String("base_url", cfg.Catalog.BaseURL),
		zap.String("quality", cfg.Catalog.Quality.String()),
		zap.Bool("seeded", cfg.Catalog.Seed != 0),
		zap.Int("circuit_threshold", cfg.CircuitBreaker.FailureThreshold),
	)

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Checker: checker,
	}, nil
}
