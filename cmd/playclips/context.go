package main

import (
	"fmt"

	"github.com/3Titanes/playclips-sample/internal/app"
	"github.com/3Titanes/playclips-sample/internal/catalog"
	"github.com/3Titanes/playclips-sample/internal/config"
	"github.com/3Titanes/playclips-sample/internal/domain"
	"github.com/3Titanes/playclips-sample/internal/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type globalFlags struct {
	envFile  string
	baseURL  string
	quality  string
	seed     uint64
	logLevel string
}

// commandContext lazily assembles the container and loads the catalog once
// per invocation.
type commandContext struct {
	flags     *globalFlags
	container *app.Container
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureContainer(cmd *cobra.Command) (*app.Container, error) {
	if c.container != nil {
		return c.container, nil
	}

	var envFiles []string
	if c.flags.envFile != "" {
		envFiles = append(envFiles, c.flags.envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, err
	}

	if flagChanged(cmd, "url") {
		cfg.Catalog.BaseURL = c.flags.baseURL
	}
	if flagChanged(cmd, "quality") {
		cfg.Catalog.Quality = domain.Quality(util.Normalize(c.flags.quality))
	}
	if flagChanged(cmd, "seed") {
		cfg.Catalog.Seed = c.flags.seed
	}
	if flagChanged(cmd, "log-level") {
		cfg.Logging.Level = c.flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	container, err := app.Build(cfg, logger)
	if err != nil {
		return nil, err
	}
	c.container = container
	return container, nil
}

// loadCatalog returns the container with its store loaded from the configured base URL.
func (c *commandContext) loadCatalog(cmd *cobra.Command) (*app.Container, error) {
	container, err := c.ensureContainer(cmd)
	if err != nil {
		return nil, err
	}
	if container.Store.Loaded() {
		return container, nil
	}
	if err := container.Store.Load(cmd.Context(), container.Config.Catalog.BaseURL); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return container, nil
}

func (c *commandContext) influencer(cmd *cobra.Command, id string) (*app.Container, *catalog.Influencer, error) {
	container, err := c.loadCatalog(cmd)
	if err != nil {
		return nil, nil, err
	}
	view, err := container.Store.GetInfluencer(id)
	if err != nil {
		return nil, nil, err
	}
	return container, view, nil
}

func (c *commandContext) close() {
	if c.container != nil {
		c.container.Logger.Debug("Command finished", zap.String("generation", c.container.Store.Generation()))
		_ = c.container.Logger.Sync()
	}
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}
