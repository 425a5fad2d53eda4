package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"easel/internal/config"
	"easel/internal/logging"
	"easel/internal/templates"
	"easel/internal/workctx"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NopLogger()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NopLogger()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// templateSet parses the configured templates.
func (c *commandContext) templateSet() (templates.Set, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return templates.LoadSet(cfg.Templates)
}

// resolver builds a context resolver from the loaded config.
func (c *commandContext) resolver() (*workctx.Resolver, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	set, err := c.templateSet()
	if err != nil {
		return nil, err
	}
	return workctx.NewResolver(cfg, set)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
