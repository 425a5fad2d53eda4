package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeHost(); err != nil {
		return err
	}
	c.normalizeTracker()
	c.normalizeMenu()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.ProjectsDir, err = expandPath(c.Paths.ProjectsDir); err != nil {
		return fmt.Errorf("paths.projects_dir: %w", err)
	}
	if c.Paths.PublishDir, err = expandPath(c.Paths.PublishDir); err != nil {
		return fmt.Errorf("paths.publish_dir: %w", err)
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeHost() error {
	var err error
	if c.Host.UserDocsDir, err = expandPath(c.Host.UserDocsDir); err != nil {
		return fmt.Errorf("host.user_docs_dir: %w", err)
	}
	if strings.TrimSpace(c.Host.ResourcesDir) != "" {
		if c.Host.ResourcesDir, err = expandPath(c.Host.ResourcesDir); err != nil {
			return fmt.Errorf("host.resources_dir: %w", err)
		}
	}
	for i, loc := range c.Host.ExecutablePaths {
		expanded, err := expandPath(loc)
		if err != nil {
			return fmt.Errorf("host.executable_paths[%d]: %w", i, err)
		}
		c.Host.ExecutablePaths[i] = expanded
	}
	return nil
}

func (c *Config) normalizeTracker() {
	c.Tracker.SiteURL = strings.TrimRight(strings.TrimSpace(c.Tracker.SiteURL), "/")
}

func (c *Config) normalizeMenu() {
	if strings.TrimSpace(c.Menu.Name) == "" {
		c.Menu.Name = defaultMenuName
	}
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format == "" {
		format = defaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}
