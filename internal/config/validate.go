package config

import (
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTemplates(); err != nil {
		return err
	}
	if err := c.validateMenu(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.ProjectsDir) == "" {
		return fmt.Errorf("paths.projects_dir is required (create a config with 'easel config init')")
	}
	if strings.TrimSpace(c.Paths.PublishDir) == "" {
		return fmt.Errorf("paths.publish_dir is required")
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return fmt.Errorf("paths.state_dir is required")
	}
	return nil
}

func (c *Config) validateTemplates() error {
	required := []string{
		TemplateWorkArea,
		TemplateTexturePublish,
		TemplateTextureUDIM,
		TemplateTextureSetFolder,
		TemplateProjectPublish,
	}
	for _, name := range required {
		raw, ok := c.Templates[name]
		if !ok || strings.TrimSpace(raw) == "" {
			return fmt.Errorf("templates.%s is required", name)
		}
	}
	return nil
}

func (c *Config) validateMenu() error {
	for i, fav := range c.Menu.Favorites {
		if strings.TrimSpace(fav.Name) == "" {
			return fmt.Errorf("menu.favorites[%d]: name is required", i)
		}
	}
	for i, ref := range c.Menu.RunAtStartup {
		if strings.TrimSpace(ref.AppInstance) == "" {
			return fmt.Errorf("menu.run_at_startup[%d]: app_instance is required", i)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
