package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	ProjectsDir string `toml:"projects_dir"`
	PublishDir  string `toml:"publish_dir"`
	StateDir    string `toml:"state_dir"`
	LogDir      string `toml:"log_dir"`
}

// Tracker contains configuration for the production tracking site.
type Tracker struct {
	SiteURL string `toml:"site_url"`
}

// CommandRef identifies a registered command by the app instance that owns it
// and its menu name. An empty name refers to every command of the instance.
type CommandRef struct {
	AppInstance string `toml:"app_instance"`
	Name        string `toml:"name"`
}

// Menu contains configuration for the pipeline menu.
type Menu struct {
	Name                   string       `toml:"name"`
	AutomaticContextSwitch bool         `toml:"automatic_context_switch"`
	Favorites              []CommandRef `toml:"favorites"`
	RunAtStartup           []CommandRef `toml:"run_at_startup"`
}

// Host contains configuration for the painting application integration.
type Host struct {
	ExecutablePaths []string `toml:"executable_paths"`
	ResourcesDir    string   `toml:"resources_dir"`
	UserDocsDir     string   `toml:"user_docs_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for easel.
//
// Configuration sections by subsystem:
//   - Paths: project work areas, publish area, state and log directories
//   - Tracker: production tracking site used for jump-to links
//   - Menu: menu title, favorites, and startup commands
//   - Templates: named path templates for work and publish locations
//   - Host: painting application install locations and resource deployment
//   - Logging: log format and level
type Config struct {
	Paths     Paths             `toml:"paths"`
	Tracker   Tracker           `toml:"tracker"`
	Menu      Menu              `toml:"menu"`
	Templates map[string]string `toml:"templates"`
	Host      Host              `toml:"host"`
	Logging   Logging           `toml:"logging"`
}

// Template names that must be present for the publish flow to work.
const (
	TemplateWorkArea          = "work_area"
	TemplateTextureExportArea = "texture_export_area"
	TemplateTexturePublish    = "texture_publish"
	TemplateTextureUDIM       = "texture_udim_publish"
	TemplateTextureSetFolder  = "texture_set_publish_folder"
	TemplateProjectPublish    = "project_publish"
)

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/easel/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("easel.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories easel writes to. ProjectsDir and
// PublishDir are created on a best-effort basis so commands that only read
// configuration can run while network storage is unavailable.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	for _, dir := range []string{c.Paths.ProjectsDir, c.Paths.PublishDir} {
		if strings.TrimSpace(dir) != "" {
			_ = os.MkdirAll(dir, 0o755)
		}
	}
	return nil
}

// Template returns the raw template string registered under name.
func (c *Config) Template(name string) (string, bool) {
	raw, ok := c.Templates[name]
	return raw, ok
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
