package testsupport

import (
	"path/filepath"
	"testing"

	"easel/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ProjectsDir = filepath.Join(base, "projects")
	cfg.Paths.PublishDir = filepath.Join(base, "publish")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Tracker.SiteURL = "https://tracker.test"
	cfg.Host.UserDocsDir = filepath.Join(base, "docs")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithSiteURL overrides the tracker site URL on the test config.
func WithSiteURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Tracker.SiteURL = url
	}
}

// WithFavorites sets the configured menu favorites.
func WithFavorites(refs ...config.CommandRef) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Menu.Favorites = refs
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.ProjectsDir)
}
