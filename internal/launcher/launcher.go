// Package launcher locates painting application installs, prepares the
// launch environment that bootstraps the integration inside the host, and
// deploys the plugin resources into the user's documents area.
package launcher

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"easel/internal/config"
	"easel/internal/fileutil"
	"easel/internal/workctx"
)

// UnknownVersion marks installs whose version cannot be read from the
// install path.
const UnknownVersion = "unknown"

// Environment variables consumed by the in-host bootstrap script.
const (
	EnvEngine     = "EASEL_ENGINE"
	EnvContext    = "EASEL_CONTEXT"
	EnvFileToOpen = "EASEL_FILE_TO_OPEN"
)

// engineName is the value the bootstrap script expects in EnvEngine.
const engineName = "easel"

// Install is one discovered application install.
type Install struct {
	Product string
	Version string
	Path    string
}

// versionInPath matches a dotted version number embedded in an install path,
// as some packagings version their install directory.
var versionInPath = regexp.MustCompile(`(\d+(?:\.\d+)+)`)

// DefaultLocations returns the conventional install paths for the current
// platform, newest product naming first.
func DefaultLocations() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/Applications/Adobe Substance 3D Painter.app",
			"/Applications/Substance Painter.app",
		}
	case "windows":
		return []string{
			`C:\Program Files\Adobe\Adobe Substance 3D Painter\Adobe Substance 3D Painter.exe`,
			`C:\Program Files\Allegorithmic\Substance Painter\Substance Painter.exe`,
		}
	default:
		return []string{
			"/opt/Adobe/Adobe_Substance_3D_Painter/Adobe Substance 3D Painter",
			"/opt/Allegorithmic/Substance_Painter/Substance Painter",
		}
	}
}

// Scan stats the default install locations plus any extra configured paths
// and returns the installs that exist, sorted by path for stable output.
func Scan(extra []string) []Install {
	candidates := append(DefaultLocations(), extra...)

	seen := make(map[string]struct{})
	var installs []Install
	for _, candidate := range candidates {
		expanded, err := config.ExpandPath(candidate)
		if err != nil {
			continue
		}
		if _, ok := seen[expanded]; ok {
			continue
		}
		seen[expanded] = struct{}{}

		if _, err := os.Stat(expanded); err != nil {
			continue
		}
		installs = append(installs, Install{
			Product: productName(expanded),
			Version: versionFromPath(expanded),
			Path:    expanded,
		})
	}

	sort.Slice(installs, func(i, j int) bool { return installs[i].Path < installs[j].Path })
	return installs
}

func productName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.NewReplacer("_", " ", "-", " ").Replace(base)
}

func versionFromPath(path string) string {
	if match := versionInPath.FindString(path); match != "" {
		return match
	}
	return UnknownVersion
}

// LaunchInfo is everything needed to start the host with the integration
// bootstrapped.
type LaunchInfo struct {
	Path string
	Env  map[string]string
}

// PrepareLaunch builds the environment for launching an install into the
// given context. fileToOpen, when non-empty, is handed to the bootstrap so
// the host opens it on startup.
func PrepareLaunch(install Install, c workctx.Context, fileToOpen string) (LaunchInfo, error) {
	if install.Path == "" {
		return LaunchInfo{}, errors.New("launcher: install has no path")
	}

	env := map[string]string{
		EnvEngine: engineName,
	}

	if !c.IsZero() {
		encoded, err := json.Marshal(c)
		if err != nil {
			return LaunchInfo{}, fmt.Errorf("encode context: %w", err)
		}
		env[EnvContext] = string(encoded)
	}
	if fileToOpen != "" {
		env[EnvFileToOpen] = fileToOpen
	}

	return LaunchInfo{Path: install.Path, Env: env}, nil
}

// Resource deployment targets under the user documents directory.
const (
	pluginsSubdir = "python/startup"
	presetsSubdir = "assets/export-presets"
)

// InstallResources deploys the integration resources into the user docs
// area: startup scripts are always refreshed, export presets are only
// installed when missing so user edits survive upgrades. It returns the
// paths it wrote.
func InstallResources(cfg *config.Config) ([]string, error) {
	resourcesDir := cfg.Host.ResourcesDir
	if resourcesDir == "" {
		return nil, errors.New("launcher: no resources directory configured")
	}
	docsDir := cfg.Host.UserDocsDir
	if docsDir == "" {
		return nil, errors.New("launcher: no user docs directory configured")
	}

	entries, err := os.ReadDir(resourcesDir)
	if err != nil {
		return nil, fmt.Errorf("read resources: %w", err)
	}

	var installed []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		src := filepath.Join(resourcesDir, entry.Name())

		var (
			dstDir    string
			overwrite bool
		)
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".py":
			dstDir = filepath.Join(docsDir, pluginsSubdir)
			overwrite = true
		case ".spexp":
			dstDir = filepath.Join(docsDir, presetsSubdir)
			overwrite = false
		default:
			continue
		}

		target, err := fileutil.CopyInto(src, dstDir, overwrite)
		if err != nil {
			return installed, fmt.Errorf("install %q: %w", entry.Name(), err)
		}
		if target != "" {
			installed = append(installed, target)
		}
	}
	return installed, nil
}
