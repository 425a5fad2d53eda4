// Package preflight verifies that a workstation is ready to publish:
// directories exist and are writable, and enough disk space is available in
// the publish area.
package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"easel/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every environment check for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Projects directory", cfg.Paths.ProjectsDir),
		CheckDirectoryAccess("Publish directory", cfg.Paths.PublishDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
	}

	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	results = append(results, CheckDiskSpace("Publish disk space", cfg.Paths.PublishDir, minPublishFreeBytes))
	return results
}

// Passed reports whether every result in the slice passed.
func Passed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// minPublishFreeBytes is the floor below which publishing refuses to start.
const minPublishFreeBytes = 1 << 30 // 1 GiB

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDiskSpace verifies that at least required bytes are free on the
// filesystem holding path.
func CheckDiskSpace(name, path string, required uint64) Result {
	free, err := freeBytes(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	if free < required {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%.1f GiB free, %.1f GiB required)",
			path, gib(free), gib(required))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%.1f GiB free)", path, gib(free))}
}

// RequireDiskSpace is the publish-time variant of CheckDiskSpace: it returns
// an error instead of a Result so callers can abort early.
func RequireDiskSpace(path string, required uint64) error {
	free, err := freeBytes(path)
	if err != nil {
		return fmt.Errorf("check free space on %q: %w", path, err)
	}
	if free < required {
		return fmt.Errorf("insufficient disk space on %q: %.1f GiB free, %.1f GiB required",
			path, gib(free), gib(required))
	}
	return nil
}

func freeBytes(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

func gib(b uint64) float64 {
	return float64(b) / (1 << 30)
}
