package preflight_test

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"easel/internal/preflight"
	"easel/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()

	result := preflight.CheckDirectoryAccess("Projects directory", dir)
	if !result.Passed {
		t.Fatalf("check failed for writable dir: %+v", result)
	}
	if result.Name != "Projects directory" {
		t.Fatalf("name = %q", result.Name)
	}
}

func TestCheckDirectoryAccessMissing(t *testing.T) {
	result := preflight.CheckDirectoryAccess("State directory", filepath.Join(t.TempDir(), "missing"))
	if result.Passed {
		t.Fatal("check passed for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("detail = %q", result.Detail)
	}
}

func TestCheckDirectoryAccessRejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	result := preflight.CheckDirectoryAccess("State directory", file)
	if result.Passed {
		t.Fatal("check passed for regular file")
	}
	if !strings.Contains(result.Detail, "not a directory") {
		t.Fatalf("detail = %q", result.Detail)
	}
}

func TestCheckDiskSpace(t *testing.T) {
	dir := t.TempDir()

	if result := preflight.CheckDiskSpace("Publish disk space", dir, 1); !result.Passed {
		t.Fatalf("check failed with 1 byte requirement: %+v", result)
	}
	if result := preflight.CheckDiskSpace("Publish disk space", dir, math.MaxUint64); result.Passed {
		t.Fatal("check passed with impossible requirement")
	}
}

func TestRequireDiskSpace(t *testing.T) {
	dir := t.TempDir()

	if err := preflight.RequireDiskSpace(dir, 1); err != nil {
		t.Fatalf("RequireDiskSpace failed: %v", err)
	}
	if err := preflight.RequireDiskSpace(dir, math.MaxUint64); err == nil {
		t.Fatal("expected error with impossible requirement")
	}
	if err := preflight.RequireDiskSpace(filepath.Join(dir, "missing"), 1); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	results := preflight.RunAll(cfg)
	if len(results) != 5 {
		t.Fatalf("got %d results, want 5", len(results))
	}
	if !preflight.Passed(results) {
		t.Fatalf("checks failed: %+v", results)
	}
}

func TestRunAllReportsMissingDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := os.RemoveAll(cfg.Paths.ProjectsDir); err != nil {
		t.Fatalf("remove projects dir: %v", err)
	}

	results := preflight.RunAll(cfg)
	if preflight.Passed(results) {
		t.Fatal("checks passed with missing projects dir")
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if results := preflight.RunAll(nil); results != nil {
		t.Fatalf("results = %v, want nil", results)
	}
}
