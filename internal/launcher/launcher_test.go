package launcher_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"easel/internal/launcher"
	"easel/internal/testsupport"
	"easel/internal/workctx"
)

var testContext = workctx.Context{Project: "Sprocket", Entity: "Table", Task: "texturing"}

func TestScanFindsConfiguredExecutables(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "Substance_Painter-8.3.0", "Substance_Painter")
	testsupport.WriteFile(t, exe, 8)

	installs := launcher.Scan([]string{exe, filepath.Join(dir, "missing")})
	if len(installs) != 1 {
		t.Fatalf("installs = %#v, want one entry", installs)
	}
	install := installs[0]
	if install.Path != exe {
		t.Fatalf("path = %q", install.Path)
	}
	if install.Version != "8.3.0" {
		t.Fatalf("version = %q, want 8.3.0", install.Version)
	}
	if install.Product != "Substance Painter" {
		t.Fatalf("product = %q", install.Product)
	}
}

func TestScanVersionUnknownWithoutDigits(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "painter")
	testsupport.WriteFile(t, exe, 8)

	installs := launcher.Scan([]string{exe})
	if len(installs) != 1 || installs[0].Version != launcher.UnknownVersion {
		t.Fatalf("installs = %#v", installs)
	}
}

func TestScanDeduplicates(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "painter")
	testsupport.WriteFile(t, exe, 8)

	installs := launcher.Scan([]string{exe, exe})
	if len(installs) != 1 {
		t.Fatalf("duplicate paths produced %d installs", len(installs))
	}
}

func TestPrepareLaunch(t *testing.T) {
	install := launcher.Install{Product: "Painter", Version: "8.3.0", Path: "/opt/painter"}

	info, err := launcher.PrepareLaunch(install, testContext, "/projects/scene.spp")
	if err != nil {
		t.Fatalf("PrepareLaunch failed: %v", err)
	}
	if info.Path != "/opt/painter" {
		t.Fatalf("path = %q", info.Path)
	}
	if info.Env[launcher.EnvEngine] != "easel" {
		t.Fatalf("engine env = %q", info.Env[launcher.EnvEngine])
	}
	if info.Env[launcher.EnvFileToOpen] != "/projects/scene.spp" {
		t.Fatalf("file env = %q", info.Env[launcher.EnvFileToOpen])
	}

	var decoded workctx.Context
	if err := json.Unmarshal([]byte(info.Env[launcher.EnvContext]), &decoded); err != nil {
		t.Fatalf("context env is not valid JSON: %v", err)
	}
	if decoded != testContext {
		t.Fatalf("decoded context = %+v, want %+v", decoded, testContext)
	}
}

func TestPrepareLaunchOmitsEmptyValues(t *testing.T) {
	info, err := launcher.PrepareLaunch(launcher.Install{Path: "/opt/painter"}, workctx.Context{}, "")
	if err != nil {
		t.Fatalf("PrepareLaunch failed: %v", err)
	}
	if _, ok := info.Env[launcher.EnvContext]; ok {
		t.Fatal("zero context should not be encoded")
	}
	if _, ok := info.Env[launcher.EnvFileToOpen]; ok {
		t.Fatal("empty file should not be encoded")
	}

	if _, err := launcher.PrepareLaunch(launcher.Install{}, workctx.Context{}, ""); err == nil {
		t.Fatal("expected error for install without path")
	}
}

func TestInstallResources(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	resources := filepath.Join(testsupport.BaseDir(cfg), "resources")
	cfg.Host.ResourcesDir = resources

	if err := os.MkdirAll(resources, 0o755); err != nil {
		t.Fatalf("mkdir resources: %v", err)
	}
	if err := os.WriteFile(filepath.Join(resources, "bootstrap.py"), []byte("v1"), 0o644); err != nil {
		t.Fatalf("write bootstrap: %v", err)
	}
	if err := os.WriteFile(filepath.Join(resources, "Textures.spexp"), []byte("preset"), 0o644); err != nil {
		t.Fatalf("write preset: %v", err)
	}
	if err := os.WriteFile(filepath.Join(resources, "README.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write readme: %v", err)
	}

	installed, err := launcher.InstallResources(cfg)
	if err != nil {
		t.Fatalf("InstallResources failed: %v", err)
	}
	if len(installed) != 2 {
		t.Fatalf("installed = %v, want bootstrap and preset", installed)
	}

	script := filepath.Join(cfg.Host.UserDocsDir, "python", "startup", "bootstrap.py")
	preset := filepath.Join(cfg.Host.UserDocsDir, "assets", "export-presets", "Textures.spexp")
	for _, path := range []string{script, preset} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("resource not deployed at %s: %v", path, err)
		}
	}

	// Simulate a user edit and a newer bootstrap; scripts refresh, presets
	// are left alone.
	if err := os.WriteFile(preset, []byte("user edited"), 0o644); err != nil {
		t.Fatalf("edit preset: %v", err)
	}
	if err := os.WriteFile(filepath.Join(resources, "bootstrap.py"), []byte("v2"), 0o644); err != nil {
		t.Fatalf("update bootstrap: %v", err)
	}

	if _, err := launcher.InstallResources(cfg); err != nil {
		t.Fatalf("second InstallResources failed: %v", err)
	}

	scriptData, err := os.ReadFile(script)
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	if string(scriptData) != "v2" {
		t.Fatalf("script = %q, want refreshed v2", scriptData)
	}
	presetData, err := os.ReadFile(preset)
	if err != nil {
		t.Fatalf("read preset: %v", err)
	}
	if string(presetData) != "user edited" {
		t.Fatalf("preset = %q, want user edit preserved", presetData)
	}
}

func TestInstallResourcesRequiresConfiguration(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Host.ResourcesDir = ""
	if _, err := launcher.InstallResources(cfg); err == nil {
		t.Fatal("expected error without resources dir")
	}

	cfg.Host.ResourcesDir = t.TempDir()
	cfg.Host.UserDocsDir = ""
	if _, err := launcher.InstallResources(cfg); err == nil {
		t.Fatal("expected error without user docs dir")
	}
}
