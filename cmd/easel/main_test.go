package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"easel/internal/launcher"
	"easel/internal/menu"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newGroupCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGroupCommandCollapsesSequences(t *testing.T) {
	out, err := runCommand(t,
		"Body_BaseColor_sRGB.1001.png",
		"Body_BaseColor_sRGB.1002.png",
		"Body_Roughness_Raw.png",
	)
	if err != nil {
		t.Fatalf("group failed: %v", err)
	}
	if !strings.Contains(out, "Body_BaseColor_sRGB.<UDIM>.png") {
		t.Fatalf("output missing sequence key:\n%s", out)
	}
	if !strings.Contains(out, "Body_Roughness_Raw.png") {
		t.Fatalf("output missing flat file:\n%s", out)
	}
}

func TestGroupFieldsCommand(t *testing.T) {
	out, err := runCommand(t, "fields", "Body_BaseColor_sRGB.1001.png")
	if err != nil {
		t.Fatalf("group fields failed: %v", err)
	}
	for _, want := range []string{"Body", "BaseColor", "sRGB", "1001", "png"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGroupFieldsCommandFlagsUnrecognized(t *testing.T) {
	out, err := runCommand(t, "fields", "thumbnail.png")
	if err == nil {
		t.Fatal("expected error for off-convention filename")
	}
	if !strings.Contains(out, "unrecognized") {
		t.Fatalf("output missing unrecognized marker:\n%s", out)
	}
}

func TestSelectInstall(t *testing.T) {
	installs := []launcher.Install{
		{Product: "Painter 8", Path: "/opt/painter8"},
		{Product: "Painter 9", Path: "/opt/painter9"},
	}

	install, err := selectInstall(installs, "")
	if err != nil || install.Path != "/opt/painter8" {
		t.Fatalf("default install = %+v, %v", install, err)
	}

	install, err = selectInstall(installs, "/opt/painter9")
	if err != nil || install.Product != "Painter 9" {
		t.Fatalf("selected install = %+v, %v", install, err)
	}

	if _, err := selectInstall(installs, "/opt/elsewhere"); err == nil {
		t.Fatal("expected error for unknown path")
	}
}

func TestCollectTextureFiles(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"Body_BaseColor_sRGB.1001.png",
		"Body_Roughness_Raw.png",
		"thumbnail.png",
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	files, err := collectTextureFiles([]string{dir})
	if err != nil {
		t.Fatalf("collectTextureFiles failed: %v", err)
	}
	want := []string{
		filepath.Join(dir, "Body_BaseColor_sRGB.1001.png"),
		filepath.Join(dir, "Body_Roughness_Raw.png"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("files = %v, want %v", files, want)
	}

	// Explicit files are kept even when off-convention.
	explicit := filepath.Join(dir, "thumbnail.png")
	files, err = collectTextureFiles([]string{explicit})
	if err != nil || len(files) != 1 || files[0] != explicit {
		t.Fatalf("explicit files = %v, %v", files, err)
	}

	if _, err := collectTextureFiles([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Fatal("expected error for missing argument")
	}
}

func TestTextRenderer(t *testing.T) {
	root := &menu.Node{Label: "Pipeline"}
	ctxNode := root.AddSubmenu("Sprocket / Table / texturing")
	ctxNode.AddLeaf(&menu.Leaf{Label: "Jump to Tracker"})
	root.AddSeparator()
	root.AddLeaf(&menu.Leaf{Label: "Publish...", Enabled: true})

	var out bytes.Buffer
	if err := menu.Mirror(root, &textRenderer{out: &out}); err != nil {
		t.Fatalf("Mirror failed: %v", err)
	}

	want := "  Sprocket / Table / texturing/\n" +
		"    Jump to Tracker (disabled)\n" +
		"  ---\n" +
		"  Publish...\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
}

func TestRenderCheckLine(t *testing.T) {
	line := renderCheckLine("Publish directory", true, "/mnt/publish (read/write ok)", false)
	if !strings.Contains(line, "[OK]") || !strings.Contains(line, "Publish directory") {
		t.Fatalf("line = %q", line)
	}

	line = renderCheckLine("State directory", false, "missing", false)
	if !strings.Contains(line, "[FAIL]") {
		t.Fatalf("line = %q", line)
	}
}
