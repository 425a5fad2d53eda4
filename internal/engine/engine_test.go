package engine_test

import (
	"os"
	"path/filepath"
	"testing"

	"easel/internal/commands"
	"easel/internal/config"
	"easel/internal/engine"
	"easel/internal/host/hostfake"
	"easel/internal/templates"
	"easel/internal/testsupport"
	"easel/internal/workctx"
)

var testContext = workctx.Context{Project: "Sprocket", Entity: "Table", Task: "texturing"}

type fixture struct {
	cfg    *config.Config
	fake   *hostfake.Fake
	engine *engine.Engine
}

func newFixture(t *testing.T, opts ...testsupport.ConfigOption) *fixture {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	set, err := templates.LoadSet(cfg.Templates)
	if err != nil {
		t.Fatalf("LoadSet failed: %v", err)
	}
	resolver, err := workctx.NewResolver(cfg, set)
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}

	fake := hostfake.New()
	eng, err := engine.New(cfg, fake, fake.Events, resolver, set, nil)
	if err != nil {
		t.Fatalf("engine.New failed: %v", err)
	}
	return &fixture{cfg: cfg, fake: fake, engine: eng}
}

func (f *fixture) workFile(t *testing.T, project, entity, task string) string {
	t.Helper()

	dir := filepath.Join(f.cfg.Paths.ProjectsDir, project, "assets", entity, task, "work", "painter")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir work area: %v", err)
	}
	return filepath.Join(dir, "scene.spp")
}

func TestStartResolvesContextFromOpenProject(t *testing.T) {
	f := newFixture(t)
	f.fake.Open = true
	f.fake.Path = f.workFile(t, "Sprocket", "Table", "texturing")

	if err := f.engine.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer f.engine.Stop()

	if got := f.engine.Context(); got != testContext {
		t.Fatalf("Context = %+v, want %+v", got, testContext)
	}

	root := f.engine.Menu()
	if root == nil {
		t.Fatal("menu not built")
	}
	if root.FindSubmenu(testContext.String()) == nil {
		t.Fatal("context submenu missing from menu")
	}
}

func TestStartWithoutProjectBuildsNoContextMenu(t *testing.T) {
	f := newFixture(t)

	if err := f.engine.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer f.engine.Stop()

	if !f.engine.Context().IsZero() {
		t.Fatalf("Context = %+v, want zero", f.engine.Context())
	}
	if f.engine.Menu().FindSubmenu("No Context") == nil {
		t.Fatal("No Context submenu missing")
	}
}

func TestProjectEventSwitchesContext(t *testing.T) {
	f := newFixture(t)
	if err := f.engine.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer f.engine.Stop()

	workFile := f.workFile(t, "Sprocket", "Table", "texturing")
	if err := f.fake.OpenProject(workFile); err != nil {
		t.Fatalf("OpenProject failed: %v", err)
	}

	if got := f.engine.Context(); got != testContext {
		t.Fatalf("Context = %+v, want %+v", got, testContext)
	}
	if f.engine.Menu().FindSubmenu(testContext.String()) == nil {
		t.Fatal("menu not rebuilt for new context")
	}
}

func TestAutomaticContextSwitchCanBeDisabled(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) {
		cfg.Menu.AutomaticContextSwitch = false
	})
	if err := f.engine.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer f.engine.Stop()

	if err := f.fake.OpenProject(f.workFile(t, "Sprocket", "Table", "texturing")); err != nil {
		t.Fatalf("OpenProject failed: %v", err)
	}
	if !f.engine.Context().IsZero() {
		t.Fatalf("context switched despite disabled setting: %+v", f.engine.Context())
	}
}

func TestStopUnsubscribesFromEvents(t *testing.T) {
	f := newFixture(t)
	if err := f.engine.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	f.engine.Stop()

	if err := f.fake.OpenProject(f.workFile(t, "Sprocket", "Table", "texturing")); err != nil {
		t.Fatalf("OpenProject failed: %v", err)
	}
	if !f.engine.Context().IsZero() {
		t.Fatalf("stopped engine still reacted to events: %+v", f.engine.Context())
	}
}

func TestStartupCommandsRun(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) {
		cfg.Menu.RunAtStartup = []config.CommandRef{
			{AppInstance: "workfiles"},
			{AppInstance: "gone", Name: "Missing"},
		}
	})

	var ran []string
	record := func(name string) func() error {
		return func() error {
			ran = append(ran, name)
			return nil
		}
	}
	f.engine.RegisterCommand("Open Work Area", commands.Entry{
		Callback:   record("Open Work Area"),
		Properties: commands.Properties{AppInstance: "workfiles", AppDisplayName: "Work Files"},
	})
	f.engine.RegisterCommand("Save Snapshot", commands.Entry{
		Callback:   record("Save Snapshot"),
		Properties: commands.Properties{AppInstance: "workfiles", AppDisplayName: "Work Files"},
	})
	f.engine.RegisterCommand("Publish...", commands.Entry{
		Callback:   record("Publish..."),
		Properties: commands.Properties{AppInstance: "publish", AppDisplayName: "Publisher"},
	})

	if err := f.engine.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer f.engine.Stop()

	want := []string{"Open Work Area", "Save Snapshot"}
	if len(ran) != len(want) {
		t.Fatalf("ran = %v, want %v", ran, want)
	}
	for i := range want {
		if ran[i] != want[i] {
			t.Fatalf("ran = %v, want %v", ran, want)
		}
	}
}

func TestChangeContextRebuildsMenu(t *testing.T) {
	f := newFixture(t)
	if err := f.engine.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer f.engine.Stop()

	next := workctx.Context{Project: "Gears", Entity: "Cog", Task: "surfacing"}
	if err := f.engine.ChangeContext(next); err != nil {
		t.Fatalf("ChangeContext failed: %v", err)
	}
	if f.engine.Menu().FindSubmenu(next.String()) == nil {
		t.Fatal("menu missing new context submenu")
	}
}

func TestRegisteredCommandsAppearInMenu(t *testing.T) {
	f := newFixture(t)
	f.engine.RegisterCommand("Publish...", commands.Entry{
		Properties: commands.Properties{AppInstance: "publish", AppDisplayName: "Publisher"},
	})

	if err := f.engine.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer f.engine.Stop()

	found := false
	for _, leaf := range f.engine.Menu().Leaves() {
		if leaf.Label == "Publish..." {
			found = true
		}
	}
	if !found {
		t.Fatal("registered command missing from menu root")
	}
}
