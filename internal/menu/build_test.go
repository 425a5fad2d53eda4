package menu_test

import (
	"errors"
	"reflect"
	"testing"

	"easel/internal/commands"
	"easel/internal/menu"
)

func buildCommands(t *testing.T, entries map[string]commands.Entry) []*commands.Command {
	t.Helper()
	return commands.Build(entries)
}

func childLabels(n *menu.Node) []string {
	labels := make([]string, 0, len(n.Children))
	for _, child := range n.Children {
		switch child.Kind {
		case menu.KindSubmenu:
			labels = append(labels, child.Node.Label+"/")
		case menu.KindLeaf:
			labels = append(labels, child.Leaf.Label)
		case menu.KindSeparator:
			labels = append(labels, "---")
		}
	}
	return labels
}

func TestBuildLayout(t *testing.T) {
	cmds := buildCommands(t, map[string]commands.Entry{
		"Publish...": {Properties: commands.Properties{
			AppInstance: "publish", AppDisplayName: "Publisher",
		}},
		"Load...": {Properties: commands.Properties{
			AppInstance: "loader", AppDisplayName: "Loader",
		}},
		"Manage References...": {Properties: commands.Properties{
			AppInstance: "loader", AppDisplayName: "Loader",
		}},
		"About": {Properties: commands.Properties{
			AppInstance: "easel", AppDisplayName: "Easel",
		}},
	})

	root, err := menu.Build(cmds, menu.Options{
		MenuName: "Pipeline",
		Context:  menu.ContextInfo{Label: "Sprocket / Table / texturing"},
		Favorites: []menu.Favorite{
			{AppInstance: "publish", Name: "Publish..."},
		},
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if root.Label != "Pipeline" {
		t.Fatalf("root label = %q", root.Label)
	}

	want := []string{
		"Sprocket / Table / texturing/",
		"---",
		"Publish...",
		"---",
		"About",
		"Loader/",
	}
	if got := childLabels(root); !reflect.DeepEqual(got, want) {
		t.Fatalf("root children = %v, want %v", got, want)
	}

	loader := root.FindSubmenu("Loader")
	if loader == nil {
		t.Fatal("Loader submenu missing")
	}
	if got := childLabels(loader); !reflect.DeepEqual(got, []string{"Load...", "Manage References..."}) {
		t.Fatalf("Loader children = %v", got)
	}
}

func TestBuildNoContext(t *testing.T) {
	root, err := menu.Build(nil, menu.Options{MenuName: "Pipeline"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	ctxNode := root.FindSubmenu("No Context")
	if ctxNode == nil {
		t.Fatalf("context node missing, children: %v", childLabels(root))
	}

	leaves := ctxNode.Leaves()
	if len(leaves) != 1 || leaves[0].Label != "Jump to Tracker" {
		t.Fatalf("context leaves = %+v", leaves)
	}
	if leaves[0].Enabled {
		t.Fatal("tracker jump should be disabled without a callback")
	}
}

func TestBuildFilesystemJumpRequiresLocations(t *testing.T) {
	open := func() error { return nil }

	root, err := menu.Build(nil, menu.Options{
		MenuName: "Pipeline",
		Context: menu.ContextInfo{
			Label:               "P / E / T",
			FilesystemLocations: []string{"/work/area"},
			JumpToFilesystem:    open,
		},
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	ctxNode := root.FindSubmenu("P / E / T")
	leaves := ctxNode.Leaves()
	if len(leaves) != 2 || leaves[1].Label != "Jump to File System" {
		t.Fatalf("context leaves = %+v", leaves)
	}
	if !leaves[1].Enabled {
		t.Fatal("filesystem jump should be enabled")
	}
}

func TestBuildContextMenuCommandsLandInContextNode(t *testing.T) {
	cmds := buildCommands(t, map[string]commands.Entry{
		"Work Area Info...": {Properties: commands.Properties{
			AppInstance: "workfiles", AppDisplayName: "Work Files",
			Type: commands.TypeContextMenu,
		}},
		"Publish...": {Properties: commands.Properties{
			AppInstance: "publish", AppDisplayName: "Publisher",
		}},
	})

	root, err := menu.Build(cmds, menu.Options{
		MenuName: "Pipeline",
		Context:  menu.ContextInfo{Label: "P / E / T"},
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	ctxNode := root.FindSubmenu("P / E / T")
	found := false
	for _, leaf := range ctxNode.Leaves() {
		if leaf.Label == "Work Area Info..." {
			found = true
		}
	}
	if !found {
		t.Fatalf("context command not under context node: %v", childLabels(ctxNode))
	}

	for _, label := range childLabels(root) {
		if label == "Work Area Info..." {
			t.Fatal("context command leaked to the root")
		}
	}
}

func TestBuildSlashNamesNestAndMerge(t *testing.T) {
	cmds := buildCommands(t, map[string]commands.Entry{
		"Textures/Export Settings...": {Properties: commands.Properties{
			AppInstance: "painter", AppDisplayName: "Painter Tools",
		}},
		"Textures/Validate Presets": {Properties: commands.Properties{
			AppInstance: "painter", AppDisplayName: "Painter Tools",
		}},
		"Reload": {Properties: commands.Properties{
			AppInstance: "painter", AppDisplayName: "Painter Tools",
		}},
	})

	root, err := menu.Build(cmds, menu.Options{MenuName: "Pipeline"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	app := root.FindSubmenu("Painter Tools")
	if app == nil {
		t.Fatal("app submenu missing")
	}
	textures := app.FindSubmenu("Textures")
	if textures == nil {
		t.Fatalf("shared prefix submenu missing: %v", childLabels(app))
	}
	got := childLabels(textures)
	want := []string{"Export Settings...", "Validate Presets"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Textures children = %v, want %v", got, want)
	}
}

func TestBuildSingleCommandFavoriteNotDuplicated(t *testing.T) {
	cmds := buildCommands(t, map[string]commands.Entry{
		"Publish...": {Properties: commands.Properties{
			AppInstance: "publish", AppDisplayName: "Publisher",
		}},
	})

	root, err := menu.Build(cmds, menu.Options{
		MenuName:  "Pipeline",
		Favorites: []menu.Favorite{{AppInstance: "publish", Name: "Publish..."}},
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	count := 0
	for _, label := range childLabels(root) {
		if label == "Publish..." {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("favorite appears %d times at the root, want 1", count)
	}
}

func TestBuildUnknownFavoriteSkipped(t *testing.T) {
	root, err := menu.Build(nil, menu.Options{
		MenuName:  "Pipeline",
		Favorites: []menu.Favorite{{AppInstance: "gone", Name: "Missing"}},
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for _, label := range childLabels(root) {
		if label == "Missing" {
			t.Fatal("unknown favorite rendered")
		}
	}
}

func TestBuildEmptyCommandName(t *testing.T) {
	cmds := buildCommands(t, map[string]commands.Entry{"///": {}})
	if _, err := menu.Build(cmds, menu.Options{MenuName: "Pipeline"}); !errors.Is(err, menu.ErrEmptyCommandName) {
		t.Fatalf("expected ErrEmptyCommandName, got %v", err)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	entries := map[string]commands.Entry{
		"Publish...": {Properties: commands.Properties{AppInstance: "publish", AppDisplayName: "Publisher"}},
		"Load...":    {Properties: commands.Properties{AppInstance: "loader", AppDisplayName: "Loader"}},
		"Export...":  {Properties: commands.Properties{AppInstance: "loader", AppDisplayName: "Loader"}},
		"About":      {},
	}
	opts := menu.Options{MenuName: "Pipeline", Context: menu.ContextInfo{Label: "P / E / T"}}

	first, err := menu.Build(commands.Build(entries), opts)
	if err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	second, err := menu.Build(commands.Build(entries), opts)
	if err != nil {
		t.Fatalf("second Build failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("repeated builds produced different trees")
	}
}

func TestBuildUnparentedCommandsBucketed(t *testing.T) {
	cmds := buildCommands(t, map[string]commands.Entry{
		"Mystery A": {},
		"Mystery B": {},
	})

	root, err := menu.Build(cmds, menu.Options{MenuName: "Pipeline"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	other := root.FindSubmenu("Other Items")
	if other == nil {
		t.Fatalf("Other Items bucket missing: %v", childLabels(root))
	}
	if got := childLabels(other); !reflect.DeepEqual(got, []string{"Mystery A", "Mystery B"}) {
		t.Fatalf("Other Items children = %v", got)
	}
}
