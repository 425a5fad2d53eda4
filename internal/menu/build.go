package menu

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"easel/internal/commands"
)

// ErrEmptyCommandName is returned when a registered command has a name that
// yields no menu path segments.
var ErrEmptyCommandName = errors.New("menu: command name has no path segments")

// Bucket label for commands whose owning app is unknown.
const otherItemsLabel = "Other Items"

// Context node action labels.
const (
	jumpToTrackerLabel    = "Jump to Tracker"
	jumpToFilesystemLabel = "Jump to File System"
)

// Favorite identifies a command to promote to the top of the menu.
type Favorite struct {
	AppInstance string
	Name        string
}

// ContextInfo describes the current production context shown at the top of
// the menu.
type ContextInfo struct {
	// Label is the display string for the context submenu, e.g.
	// "Sprocket / Table / texturing". Empty means no context is resolved.
	Label string
	// TrackerURL is the context page on the tracking site, used by the
	// "Jump to Tracker" action.
	TrackerURL string
	// FilesystemLocations are the on-disk work areas for the context. The
	// "Jump to File System" action is only added when at least one exists.
	FilesystemLocations []string
	// JumpToTracker and JumpToFilesystem are the callbacks wired onto the
	// fixed context actions. Nil callbacks produce disabled entries.
	JumpToTracker    func() error
	JumpToFilesystem func() error
}

// Options bundles everything Build needs besides the command list.
type Options struct {
	// MenuName labels the root node.
	MenuName string
	Context  ContextInfo
	// Favorites are attached directly under the root in configured order.
	Favorites []Favorite
	// Logger receives skipped-favorite notices. Nil disables logging.
	Logger *slog.Logger
}

// Build assembles the menu tree from a sorted command list.
//
// The layout, top to bottom: the context submenu, a separator, the
// configured favorites, a separator, then the remaining commands grouped by
// owning app. Apps with a single command surface it at the root; apps with
// several get a submenu. Commands typed context_menu land inside the context
// submenu instead. Rebuilding from the same input always produces a
// structurally identical tree.
func Build(cmds []*commands.Command, opts Options) (*Node, error) {
	for _, cmd := range cmds {
		if len(splitName(cmd.Name)) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrEmptyCommandName, cmd.Name)
		}
	}

	root := &Node{Label: opts.MenuName}

	ctxNode := buildContextNode(root, opts.Context)
	root.AddSeparator()

	for _, fav := range opts.Favorites {
		cmd := commands.FindFavorite(cmds, fav.AppInstance, fav.Name)
		if cmd == nil {
			if opts.Logger != nil {
				opts.Logger.Debug("favorite not found, skipping",
					"app_instance", fav.AppInstance, "name", fav.Name)
			}
			continue
		}
		if cmd.Type() == commands.TypeContextMenu {
			// Context commands always live under the context node.
			continue
		}
		attach(root, cmd)
	}
	root.AddSeparator()

	byApp := make(map[string][]*commands.Command)
	for _, cmd := range cmds {
		if cmd.Type() == commands.TypeContextMenu {
			attach(ctxNode, cmd)
			continue
		}
		if cmd.Favorite {
			continue
		}
		appName := cmd.AppName()
		if appName == "" {
			appName = otherItemsLabel
		}
		byApp[appName] = append(byApp[appName], cmd)
	}

	appNames := make([]string, 0, len(byApp))
	for name := range byApp {
		appNames = append(appNames, name)
	}
	sort.Strings(appNames)

	for _, appName := range appNames {
		group := byApp[appName]
		if len(group) > 1 {
			sub := root.AddSubmenu(appName)
			// The input list is sorted by name, and the partition above
			// preserves that order within each group.
			for _, cmd := range group {
				attach(sub, cmd)
			}
			continue
		}
		attach(root, group[0])
	}

	return root, nil
}

func buildContextNode(root *Node, info ContextInfo) *Node {
	label := info.Label
	if label == "" {
		label = "No Context"
	}
	ctxNode := root.AddSubmenu(label)

	ctxNode.AddLeaf(&Leaf{
		Label:    jumpToTrackerLabel,
		Tooltip:  info.TrackerURL,
		Enabled:  info.JumpToTracker != nil,
		Callback: info.JumpToTracker,
	})
	if len(info.FilesystemLocations) > 0 {
		ctxNode.AddLeaf(&Leaf{
			Label:    jumpToFilesystemLabel,
			Tooltip:  strings.Join(info.FilesystemLocations, "\n"),
			Enabled:  info.JumpToFilesystem != nil,
			Callback: info.JumpToFilesystem,
		})
	}
	// Context commands registered by apps are appended below this divider.
	ctxNode.AddSeparator()

	return ctxNode
}

// attach places a command under parent, expanding '/' separators in the name
// into nested submenus. Intermediate segments reuse an existing submenu with
// the same label at that level; the final segment becomes the leaf.
func attach(parent *Node, cmd *commands.Command) {
	segments := splitName(cmd.Name)
	node := parent
	for _, label := range segments[:len(segments)-1] {
		sub := node.FindSubmenu(label)
		if sub == nil {
			sub = node.AddSubmenu(label)
		}
		node = sub
	}
	node.AddLeaf(&Leaf{
		Label:    segments[len(segments)-1],
		Tooltip:  cmd.Properties.Tooltip,
		Enabled:  cmd.IsEnabled(),
		Callback: cmd.Callback,
	})
}

func splitName(name string) []string {
	var segments []string
	for _, segment := range strings.Split(name, "/") {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		segments = append(segments, segment)
	}
	return segments
}
