// Package collector walks the host session and produces the tree of
// publishable items: the session itself plus one item per texture set.
package collector

import (
	"errors"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"easel/internal/host"
)

// Item types produced by Collect.
const (
	ItemSession    = "painter.session"
	ItemTextureSet = "painter.textureset"
)

// ErrNoSession is returned when no project is open to collect from.
var ErrNoSession = errors.New("collector: no project open")

// Item is one node of the publishable item tree.
type Item struct {
	Type        string
	DisplayName string

	// Path is the project file path. Only set on session items, and empty
	// while the session has never been saved.
	Path string

	// SetName and RootPaths identify the texture set and its export
	// selectors. Only set on texture set items.
	SetName   string
	RootPaths []string

	Children []*Item
}

// Collect inspects the host session and returns the item tree rooted at the
// session item. Texture sets appear as children in host order.
func Collect(h host.Host) (*Item, error) {
	if !h.ProjectIsOpen() {
		return nil, ErrNoSession
	}

	path := host.ProjectFilePath(h)
	session := &Item{
		Type:        ItemSession,
		DisplayName: sessionDisplayName(path),
		Path:        path,
	}

	sets, err := h.TextureSets()
	if err != nil {
		return nil, err
	}
	for _, set := range sets {
		session.Children = append(session.Children, &Item{
			Type:        ItemTextureSet,
			DisplayName: displayTitle(set.Name),
			SetName:     set.Name,
			RootPaths:   rootPaths(set),
		})
	}
	return session, nil
}

func sessionDisplayName(path string) string {
	if path == "" {
		return "Unsaved Session"
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return displayTitle(base)
}

// rootPaths returns the export selectors for a texture set: the bare set
// name for single-stack sets, one "<set>/<stack>" selector per stack
// otherwise.
func rootPaths(set host.TextureSet) []string {
	if len(set.Stacks) == 0 {
		return []string{set.Name}
	}
	paths := make([]string, 0, len(set.Stacks))
	for _, stack := range set.Stacks {
		paths = append(paths, set.Name+"/"+stack)
	}
	return paths
}

// displayTitle turns a filesystem-style name into a readable title.
func displayTitle(name string) string {
	cleaned := strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(name)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return name
	}
	return cases.Title(language.Und).String(cleaned)
}
