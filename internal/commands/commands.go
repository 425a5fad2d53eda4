// Package commands models the set of pipeline commands registered for a
// session. Registered apps supply a map of command name to callback plus
// metadata; the registry turns that into an ordered command list the menu
// builder consumes. Command names may contain '/' separators that the menu
// builder expands into nested submenus.
package commands

import "sort"

// Command types recognized by the menu builder.
const (
	TypeDefault     = "default"
	TypeContextMenu = "context_menu"
)

// Properties carries the optional metadata an app attaches to a command.
type Properties struct {
	// AppInstance is the configured instance name of the owning app,
	// e.g. "multi-publish". Empty for unparented commands.
	AppInstance string
	// AppDisplayName is the human-readable name of the owning app, used as
	// the submenu label when an app registers several commands.
	AppDisplayName string
	// Type is TypeDefault or TypeContextMenu. Empty means TypeDefault.
	Type    string
	Tooltip string
	// Enabled reports whether the command is currently invocable. Nil means
	// always enabled.
	Enabled func() bool
}

// Entry is one externally supplied registration.
type Entry struct {
	Callback   func() error
	Properties Properties
}

// Command is one invocable pipeline action. Commands are rebuilt from the
// registration map every time the menu is regenerated, so enable state and
// favorite flags never go stale.
type Command struct {
	Name       string
	Callback   func() error
	Properties Properties
	Favorite   bool
}

// Type returns the command type, defaulting to TypeDefault.
func (c *Command) Type() string {
	if c.Properties.Type == "" {
		return TypeDefault
	}
	return c.Properties.Type
}

// AppName returns the display name of the owning app, or "" when unparented.
func (c *Command) AppName() string {
	return c.Properties.AppDisplayName
}

// IsEnabled evaluates the enable predicate, treating nil as enabled.
func (c *Command) IsEnabled() bool {
	if c.Properties.Enabled == nil {
		return true
	}
	return c.Properties.Enabled()
}

// Build converts a registration map into a command list sorted
// lexicographically by name. The output contains exactly one command per
// entry and Build never mutates its input.
func Build(entries map[string]Entry) []*Command {
	cmds := make([]*Command, 0, len(entries))
	for name, entry := range entries {
		cmds = append(cmds, &Command{
			Name:       name,
			Callback:   entry.Callback,
			Properties: entry.Properties,
		})
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// FindFavorite returns the first command owned by appInstance whose name
// equals name, marking it as a favorite. A miss returns nil; it is never an
// error, favorites that reference unknown commands are simply skipped.
func FindFavorite(cmds []*Command, appInstance, name string) *Command {
	for _, cmd := range cmds {
		if cmd.Properties.AppInstance == appInstance && cmd.Name == name {
			cmd.Favorite = true
			return cmd
		}
	}
	return nil
}
