// Package engine owns a running integration session: the registered
// commands, the current context, and the menu tree built from both. It
// reacts to host project events by switching context and rebuilding the
// menu.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"easel/internal/commands"
	"easel/internal/config"
	"easel/internal/host"
	"easel/internal/logging"
	"easel/internal/menu"
	"easel/internal/templates"
	"easel/internal/workctx"
)

// Engine coordinates commands, context, and the menu for one host session.
type Engine struct {
	cfg      *config.Config
	logger   *slog.Logger
	host     host.Host
	events   *host.Dispatcher
	resolver *workctx.Resolver
	set      templates.Set

	// OpenURL and OpenDirectory are invoked by the context menu's jump
	// actions. Nil hooks leave the corresponding action disabled.
	OpenURL       func(url string) error
	OpenDirectory func(path string) error

	mu       sync.Mutex
	entries  map[string]commands.Entry
	current  workctx.Context
	menuRoot *menu.Node
	subID    int
	running  bool
}

// New constructs an engine. The events dispatcher may be nil when the host
// cannot deliver project notifications; automatic context switching is then
// unavailable.
func New(cfg *config.Config, h host.Host, events *host.Dispatcher, resolver *workctx.Resolver, set templates.Set, logger *slog.Logger) (*Engine, error) {
	if cfg == nil || h == nil || resolver == nil {
		return nil, errors.New("engine requires config, host, and resolver")
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Engine{
		cfg:      cfg,
		logger:   logger.With("component", "engine"),
		host:     h,
		events:   events,
		resolver: resolver,
		set:      set,
		entries:  make(map[string]commands.Entry),
		subID:    -1,
	}, nil
}

// RegisterCommand adds or replaces a command registration. The menu is
// rebuilt on the next Start or ChangeContext, or explicitly via Rebuild.
func (e *Engine) RegisterCommand(name string, entry commands.Entry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries[name] = entry
}

// Start resolves the initial context from any open project, builds the menu,
// subscribes to project events, and runs the configured startup commands.
func (e *Engine) Start() error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return errors.New("engine already started")
	}
	e.running = true

	if path := host.ProjectFilePath(e.host); path != "" {
		if ctx, err := e.resolver.FromPath(path); err == nil {
			e.current = ctx
		} else if !errors.Is(err, workctx.ErrNoContext) {
			e.mu.Unlock()
			return err
		}
	}

	if err := e.rebuildLocked(); err != nil {
		e.running = false
		e.mu.Unlock()
		return err
	}

	if e.events != nil {
		e.subID = e.events.Subscribe(e.onProjectEvent)
	}
	current := e.current
	e.mu.Unlock()

	e.logger.Info("engine started",
		"context", current.String(), "host_version", e.host.Version())

	return e.runStartupCommands()
}

// Stop unsubscribes from host events. The engine can be started again.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	if e.events != nil && e.subID >= 0 {
		e.events.Unsubscribe(e.subID)
		e.subID = -1
	}
	e.running = false
	e.logger.Info("engine stopped")
}

// Context returns the current context.
func (e *Engine) Context() workctx.Context {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Menu returns the most recently built menu tree.
func (e *Engine) Menu() *menu.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.menuRoot
}

// ChangeContext switches to a new context and rebuilds the menu.
func (e *Engine) ChangeContext(c workctx.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	previous := e.current
	e.current = c
	if err := e.rebuildLocked(); err != nil {
		e.current = previous
		return err
	}
	e.logger.Info("context changed", "from", previous.String(), "to", c.String())
	return nil
}

// Rebuild regenerates the menu from the current registrations and context.
func (e *Engine) Rebuild() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rebuildLocked()
}

func (e *Engine) rebuildLocked() error {
	cmds := commands.Build(e.entries)

	favorites := make([]menu.Favorite, 0, len(e.cfg.Menu.Favorites))
	for _, ref := range e.cfg.Menu.Favorites {
		favorites = append(favorites, menu.Favorite{AppInstance: ref.AppInstance, Name: ref.Name})
	}

	info := menu.ContextInfo{}
	if !e.current.IsZero() {
		info.Label = e.current.String()
		info.TrackerURL = e.resolver.TrackerURL(e.current)
		info.FilesystemLocations = e.resolver.FilesystemLocations(e.current)
		if info.TrackerURL != "" && e.OpenURL != nil {
			url := info.TrackerURL
			info.JumpToTracker = func() error { return e.OpenURL(url) }
		}
		if len(info.FilesystemLocations) > 0 && e.OpenDirectory != nil {
			location := info.FilesystemLocations[0]
			info.JumpToFilesystem = func() error { return e.OpenDirectory(location) }
		}
	}

	root, err := menu.Build(cmds, menu.Options{
		MenuName:  e.cfg.Menu.Name,
		Context:   info,
		Favorites: favorites,
		Logger:    e.logger,
	})
	if err != nil {
		return fmt.Errorf("build menu: %w", err)
	}
	e.menuRoot = root
	return nil
}

// onProjectEvent switches context when a project event resolves to a new
// one. Disabled by the automatic_context_switch setting.
func (e *Engine) onProjectEvent(ev host.Event) {
	if !e.cfg.Menu.AutomaticContextSwitch {
		return
	}

	e.mu.Lock()
	current := e.current
	e.mu.Unlock()

	next, ok := workctx.HandleProjectEvent(ev, current, e.resolver, e.logger)
	if !ok {
		return
	}
	if err := e.ChangeContext(next); err != nil {
		e.logger.Error("automatic context switch failed",
			"event", string(ev.Kind), "path", ev.Path, "error", err)
	}
}

// runStartupCommands executes the configured run_at_startup references. A
// reference with an empty name runs every command of its app instance.
// Unknown references are logged and skipped.
func (e *Engine) runStartupCommands() error {
	e.mu.Lock()
	cmds := commands.Build(e.entries)
	refs := e.cfg.Menu.RunAtStartup
	e.mu.Unlock()

	for _, ref := range refs {
		matched := false
		for _, cmd := range cmds {
			if cmd.Properties.AppInstance != ref.AppInstance {
				continue
			}
			if ref.Name != "" && cmd.Name != ref.Name {
				continue
			}
			matched = true
			if cmd.Callback == nil {
				continue
			}
			e.logger.Info("running startup command",
				"app_instance", ref.AppInstance, "name", cmd.Name)
			if err := cmd.Callback(); err != nil {
				e.logger.Error("startup command failed",
					"app_instance", ref.AppInstance, "name", cmd.Name, "error", err)
			}
		}
		if !matched {
			e.logger.Warn("startup command reference matches nothing",
				"app_instance", ref.AppInstance, "name", ref.Name)
		}
	}
	return nil
}
