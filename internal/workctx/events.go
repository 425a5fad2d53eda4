package workctx

import (
	"errors"
	"log/slog"
	"path/filepath"

	"easel/internal/host"
)

// HandleProjectEvent decides whether a project lifecycle event moves the
// session to a new context. It returns the new context and true when a
// switch should happen; in every other case it returns the current context
// unchanged and false.
//
// Close events, template-backed projects, and paths that do not resolve all
// leave the context alone. Resolution misses are reported on the logger but
// never fail.
func HandleProjectEvent(ev host.Event, current Context, r *Resolver, logger *slog.Logger) (Context, bool) {
	switch ev.Kind {
	case host.ProjectOpened, host.ProjectCreated, host.ProjectSaved:
	default:
		return current, false
	}

	if ev.Path == "" {
		return current, false
	}
	if filepath.Ext(ev.Path) == host.TemplateExtension {
		// Unsaved projects report their creation template path.
		return current, false
	}

	next, err := r.FromPath(ev.Path)
	if err != nil {
		if logger != nil {
			if errors.Is(err, ErrNoContext) {
				logger.Warn("project file does not belong to a known work area",
					"path", ev.Path)
			} else {
				logger.Warn("context resolution failed", "path", ev.Path, "error", err)
			}
		}
		return current, false
	}

	if next == current {
		return current, false
	}
	return next, true
}
