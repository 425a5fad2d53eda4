// Package workctx resolves and represents the current production context:
// which project, entity, and task a work file belongs to. The context drives
// the menu header, publish paths, and tracker links.
package workctx

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"easel/internal/config"
	"easel/internal/templates"
)

// Context identifies the production entity and task a file belongs to.
type Context struct {
	Project string
	Entity  string
	Task    string
}

// IsZero reports whether no context is resolved.
func (c Context) IsZero() bool {
	return c.Project == "" && c.Entity == "" && c.Task == ""
}

// String renders the display form used as the menu header.
func (c Context) String() string {
	if c.IsZero() {
		return "No Context"
	}
	return fmt.Sprintf("%s / %s / %s", c.Project, c.Entity, c.Task)
}

// Fields returns the context as template fields.
func (c Context) Fields() map[string]string {
	return map[string]string{
		"project": c.Project,
		"entity":  c.Entity,
		"task":    c.Task,
	}
}

// ErrNoContext is returned when a path cannot be resolved to a context.
var ErrNoContext = errors.New("workctx: path does not resolve to a context")

// Resolver maps project file paths onto contexts using the configured
// projects root and work-area template.
type Resolver struct {
	projectsDir string
	workArea    *templates.Template
	siteURL     string
}

// NewResolver builds a resolver from configuration and a parsed template
// set. The work_area template must be present in the set.
func NewResolver(cfg *config.Config, set templates.Set) (*Resolver, error) {
	workArea, err := set.Get(config.TemplateWorkArea)
	if err != nil {
		return nil, err
	}
	return &Resolver{
		projectsDir: cfg.Paths.ProjectsDir,
		workArea:    workArea,
		siteURL:     cfg.Tracker.SiteURL,
	}, nil
}

// FromPath resolves the context for a work file path. The path's directory
// must lie under the projects root and match the work-area template
// structure; anything else returns ErrNoContext.
func (r *Resolver) FromPath(path string) (Context, error) {
	if strings.TrimSpace(path) == "" {
		return Context{}, fmt.Errorf("%w: empty path", ErrNoContext)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return Context{}, fmt.Errorf("resolve absolute path: %w", err)
	}

	rel, err := filepath.Rel(r.projectsDir, filepath.Dir(abs))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return Context{}, fmt.Errorf("%w: %q is outside the projects root", ErrNoContext, path)
	}

	fields, err := r.workArea.MatchPrefix(rel)
	if err != nil {
		if errors.Is(err, templates.ErrNoMatch) {
			return Context{}, fmt.Errorf("%w: %q", ErrNoContext, path)
		}
		return Context{}, err
	}

	ctx := Context{
		Project: fields["project"],
		Entity:  fields["entity"],
		Task:    fields["task"],
	}
	if ctx.Project == "" || ctx.Entity == "" || ctx.Task == "" {
		return Context{}, fmt.Errorf("%w: work_area template does not capture project/entity/task", ErrNoContext)
	}
	return ctx, nil
}

// TrackerURL returns the context page on the tracking site, or "" when no
// site is configured or the context is unresolved.
func (r *Resolver) TrackerURL(c Context) string {
	if r.siteURL == "" || c.IsZero() {
		return ""
	}
	return strings.Join([]string{
		r.siteURL,
		url.PathEscape(c.Project),
		url.PathEscape(c.Entity),
		url.PathEscape(c.Task),
	}, "/")
}

// FilesystemLocations returns the on-disk work areas for the context that
// currently exist.
func (r *Resolver) FilesystemLocations(c Context) []string {
	if c.IsZero() {
		return nil
	}
	rendered, err := r.workArea.Apply(c.Fields())
	if err != nil {
		return nil
	}
	location := filepath.Join(r.projectsDir, filepath.FromSlash(rendered))
	if _, err := os.Stat(location); err != nil {
		return nil
	}
	return []string{location}
}

// WorkAreaPath renders the work area for a context without checking that it
// exists on disk.
func (r *Resolver) WorkAreaPath(c Context) (string, error) {
	rendered, err := r.workArea.Apply(c.Fields())
	if err != nil {
		return "", err
	}
	return filepath.Join(r.projectsDir, filepath.FromSlash(rendered)), nil
}

// ProjectsDir exposes the configured projects root.
func (r *Resolver) ProjectsDir() string {
	return r.projectsDir
}
