// Package sceneop implements the named scene operations other tools invoke
// against the host application: querying the current path, opening, saving,
// resetting, and preparing new projects.
package sceneop

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"easel/internal/config"
	"easel/internal/fileutil"
	"easel/internal/host"
	"easel/internal/logging"
	"easel/internal/templates"
	"easel/internal/workctx"
)

// Operation names the scene operations a caller can request.
type Operation string

const (
	OpCurrentPath Operation = "current_path"
	OpOpen        Operation = "open"
	OpSave        Operation = "save"
	OpSaveAs      Operation = "save_as"
	OpReset       Operation = "reset"
	OpPrepareNew  Operation = "prepare_new"
)

// ErrUnknownOperation is returned for operation names Execute does not know.
var ErrUnknownOperation = errors.New("sceneop: unknown operation")

// ErrNoProject is returned when an operation needs an open project and none is.
var ErrNoProject = errors.New("sceneop: no project open")

// Request carries the parameters of one operation.
type Request struct {
	// Path is the file to open or save to, depending on the operation.
	Path string
	// Context supplies template fields for prepare_new.
	Context workctx.Context
	// NewProject seeds project creation for prepare_new. The export path is
	// filled in from the texture_export_area template when empty.
	NewProject host.ProjectSettings
}

// Result reports what an operation did.
type Result struct {
	// Path is the current project path after the operation.
	Path string
	// Reset reports that the scene was cleared.
	Reset bool
}

// Runner executes scene operations against a host.
type Runner struct {
	Host        host.Host
	Set         templates.Set
	ProjectsDir string
	// Confirm is consulted before discarding unsaved changes. A nil Confirm
	// never discards.
	Confirm func(prompt string) bool
	Logger  *slog.Logger
}

// NewRunner builds a runner with defaults filled in.
func NewRunner(h host.Host, cfg *config.Config, set templates.Set, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Runner{
		Host:        h,
		Set:         set,
		ProjectsDir: cfg.Paths.ProjectsDir,
		Logger:      logger.With("component", "sceneop"),
	}
}

// Execute runs one named operation.
func (r *Runner) Execute(op Operation, req Request) (Result, error) {
	switch op {
	case OpCurrentPath:
		return Result{Path: host.ProjectFilePath(r.Host)}, nil
	case OpOpen:
		return r.open(req)
	case OpSave:
		return r.save()
	case OpSaveAs:
		return r.saveAs(req)
	case OpReset:
		return r.reset()
	case OpPrepareNew:
		return r.prepareNew(req)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
}

func (r *Runner) open(req Request) (Result, error) {
	if strings.TrimSpace(req.Path) == "" {
		return Result{}, errors.New("sceneop: open requires a path")
	}
	if err := r.Host.OpenProject(req.Path); err != nil {
		return Result{}, fmt.Errorf("open project: %w", err)
	}
	r.Logger.Info("opened project", "path", req.Path)
	return Result{Path: req.Path}, nil
}

func (r *Runner) save() (Result, error) {
	if !r.Host.ProjectIsOpen() {
		return Result{}, ErrNoProject
	}
	if err := r.Host.SaveProject(host.SaveFull); err != nil {
		return Result{}, fmt.Errorf("save project: %w", err)
	}
	path := host.ProjectFilePath(r.Host)
	r.Logger.Info("saved project", "path", path)
	return Result{Path: path}, nil
}

func (r *Runner) saveAs(req Request) (Result, error) {
	if strings.TrimSpace(req.Path) == "" {
		return Result{}, errors.New("sceneop: save_as requires a path")
	}
	if !r.Host.ProjectIsOpen() {
		return Result{}, ErrNoProject
	}
	if err := fileutil.EnsureDir(filepath.Dir(req.Path)); err != nil {
		return Result{}, err
	}
	if err := r.Host.SaveProjectAs(req.Path, host.SaveFull); err != nil {
		return Result{}, fmt.Errorf("save project as: %w", err)
	}
	r.Logger.Info("saved project", "path", req.Path)
	return Result{Path: req.Path}, nil
}

// reset clears the scene so a new project can be created. Unsaved changes
// are saved first when the user confirms; without confirmation the reset is
// refused rather than losing work.
func (r *Runner) reset() (Result, error) {
	if !r.Host.ProjectIsOpen() {
		return Result{Reset: true}, nil
	}

	if r.Host.ProjectNeedsSaving() {
		savable := host.ProjectFilePath(r.Host) != ""
		confirmed := false
		if r.Confirm != nil {
			prompt := "The current project has unsaved changes. Save and close it?"
			if !savable {
				prompt = "The current project has never been saved and will be lost. Close it?"
			}
			confirmed = r.Confirm(prompt)
		}
		if !confirmed {
			return Result{}, errors.New("sceneop: reset cancelled, project has unsaved changes")
		}
		if savable {
			if err := r.Host.SaveProject(host.SaveFull); err != nil {
				return Result{}, fmt.Errorf("save before reset: %w", err)
			}
		}
	}

	if err := r.Host.CloseProject(); err != nil {
		return Result{}, fmt.Errorf("close project: %w", err)
	}
	r.Logger.Info("reset scene")
	return Result{Reset: true}, nil
}

// prepareNew creates a project preconfigured for the given context: the
// texture export path points into the context's export area so the publish
// flow can find exported files later.
func (r *Runner) prepareNew(req Request) (Result, error) {
	if req.Context.IsZero() {
		return Result{}, errors.New("sceneop: prepare_new requires a context")
	}

	settings := req.NewProject
	if settings.ExportPath == "" {
		tpl, err := r.Set.Get(config.TemplateTextureExportArea)
		if err != nil {
			return Result{}, err
		}
		rendered, err := tpl.Apply(req.Context.Fields())
		if err != nil {
			return Result{}, err
		}
		settings.ExportPath = filepath.Join(r.ProjectsDir, filepath.FromSlash(rendered))
	}
	if err := fileutil.EnsureDir(settings.ExportPath); err != nil {
		return Result{}, err
	}

	if err := r.Host.CreateProject(settings); err != nil {
		return Result{}, fmt.Errorf("create project: %w", err)
	}
	r.Logger.Info("created project",
		"context", req.Context.String(), "export_path", settings.ExportPath)
	return Result{Path: r.Host.ProjectPath()}, nil
}
