// Package hostfake provides an in-memory Host implementation for tests.
package hostfake

import (
	"errors"
	"sync"

	"easel/internal/host"
)

// Fake implements host.Host with settable state and recorded calls. The
// zero value behaves like a host with no project open; use New to get one
// with an attached event dispatcher.
type Fake struct {
	mu sync.Mutex

	// Settable state.
	Open         bool
	Path         string
	NeedsSaving  bool
	Sets         []host.TextureSet
	ExportOutput map[string][]string
	AppVersion   string

	// Err, when set, is returned by every fallible call. Useful for
	// exercising error paths without per-method knobs.
	Err error

	// Recorded calls.
	OpenedPaths  []string
	SavedModes   []host.SaveMode
	SavedAsPaths []string
	CloseCalls   int
	Created      []host.ProjectSettings
	Exports      []host.ExportRequest

	// Events delivers project lifecycle notifications.
	Events *host.Dispatcher
}

// New returns a Fake with a dispatcher attached.
func New() *Fake {
	return &Fake{Events: host.NewDispatcher(), AppVersion: "11.0.0"}
}

var _ host.Host = (*Fake)(nil)

func (f *Fake) ProjectIsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Open
}

func (f *Fake) ProjectPath() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.Open {
		return ""
	}
	return f.Path
}

func (f *Fake) ProjectNeedsSaving() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.NeedsSaving
}

func (f *Fake) OpenProject(path string) error {
	f.mu.Lock()
	if f.Err != nil {
		defer f.mu.Unlock()
		return f.Err
	}
	f.OpenedPaths = append(f.OpenedPaths, path)
	f.Open = true
	f.Path = path
	f.NeedsSaving = false
	f.mu.Unlock()

	f.dispatch(host.Event{Kind: host.ProjectOpened, Path: path})
	return nil
}

func (f *Fake) SaveProject(mode host.SaveMode) error {
	f.mu.Lock()
	if f.Err != nil {
		defer f.mu.Unlock()
		return f.Err
	}
	if !f.Open {
		f.mu.Unlock()
		return errors.New("hostfake: no project open")
	}
	f.SavedModes = append(f.SavedModes, mode)
	f.NeedsSaving = false
	path := f.Path
	f.mu.Unlock()

	f.dispatch(host.Event{Kind: host.ProjectSaved, Path: path})
	return nil
}

func (f *Fake) SaveProjectAs(path string, mode host.SaveMode) error {
	f.mu.Lock()
	if f.Err != nil {
		defer f.mu.Unlock()
		return f.Err
	}
	f.SavedAsPaths = append(f.SavedAsPaths, path)
	f.SavedModes = append(f.SavedModes, mode)
	f.Open = true
	f.Path = path
	f.NeedsSaving = false
	f.mu.Unlock()

	f.dispatch(host.Event{Kind: host.ProjectSaved, Path: path})
	return nil
}

func (f *Fake) CloseProject() error {
	f.mu.Lock()
	if f.Err != nil {
		defer f.mu.Unlock()
		return f.Err
	}
	f.CloseCalls++
	path := f.Path
	f.Open = false
	f.Path = ""
	f.NeedsSaving = false
	f.mu.Unlock()

	f.dispatch(host.Event{Kind: host.ProjectClosed, Path: path})
	return nil
}

func (f *Fake) CreateProject(settings host.ProjectSettings) error {
	f.mu.Lock()
	if f.Err != nil {
		defer f.mu.Unlock()
		return f.Err
	}
	f.Created = append(f.Created, settings)
	f.Open = true
	f.Path = settings.TemplatePath
	f.NeedsSaving = true
	f.mu.Unlock()

	f.dispatch(host.Event{Kind: host.ProjectCreated, Path: settings.TemplatePath})
	return nil
}

func (f *Fake) TextureSets() ([]host.TextureSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	sets := make([]host.TextureSet, len(f.Sets))
	copy(sets, f.Sets)
	return sets, nil
}

func (f *Fake) ExportTextures(req host.ExportRequest) (host.ExportResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return host.ExportResult{}, f.Err
	}
	f.Exports = append(f.Exports, req)
	return host.ExportResult{Textures: f.ExportOutput}, nil
}

func (f *Fake) Version() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AppVersion == "" {
		return "unknown"
	}
	return f.AppVersion
}

func (f *Fake) dispatch(ev host.Event) {
	if f.Events != nil {
		f.Events.Dispatch(ev)
	}
}
