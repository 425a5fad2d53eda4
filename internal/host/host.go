// Package host models the painting application's scripting surface as a
// narrow interface. Everything easel needs from the host goes through Host,
// so the engine, scene operations, and publish flow stay testable against
// the fake in hostfake.
package host

import (
	"path/filepath"
	"sort"
)

// SaveMode selects how the host persists a project.
type SaveMode int

const (
	// SaveIncremental writes only the changes since the last save.
	SaveIncremental SaveMode = iota
	// SaveFull rewrites the whole project file.
	SaveFull
)

// TemplateExtension is the file extension of host project templates. A
// project created from a template reports the template path until it is
// saved, so such paths never carry context.
const TemplateExtension = ".spt"

// TextureSet is a named group of paintable material channels.
type TextureSet struct {
	Name string
	// Stacks lists the layer stacks of the set. Empty for single-stack sets.
	Stacks []string
}

// ProjectSettings configures project creation.
type ProjectSettings struct {
	MeshPath        string
	TemplatePath    string
	ExportPath      string
	Resolution      int
	NormalMapFormat string
	TangentSpace    string
	UVTileWorkflow  bool
	ImportCameras   bool
}

// ExportRequest asks the host to export textures for a set of root paths
// using a named export preset.
type ExportRequest struct {
	Path       string
	PresetName string
	// RootPaths are "<set>" or "<set>/<stack>" selectors.
	RootPaths []string
}

// ExportResult maps each exported stack to the files it produced.
type ExportResult struct {
	Textures map[string][]string
}

// Files flattens the per-stack lists in deterministic stack order.
func (r ExportResult) Files() []string {
	var stacks []string
	for stack := range r.Textures {
		stacks = append(stacks, stack)
	}
	sort.Strings(stacks)

	var files []string
	for _, stack := range stacks {
		files = append(files, r.Textures[stack]...)
	}
	return files
}

// Host is the scripting surface of the painting application.
type Host interface {
	ProjectIsOpen() bool
	// ProjectPath returns the path of the open project file, or "" when no
	// project is open.
	ProjectPath() string
	ProjectNeedsSaving() bool
	OpenProject(path string) error
	SaveProject(mode SaveMode) error
	SaveProjectAs(path string, mode SaveMode) error
	CloseProject() error
	CreateProject(settings ProjectSettings) error
	TextureSets() ([]TextureSet, error)
	ExportTextures(req ExportRequest) (ExportResult, error)
	// Version reports the host application version string.
	Version() string
}

// ProjectFilePath returns the path of the currently open project, or ""
// when nothing is open or the project still points at its creation template.
func ProjectFilePath(h Host) string {
	if !h.ProjectIsOpen() {
		return ""
	}
	path := h.ProjectPath()
	if path == "" || filepath.Ext(path) == TemplateExtension {
		return ""
	}
	return path
}
