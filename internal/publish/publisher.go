package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"easel/internal/config"
	"easel/internal/fileutil"
	"easel/internal/logging"
	"easel/internal/preflight"
	"easel/internal/sequence"
	"easel/internal/templates"
	"easel/internal/workctx"
)

// publishHeadroomBytes is free space required beyond the payload itself so a
// publish never fills the volume completely.
const publishHeadroomBytes = 256 << 20

// Publisher copies exported files into the publish area and registers them.
type Publisher struct {
	cfg    *config.Config
	store  *Store
	set    templates.Set
	logger *slog.Logger
}

// NewPublisher builds a publisher. A nil logger disables logging.
func NewPublisher(cfg *config.Config, store *Store, set templates.Set, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Publisher{cfg: cfg, store: store, set: set, logger: logger.With("component", "publish")}
}

// TextureSetRequest describes one texture set export to publish.
type TextureSetRequest struct {
	Context workctx.Context
	SetName string
	Files   []string
	Comment string

	// ProjectPublishID, when non-zero, links every texture back to the
	// project file publish it was exported from.
	ProjectPublishID int64
}

// TextureSetResult reports the registered records for a texture set publish.
type TextureSetResult struct {
	Set      *Record
	Textures []*Record
}

// PublishTextureSet copies the exported files of one texture set into the
// publish area and registers a record per texture sequence plus one record
// for the set folder. All records share a single new version number.
//
// UDIM tiles collapse onto one record whose path carries the <UDIM> token in
// place of the tile index.
func (p *Publisher) PublishTextureSet(ctx context.Context, req TextureSetRequest) (*TextureSetResult, error) {
	if req.Context.IsZero() {
		return nil, errors.New("publish requires a resolved context")
	}
	if strings.TrimSpace(req.SetName) == "" {
		return nil, errors.New("publish requires a texture set name")
	}
	if len(req.Files) == 0 {
		return nil, errors.New("no exported files to publish")
	}

	// Underscores in the set name would collide with the field separators of
	// the exported filenames, so the publish path uses the name without them.
	setName := strings.ReplaceAll(req.SetName, "_", "")

	if err := p.checkSpace(req.Files); err != nil {
		return nil, err
	}

	flatTpl, err := p.set.Get(config.TemplateTexturePublish)
	if err != nil {
		return nil, err
	}
	udimTpl, err := p.set.Get(config.TemplateTextureUDIM)
	if err != nil {
		return nil, err
	}
	folderTpl, err := p.set.Get(config.TemplateTextureSetFolder)
	if err != nil {
		return nil, err
	}

	latest, err := p.store.LatestVersion(ctx,
		req.Context.Project, req.Context.Entity, req.Context.Task, setName, TypeTextureSet)
	if err != nil {
		return nil, err
	}
	version := latest + 1

	var deps []int64
	if req.ProjectPublishID > 0 {
		deps = []int64{req.ProjectPublishID}
	}

	result := &TextureSetResult{}
	var textureIDs []int64

	for _, group := range sequence.Group(req.Files) {
		recordPath := ""
		hasUDIM := false

		for _, file := range group {
			fields, err := sequence.ParseFields(filepath.Base(file))
			if err != nil {
				return nil, err
			}
			if fields.TextureSet != req.SetName {
				p.logger.Warn("exported file names a different texture set",
					"file", filepath.Base(file), "expected", req.SetName, "found", fields.TextureSet)
			}

			values := req.Context.Fields()
			values["texture_set"] = setName
			values["texture_map"] = fields.TextureMap
			values["colorspace"] = fields.Colorspace
			values["extension"] = fields.Extension
			values["version"] = strconv.Itoa(version)

			tpl := flatTpl
			if fields.HasUDIM {
				tpl = udimTpl
				values["UDIM"] = strconv.Itoa(fields.UDIM)
			}

			rendered, err := tpl.Apply(values)
			if err != nil {
				return nil, err
			}
			dst := filepath.Join(p.cfg.Paths.PublishDir, filepath.FromSlash(rendered))
			if err := fileutil.EnsureDir(filepath.Dir(dst)); err != nil {
				return nil, err
			}
			if err := fileutil.CopyFileVerified(file, dst); err != nil {
				return nil, fmt.Errorf("copy %q: %w", file, err)
			}

			if recordPath == "" {
				recordPath = dst
				hasUDIM = fields.HasUDIM
			}
		}

		if hasUDIM {
			recordPath = filepath.Join(filepath.Dir(recordPath), sequence.Key(recordPath))
		}

		rec, err := p.store.Register(ctx, &Record{
			Name:          sequence.Key(group[0]),
			Type:          TypeTexture,
			Path:          recordPath,
			Version:       version,
			Comment:       req.Comment,
			Project:       req.Context.Project,
			Entity:        req.Context.Entity,
			Task:          req.Context.Task,
			DependencyIDs: deps,
		})
		if err != nil {
			return nil, err
		}
		p.logger.Info("published texture",
			"name", rec.Name, "version", rec.Version, "path", rec.Path, "tiles", len(group))

		result.Textures = append(result.Textures, rec)
		textureIDs = append(textureIDs, rec.ID)
	}

	folderValues := req.Context.Fields()
	folderValues["texture_set"] = setName
	folderValues["version"] = strconv.Itoa(version)
	folderRendered, err := folderTpl.Apply(folderValues)
	if err != nil {
		return nil, err
	}

	setRec, err := p.store.Register(ctx, &Record{
		Name:          setName,
		Type:          TypeTextureSet,
		Path:          filepath.Join(p.cfg.Paths.PublishDir, filepath.FromSlash(folderRendered)),
		Version:       version,
		Comment:       req.Comment,
		Project:       req.Context.Project,
		Entity:        req.Context.Entity,
		Task:          req.Context.Task,
		DependencyIDs: textureIDs,
	})
	if err != nil {
		return nil, err
	}
	p.logger.Info("published texture set",
		"set", setRec.Name, "version", setRec.Version, "textures", len(result.Textures))

	result.Set = setRec
	return result, nil
}

// PublishProject copies the painter project file into the publish area and
// registers it. The publish name is stable across versions so the registry
// can number them.
func (p *Publisher) PublishProject(ctx context.Context, c workctx.Context, projectPath, comment string) (*Record, error) {
	if c.IsZero() {
		return nil, errors.New("publish requires a resolved context")
	}
	if strings.TrimSpace(projectPath) == "" {
		return nil, errors.New("publish requires a project file path")
	}

	if err := p.checkSpace([]string{projectPath}); err != nil {
		return nil, err
	}

	tpl, err := p.set.Get(config.TemplateProjectPublish)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("%s_%s", c.Entity, c.Task)
	latest, err := p.store.LatestVersion(ctx, c.Project, c.Entity, c.Task, name, TypePainterProject)
	if err != nil {
		return nil, err
	}
	version := latest + 1

	values := c.Fields()
	values["version"] = strconv.Itoa(version)
	rendered, err := tpl.Apply(values)
	if err != nil {
		return nil, err
	}

	dst := filepath.Join(p.cfg.Paths.PublishDir, filepath.FromSlash(rendered))
	if err := fileutil.EnsureDir(filepath.Dir(dst)); err != nil {
		return nil, err
	}
	if err := fileutil.CopyFileVerified(projectPath, dst); err != nil {
		return nil, fmt.Errorf("copy %q: %w", projectPath, err)
	}

	rec, err := p.store.Register(ctx, &Record{
		Name:    name,
		Type:    TypePainterProject,
		Path:    dst,
		Version: version,
		Comment: comment,
		Project: c.Project,
		Entity:  c.Entity,
		Task:    c.Task,
	})
	if err != nil {
		return nil, err
	}
	p.logger.Info("published project file",
		"name", rec.Name, "version", rec.Version, "path", rec.Path)
	return rec, nil
}

func (p *Publisher) checkSpace(files []string) error {
	var total uint64
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			return fmt.Errorf("stat %q: %w", file, err)
		}
		total += uint64(info.Size())
	}
	return preflight.RequireDiskSpace(p.cfg.Paths.PublishDir, total+publishHeadroomBytes)
}
