package publish

import "time"

// Publish types recorded in the registry.
const (
	TypeTexture        = "Texture"
	TypeTextureSet     = "Texture Set"
	TypePainterProject = "Painter Project File"
)

// Record is one published output.
type Record struct {
	ID      int64
	Code    string
	Name    string
	Type    string
	Path    string
	Version int
	Comment string

	Project string
	Entity  string
	Task    string

	// DependencyIDs lists the publishes this one was built from, e.g. the
	// project file a texture was exported out of.
	DependencyIDs []int64

	ThumbnailPath string
	CreatedAt     time.Time
}
