// Package sequence groups exported texture files into UDIM sequences and
// extracts template fields from export filenames.
//
// A UDIM sequence encodes the tile index as a numeric suffix directly before
// the extension ("Base_Color.1001.exr", "Base_Color.1002.exr", ...). All
// tiles of one map collapse onto a single group key so the publish flow can
// treat them as one logical texture.
package sequence

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
)

// SequenceToken replaces the tile index in derived group keys.
const SequenceToken = "<UDIM>"

// udimSuffix matches ".<digits>.<ext>" at the end of a filename. Digits
// anywhere else in the name are left alone.
var udimSuffix = regexp.MustCompile(`\.(\d+)(\.\w+)$`)

// Key derives the group key for a path: the final path component with any
// trailing tile index normalized to SequenceToken. Filenames without a tile
// suffix key as themselves.
func Key(path string) string {
	filename := filepath.Base(path)
	return udimSuffix.ReplaceAllString(filename, "."+SequenceToken+"$2")
}

// Group partitions paths by Key. Groups appear in first-seen key order and
// members keep their first-seen order, so grouping is deterministic and
// idempotent. Two distinct filenames that derive the same key are grouped
// together; that is how tiles of the same map are recognized as one group.
func Group(paths []string) [][]string {
	byKey := make(map[string]int)
	var groups [][]string

	for _, path := range paths {
		key := Key(path)
		idx, ok := byKey[key]
		if !ok {
			idx = len(groups)
			byKey[key] = idx
			groups = append(groups, nil)
		}
		groups[idx] = append(groups[idx], path)
	}
	return groups
}

// Fields holds the template fields encoded in an export filename following
// the "{textureSet}_{MapName}_{colorspace}(.{udim}).{ext}" convention. The
// map name never contains underscores; the set name may.
type Fields struct {
	TextureSet string
	TextureMap string
	Colorspace string
	Extension  string
	UDIM       int
	HasUDIM    bool
}

var textureFilename = regexp.MustCompile(`^(.+)_([^_.]+)_([^_.]+)(?:\.(\d{4}))?\.(\w+)$`)

// ErrUnrecognizedFilename is returned when a filename does not follow the
// export naming convention.
var ErrUnrecognizedFilename = errors.New("sequence: filename does not match export convention")

// ParseFields extracts the publish template fields from an exported texture
// filename (not a full path).
func ParseFields(filename string) (Fields, error) {
	match := textureFilename.FindStringSubmatch(filename)
	if match == nil {
		return Fields{}, fmt.Errorf("%w: %q", ErrUnrecognizedFilename, filename)
	}

	fields := Fields{
		TextureSet: match[1],
		TextureMap: match[2],
		Colorspace: match[3],
		Extension:  match[5],
	}
	if match[4] != "" {
		udim, err := strconv.Atoi(match[4])
		if err != nil {
			return Fields{}, fmt.Errorf("%w: %q", ErrUnrecognizedFilename, filename)
		}
		fields.UDIM = udim
		fields.HasUDIM = true
	}
	return fields, nil
}

// exportPattern is the abstract filename pattern an export preset must use
// so ParseFields can recover the template fields later.
var exportPattern = regexp.MustCompile(`^\$textureSet_[A-Za-z0-9]+_\$colorSpace\(\.\$udim\)$`)

// ValidateExportPattern checks an export preset's output map filename
// pattern against the required convention
// "$textureSet_<MapName>_$colorSpace(.$udim)"; the map name must not contain
// underscores.
func ValidateExportPattern(pattern string) error {
	if !exportPattern.MatchString(pattern) {
		return fmt.Errorf("export pattern %q does not match \"$textureSet_<MapName>_$colorSpace(.$udim)\"", pattern)
	}
	return nil
}
