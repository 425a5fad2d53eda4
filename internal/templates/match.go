package templates

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoMatch is returned by MatchPrefix when a path does not lie under the
// template's structure.
var ErrNoMatch = errors.New("templates: path does not match template")

// MatchPrefix runs the template backwards: given a slash-separated path
// relative to the template root, it captures one value per placeholder and
// checks every literal directory name. The path may extend deeper than the
// template; extra trailing components are ignored so a file inside a work
// area still resolves.
//
// Matching requires every template path component to be either a pure
// literal or a single placeholder. Optional groups are not supported here.
func (t *Template) MatchPrefix(relPath string) (map[string]string, error) {
	if strings.ContainsAny(t.raw, "[]") {
		return nil, fmt.Errorf("template %s: optional groups cannot be matched", t.name)
	}

	parts := splitPath(relPath)
	chunks := strings.Split(t.raw, "/")
	if len(parts) < len(chunks) {
		return nil, fmt.Errorf("%w: %q is shallower than template %s", ErrNoMatch, relPath, t.name)
	}

	fields := make(map[string]string, len(chunks))
	for i, chunk := range chunks {
		if strings.HasPrefix(chunk, "{") && strings.HasSuffix(chunk, "}") {
			spec := chunk[1 : len(chunk)-1]
			name := spec
			if idx := strings.IndexByte(spec, ':'); idx >= 0 {
				name = spec[:idx]
			}
			if name == "" {
				return nil, fmt.Errorf("template %s: empty placeholder", t.name)
			}
			fields[name] = parts[i]
			continue
		}
		if strings.ContainsAny(chunk, "{}") {
			return nil, fmt.Errorf("template %s: component %q mixes literals and placeholders", t.name, chunk)
		}
		if chunk != parts[i] {
			return nil, fmt.Errorf("%w: component %q != %q", ErrNoMatch, parts[i], chunk)
		}
	}
	return fields, nil
}

func splitPath(path string) []string {
	normalized := strings.ReplaceAll(path, "\\", "/")
	var parts []string
	for _, part := range strings.Split(normalized, "/") {
		if part == "" || part == "." {
			continue
		}
		parts = append(parts, part)
	}
	return parts
}
