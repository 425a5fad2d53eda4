// Package templates implements the named path templates that map context
// fields onto work and publish locations.
//
// A template is a path string with {field} placeholders. A placeholder may
// carry a zero-pad width for numeric values ("{version:03}" renders 7 as
// "007"). Square brackets delimit an optional group: when any field inside
// the group is missing from the apply call the whole group is dropped, which
// is how the UDIM publish template doubles as the abstract sequence path.
package templates

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownTemplate is returned by Set.Get for unregistered names.
var ErrUnknownTemplate = errors.New("templates: unknown template")

// ErrMissingField is returned by Apply when a required field is absent.
var ErrMissingField = errors.New("templates: missing field")

type token struct {
	literal string
	field   string
	pad     int
}

type segment struct {
	optional bool
	tokens   []token
}

// Template is a parsed path template.
type Template struct {
	name     string
	raw      string
	segments []segment
}

// Parse compiles a raw template string.
func Parse(name, raw string) (*Template, error) {
	tmpl := &Template{name: name, raw: raw}

	current := segment{}
	flush := func() {
		if len(current.tokens) > 0 {
			tmpl.segments = append(tmpl.segments, current)
		}
		current = segment{}
	}

	literal := strings.Builder{}
	flushLiteral := func() {
		if literal.Len() > 0 {
			current.tokens = append(current.tokens, token{literal: literal.String()})
			literal.Reset()
		}
	}

	rest := raw
	for len(rest) > 0 {
		switch rest[0] {
		case '{':
			end := strings.IndexByte(rest, '}')
			if end < 0 {
				return nil, fmt.Errorf("template %s: unterminated placeholder in %q", name, raw)
			}
			flushLiteral()
			spec := rest[1:end]
			fieldName, pad, err := parsePlaceholder(name, spec)
			if err != nil {
				return nil, err
			}
			current.tokens = append(current.tokens, token{field: fieldName, pad: pad})
			rest = rest[end+1:]
		case '[':
			if current.optional {
				return nil, fmt.Errorf("template %s: nested optional group in %q", name, raw)
			}
			flushLiteral()
			flush()
			current.optional = true
			rest = rest[1:]
		case ']':
			if !current.optional {
				return nil, fmt.Errorf("template %s: unmatched ']' in %q", name, raw)
			}
			flushLiteral()
			flush()
			rest = rest[1:]
		default:
			literal.WriteByte(rest[0])
			rest = rest[1:]
		}
	}
	if current.optional {
		return nil, fmt.Errorf("template %s: unterminated optional group in %q", name, raw)
	}
	flushLiteral()
	flush()

	return tmpl, nil
}

func parsePlaceholder(name, spec string) (string, int, error) {
	fieldName := spec
	pad := 0
	if idx := strings.IndexByte(spec, ':'); idx >= 0 {
		fieldName = spec[:idx]
		padSpec := strings.TrimPrefix(spec[idx+1:], "0")
		width, err := strconv.Atoi(padSpec)
		if err != nil || width <= 0 {
			return "", 0, fmt.Errorf("template %s: bad pad spec %q", name, spec)
		}
		pad = width
	}
	if strings.TrimSpace(fieldName) == "" {
		return "", 0, fmt.Errorf("template %s: empty placeholder", name)
	}
	return fieldName, pad, nil
}

// Name returns the registered template name.
func (t *Template) Name() string { return t.name }

// Raw returns the source template string.
func (t *Template) Raw() string { return t.raw }

// Fields returns the placeholder names in first-appearance order, including
// fields inside optional groups.
func (t *Template) Fields() []string {
	var fields []string
	seen := map[string]struct{}{}
	for _, seg := range t.segments {
		for _, tok := range seg.tokens {
			if tok.field == "" {
				continue
			}
			if _, ok := seen[tok.field]; ok {
				continue
			}
			seen[tok.field] = struct{}{}
			fields = append(fields, tok.field)
		}
	}
	return fields
}

// Apply substitutes fields into the template. A missing field inside an
// optional group drops the group; a missing required field is an error.
func (t *Template) Apply(fields map[string]string) (string, error) {
	var out strings.Builder
	for _, seg := range t.segments {
		rendered, err := renderSegment(seg, fields)
		if err != nil {
			if seg.optional && errors.Is(err, ErrMissingField) {
				continue
			}
			return "", fmt.Errorf("template %s: %w", t.name, err)
		}
		out.WriteString(rendered)
	}
	return out.String(), nil
}

func renderSegment(seg segment, fields map[string]string) (string, error) {
	var out strings.Builder
	for _, tok := range seg.tokens {
		if tok.field == "" {
			out.WriteString(tok.literal)
			continue
		}
		value, ok := fields[tok.field]
		if !ok || value == "" {
			return "", fmt.Errorf("%w: %s", ErrMissingField, tok.field)
		}
		if tok.pad > 0 {
			number, err := strconv.Atoi(value)
			if err != nil {
				return "", fmt.Errorf("field %s: expected numeric value, got %q", tok.field, value)
			}
			out.WriteString(fmt.Sprintf("%0*d", tok.pad, number))
			continue
		}
		out.WriteString(value)
	}
	return out.String(), nil
}

// Set is a named collection of parsed templates.
type Set map[string]*Template

// LoadSet parses a raw name-to-template map, typically cfg.Templates.
func LoadSet(raw map[string]string) (Set, error) {
	set := make(Set, len(raw))
	for name, value := range raw {
		tmpl, err := Parse(name, value)
		if err != nil {
			return nil, err
		}
		set[name] = tmpl
	}
	return set, nil
}

// Get returns the template registered under name.
func (s Set) Get(name string) (*Template, error) {
	tmpl, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}
	return tmpl, nil
}
