// Package publish persists published outputs in SQLite and implements the
// texture and project publish flows.
//
// The Store records one row per published output (a texture, a texture set
// folder, or a painter project file) keyed by context, name, type, and
// version, with dependency links between them. The Publisher copies exported
// files into template-resolved publish locations with integrity verification
// and registers the results.
//
// The registry is the single source of truth for version numbering: the next
// version of a publish is always the highest registered version plus one.
// Schema changes bump the version in schema.go; users delete the registry
// database to adopt the new schema.
package publish
