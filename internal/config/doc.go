// Package config loads, normalizes, and validates easel configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI and engine need: project roots, publish templates, menu favorites,
// and host application install locations.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
