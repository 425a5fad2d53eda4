// Package main hosts the easel CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the workstation-side pipeline tasks:
// launching the painting application with the integration bootstrapped,
// resolving contexts from paths, publishing exported textures and project
// files, inspecting the publish registry, and configuration scaffolding. It
// centralizes configuration resolution and logger setup so subcommands can
// focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
