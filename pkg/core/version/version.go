// ============================================================================
// Euler - Free-form Calculator
// ============================================================================
//
// Package:     version
// Description: Central version management for all binaries
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package version

// Version constants for Euler components
const (
	// Platform version
	Platform = "1.0.0"

	// Component versions
	Core   = "1.0.0"
	Server = "1.0.0"
	TUI    = "1.0.0"
	CLI    = "1.0.0"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "core":
		return Core
	case "server", "eulerd":
		return Server
	case "tui":
		return TUI
	case "cli", "euler":
		return CLI
	default:
		return Platform
	}
}
