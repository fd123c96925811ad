// Package plugin defines how blogsmith features hook into a build: they
// register node renderers, directives and roles, and subscribe to build phases.
package plugin

import (
	"fmt"
)

// Plugin is a unit of build functionality.
type Plugin interface {
	// Metadata returns the plugin's identity.
	Metadata() PluginMetadata

	// Setup registers the plugin's directives, roles, node kinds and phase
	// handlers. It is called once per build, in registration order.
	Setup(r Registrar) error
}

// PluginMetadata describes a plugin's identity.
type PluginMetadata struct {
	// Name is the unique plugin identifier (e.g., "pagedate", "tags").
	Name string

	// Version is the semantic version (e.g., "v1.0.0").
	Version string

	// Type identifies the plugin category.
	Type PluginType

	// Description provides a human-readable summary of the plugin's purpose.
	Description string
}

// String returns a human-readable representation of the plugin metadata.
func (m PluginMetadata) String() string {
	return fmt.Sprintf("%s@%s (%s)", m.Name, m.Version, m.Type)
}

// Validate checks if the plugin metadata is valid.
func (m PluginMetadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	if !m.Type.IsValid() {
		return fmt.Errorf("invalid plugin type: %s", m.Type)
	}
	return nil
}
