//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the plate module embedded at build time.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the canonical command and module identifier used across the
	// project. It appears in help text and default config paths.
	Name = "plate"
	// Description is a short, human-readable summary of the project used in
	// help output and documentation.
	Description = "Apply a single template to a directory of content files"
)
