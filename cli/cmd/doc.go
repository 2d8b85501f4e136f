// Package cmd implements the plate subcommands: build, render, check, fmt,
// init and watch.
//
// Global flags reach the commands through the context: [WithContext] stores
// the parsed kong context and [WithSite] the site configuration.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// of the user configuration file written by init.
	ConfigIdentifier = "config"
)
