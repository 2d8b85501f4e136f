package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/plate/log"
	"github.com/ardnew/plate/site"
)

// resolve is a [kong.ConfigurationLoader] that reads flag defaults from a
// YAML mapping.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// Keys name flags without their leading dashes. Nested mappings are joined
// with "-", and "_" may be used in place of "-":
//
//	source: content
//	output: public
//	keep_going: true
//	log:
//	  level: debug
//	  pretty: false
//
// applies --source=content --output=public --keep-going --log-level=debug
// --no-log-pretty. Command-line flags override config file values, and a
// file loaded later overrides one loaded earlier.
func resolve(r io.Reader) (kong.Resolver, error) {
	var values map[string]any

	err := yaml.NewDecoder(r).Decode(&values)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, site.ErrConfig.Wrap(err).With(slog.String("format", "yaml"))
	}

	cfg := make(config, len(values))
	cfg.flatten("", values)

	return cfg, nil
}

// config implements [kong.Resolver] for YAML configs. Keys are flag names.
type config map[string]any

// flatten stores values in c under their flag names.
func (c config) flatten(prefix string, values map[string]any) {
	for key, val := range values {
		name := strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			name = prefix + "-" + name
		}

		if m, ok := val.(map[string]any); ok {
			c.flatten(name, m)

			continue
		}

		if v := flagArg(val); v != nil {
			c[name] = v
		}
	}
}

// flagArg converts a decoded YAML value into a form Kong's mappers accept.
// Kong parses numbers from strings.
func flagArg(val any) any {
	switch v := val.(type) {
	case nil:
		return nil

	case bool, string:
		return v

	case []any:
		list := make([]any, 0, len(v))

		for _, elem := range v {
			if e := flagArg(elem); e != nil {
				list = append(list, e)
			}
		}

		return list

	default:
		return fmt.Sprint(v)
	}
}

// Validate implements [kong.Resolver]. Keys that match no flag are logged
// with the closest flag name.
func (c config) Validate(app *kong.Application) error {
	names := flagNames(app.Node, nil)

	for _, key := range slices.Sorted(maps.Keys(c)) {
		if slices.Contains(names, key) {
			continue
		}

		attrs := []slog.Attr{slog.String("key", key)}

		if matches := fuzzy.Find(key, names); len(matches) > 0 {
			attrs = append(attrs, slog.String("suggestion", matches[0].Str))
		}

		log.Warn("unknown configuration key", attrs...)
	}

	return nil
}

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// flagNames appends the names of the flags of node and its subcommands to
// names.
func flagNames(node *kong.Node, names []string) []string {
	if node == nil {
		return names
	}

	for _, flag := range node.Flags {
		names = append(names, flag.Name)
	}

	for _, child := range node.Children {
		names = flagNames(child, names)
	}

	return names
}
