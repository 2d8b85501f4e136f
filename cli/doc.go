// Package cli contains the command line interface for plate.
//
// # Usage
//
//	plate [flags] [build]
//	plate render content/index.md
//	plate check
//	plate fmt -w
//	plate watch
//
// Build is the default command. The site flags locate the inputs and
// outputs:
//
//   - --source, -s: directory of content files (default: content)
//   - --template, -t: template applied to every content file
//   - --output, -o: output directory (default: public)
//   - --assets, -a: directory copied verbatim into the output
//   - --ext: output extension (default: .html)
//   - --jobs, -j: maximum parallel renders
//   - --keep-going, -k: render every page even after a failure
//   - --rewrite: rewrite outputs whose contents did not change
//
// # Configuration
//
// Flag defaults are read from YAML files, the user configuration
// (written by "plate init") followed by ./plate.yaml:
//
//	template: layout/page.plate
//	assets: static
//	log:
//	  level: debug
//
// Command-line flags override both.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o plate .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: <cache dir>/pprof)
package cli
