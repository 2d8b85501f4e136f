// Package profile provides optional runtime profiling for plate.
//
// The package integrates [github.com/pkg/profile]. Profiling must be enabled
// at build time with the "pprof" build tag:
//
//	go build -tags pprof -o plate .
//
// Without the tag every operation is a no-op and [Modes] is empty.
//
// # Modes
//
// allocs, block, clock, cpu, goroutine, heap, mem, mutex, thread and trace.
// Use [Modes] to list them programmatically.
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/plate-pprof"}
//	ctrl := p.Start()
//	defer ctrl.Stop()
//
// Rendering a large site with --pprof-mode=cpu and inspecting the result with
// "go tool pprof -http=: cpu.pprof" is the quickest way to see where a build
// spends its time (usually file reads for inserted partials).
package profile
