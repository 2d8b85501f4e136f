package site

import (
	"time"

	"github.com/ardnew/plate/lang"
	"github.com/ardnew/plate/log"
)

// Option configures a [Site].
type Option func(*Site)

// WithLogger sets the logger for build progress. The template parser and
// evaluator log through it at trace level.
func WithLogger(logger log.Logger) Option {
	return func(s *Site) { s.logger = logger }
}

// WithFiles sets the reader used to load files named by insert directives.
func WithFiles(files lang.FileReader) Option {
	return func(s *Site) { s.files = files }
}

// WithDebounce sets how long [Site.Watch] waits for changes to settle
// before rebuilding.
func WithDebounce(d time.Duration) Option {
	return func(s *Site) { s.debounce = d }
}
