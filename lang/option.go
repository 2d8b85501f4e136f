package lang

import (
	"github.com/ardnew/plate/log"
)

// Option configures parsing and rendering.
//
// Options given to a parse function are stored in the [Document] and used
// as defaults by [Document.Render]; options given to Render override them
// for that call only.
type Option func(*options)

type options struct {
	logger log.Logger
	files  FileReader
}

func makeOptions(opts ...Option) options {
	var o options

	return o.with(opts...)
}

func (o options) with(opts ...Option) options {
	for _, opt := range opts {
		opt(&o)
	}

	if o.files == nil {
		o.files = OSFiles{}
	}

	return o
}

// WithLogger sets the logger used for trace output.
// The zero [log.Logger] (the default) discards everything.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithFiles sets the reader used to load inserted files.
// The default is [OSFiles].
func WithFiles(files FileReader) Option {
	return func(o *options) { o.files = files }
}
