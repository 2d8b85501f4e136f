// Package site applies one template to a directory of content files.
//
// A build parses the template once, discovers every content file under the
// source directory, and renders each one to the output directory in
// parallel. Content files may begin with a YAML front matter block:
//
//	---
//	title: About us
//	---
//	<p>body text</p>
//
// The front matter supplies $self.title and the remainder of the file is
// $self.content. Without a title the file's base name (minus extension) is
// used.
//
// Outputs are written atomically and only when their contents change.
package site
