// Package ptyhost shims a child shell process behind a small interface so
// internal/app can drive it without depending on github.com/creack/pty
// directly.
package ptyhost

import "io"

// Host is a running PTY-backed child process.
type Host interface {
	io.Reader
	io.Writer

	// Resize informs the child's controlling terminal of a new
	// character grid size in rows/cols, plus the pixel dimensions of
	// that grid for programs that query TIOCGWINSZ pixel fields.
	Resize(rows, cols int, pixelWidth, pixelHeight int) error

	// Wait blocks until the child exits and returns its error, if any.
	Wait() error

	// Close releases the PTY file descriptor, signalling EOF to any
	// blocked Read.
	Close() error
}
