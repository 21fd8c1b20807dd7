// Package core provides the fundamental abstractions for the extraction
// pipeline: input sources and the row-group sink.
package core

import (
	"context"
	"io"
	"time"
)

// Source represents one input file to extract from.
type Source interface {
	// ID returns a unique identifier for this source.
	ID() string

	// Location returns the source location (path, memory://..., etc.).
	Location() string

	// Size returns the size in bytes, or -1 if unknown.
	Size() int64

	// ModTime returns the last modification time.
	ModTime() time.Time

	// Open returns a reader for the raw (still encoded) content.
	// Each call starts a fresh single pass; the chunk stream over a
	// source is not restartable without reopening.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// MultiSource is an ordered collection of sources. Enumeration order is
// deterministic; the pipeline consumes sources strictly in this order.
type MultiSource interface {
	// Sources returns all sources.
	Sources() []Source

	// TotalSize returns total size across all sources.
	TotalSize() int64

	// Count returns number of sources.
	Count() int
}
