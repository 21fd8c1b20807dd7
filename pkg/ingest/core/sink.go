package core

import (
	"context"
	"time"

	"github.com/apache/arrow/go/v14/arrow"
)

// Sink persists Arrow records to a destination. The pipeline opens the
// sink once, against the schema fixed by the first non-empty batch, and
// appends schema-conformant records until the run ends. Close or Abort
// is called exactly once on every exit path.
type Sink interface {
	// Open prepares the sink for writing against a fixed schema.
	Open(ctx context.Context, schema *arrow.Schema, opts SinkOptions) error

	// Write appends a record. The record must conform to the schema
	// given to Open; the sink does not reconcile schemas itself.
	Write(ctx context.Context, record arrow.Record) error

	// Close finalizes and flushes the output resource.
	Close(ctx context.Context) (*SinkResult, error)

	// Abort discards any partial output after a mid-run failure.
	Abort() error
}

// SinkOptions configures sink behavior.
type SinkOptions struct {
	// Path is the output location.
	Path string

	// Compression algorithm.
	Compression Compression

	// DictionaryEncoding enables dictionary encoding.
	DictionaryEncoding bool

	// Statistics enables writing column statistics.
	Statistics bool

	// Metadata to include in the output footer.
	Metadata map[string]string
}

// DefaultSinkOptions returns sensible defaults.
func DefaultSinkOptions() SinkOptions {
	return SinkOptions{
		Compression:        CompressionSnappy,
		DictionaryEncoding: true,
		Statistics:         true,
	}
}

// SinkResult contains the outcome of a completed sink.
type SinkResult struct {
	// Path of the output file.
	Path string

	// RowsWritten total.
	RowsWritten int64

	// BytesWritten total.
	BytesWritten int64

	// Duration between Open and Close.
	Duration time.Duration
}

// Compression represents compression algorithms.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionSnappy
	CompressionGzip
	CompressionLZ4
	CompressionZstd
)

func (c Compression) String() string {
	names := []string{"none", "snappy", "gzip", "lz4", "zstd"}
	if int(c) < len(names) {
		return names[c]
	}
	return "unknown"
}

// ParseCompression parses a compression string.
func ParseCompression(s string) Compression {
	switch s {
	case "gzip":
		return CompressionGzip
	case "lz4":
		return CompressionLZ4
	case "zstd":
		return CompressionZstd
	case "none":
		return CompressionNone
	default:
		return CompressionSnappy
	}
}
