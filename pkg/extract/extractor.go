// Package extract drives the extraction pipeline: files, chunks,
// filter, transform, schema-bound sink — strictly in that order.
package extract

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/catflow/catflow/pkg/errors"
	"github.com/catflow/catflow/pkg/ingest/core"
	"github.com/catflow/catflow/pkg/ingest/reader"
	"github.com/catflow/catflow/pkg/ingest/transform"
	"github.com/catflow/catflow/pkg/layout"
	"github.com/catflow/catflow/pkg/schema"
)

// Options configures one extraction run.
type Options struct {
	// Table is the record-type code to extract.
	Table string

	// OutputPath of the artifact produced by the sink.
	OutputPath string

	// ChunkSize bounds lines resident per chunk (0 = default).
	ChunkSize int

	// Encoding of the source files.
	Encoding reader.Encoding

	// Compression for the sink.
	Compression core.Compression

	// OnProgress, if set, receives progress events. Progress is an
	// observable side effect only; it never alters behavior.
	OnProgress func(Progress)
}

// Progress is one pipeline progress event.
type Progress struct {
	File        string
	FileIndex   int // 1-based
	FileCount   int
	Chunk       int // 1-based within the file, 0 on file start
	RowsWritten int64
	BytesRead   int64 // raw encoded bytes consumed so far, run-wide
}

// Result summarizes a completed run.
type Result struct {
	Table         string
	RunID         string
	Files         int
	ChunksWritten int
	RowsWritten   int64
	OutputPath    string // empty when no matching line produced output
	BytesWritten  int64
	Duration      time.Duration
}

// Extractor owns the sink for the duration of one run and applies
// batches to it in file-then-chunk order. It is single-threaded by
// design: schema unification depends on that ordering, and the
// bounded-memory one-pass work does not warrant concurrent writers.
type Extractor struct {
	opts   Options
	layout layout.Layout
	sink   core.Sink
}

// New validates the requested table against the registry — before any
// file is opened — and binds the sink the run will own.
func New(opts Options, sink core.Sink) (*Extractor, error) {
	l, err := layout.Get(opts.Table)
	if err != nil {
		return nil, err
	}

	return &Extractor{
		opts:   opts,
		layout: l,
		sink:   sink,
	}, nil
}

// Run executes one pass over the input. It either returns a Result for
// a complete, schema-consistent artifact (or a zero-row Result when
// nothing matched and no artifact was produced), or an error after a
// best-effort sink abort. There is no partial-success return.
func (e *Extractor) Run(ctx context.Context, input core.MultiSource) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()

	tr := transform.New(e.layout)
	binder := schema.NewBinder()

	sinkOpen := false
	fail := func(err error) (*Result, error) {
		if sinkOpen {
			e.sink.Abort()
		}
		return nil, err
	}

	result := &Result{
		Table: e.opts.Table,
		RunID: runID,
		Files: input.Count(),
	}

	var bytesRead int64
	sources := input.Sources()
	for i, src := range sources {
		e.report(Progress{
			File:        src.Location(),
			FileIndex:   i + 1,
			FileCount:   len(sources),
			RowsWritten: result.RowsWritten,
			BytesRead:   bytesRead,
		})

		if err := e.processFile(ctx, src, i, len(sources), tr, binder, &sinkOpen, &bytesRead, result); err != nil {
			return fail(err)
		}
	}

	if !sinkOpen {
		// No line in any file matched the table: a valid, empty run.
		result.Duration = time.Since(start)
		return result, nil
	}

	sinkResult, err := e.sink.Close(ctx)
	if err != nil {
		return nil, err
	}

	result.OutputPath = sinkResult.Path
	result.BytesWritten = sinkResult.BytesWritten
	result.Duration = time.Since(start)
	return result, nil
}

// processFile streams one source through the chunk-filter-transform-write
// cycle. At most one chunk's lines, decoded records, and typed batch are
// resident at a time.
func (e *Extractor) processFile(ctx context.Context, src core.Source, index, count int,
	tr *transform.Transformer, binder *schema.Binder, sinkOpen *bool, bytesRead *int64, result *Result) error {

	rc, err := src.Open(ctx)
	if err != nil {
		return errors.Wrapf(err, errors.CodeFileNotFound, "failed to open %s", src.Location())
	}
	defer rc.Close()

	cr := reader.NewChunkReader(&countingReader{r: rc, n: bytesRead}, e.opts.Encoding, e.opts.ChunkSize)
	chunk := 0

	for cr.Next() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		chunk++

		lines := transform.Filter(cr.Chunk(), e.opts.Table)
		if len(lines) == 0 {
			continue
		}

		rec := tr.Transform(lines)
		conformed, err := binder.Conform(rec)
		rec.Release()
		if err != nil {
			return err
		}

		if !*sinkOpen {
			opts := core.DefaultSinkOptions()
			opts.Path = e.opts.OutputPath
			opts.Compression = e.opts.Compression
			opts.Metadata = map[string]string{
				"table":  e.opts.Table,
				"run_id": result.RunID,
			}
			if err := e.sink.Open(ctx, binder.Bound(), opts); err != nil {
				conformed.Release()
				return err
			}
			*sinkOpen = true
		}

		err = e.sink.Write(ctx, conformed)
		rows := conformed.NumRows()
		conformed.Release()
		if err != nil {
			return err
		}

		result.RowsWritten += rows
		result.ChunksWritten++

		e.report(Progress{
			File:        src.Location(),
			FileIndex:   index + 1,
			FileCount:   count,
			Chunk:       chunk,
			RowsWritten: result.RowsWritten,
			BytesRead:   *bytesRead,
		})
	}

	if err := cr.Err(); err != nil {
		return errors.Wrapf(err, errors.CodeEncodingError, "read failed on %s", src.Location())
	}
	return nil
}

func (e *Extractor) report(p Progress) {
	if e.opts.OnProgress != nil {
		e.opts.OnProgress(p)
	}
}

// countingReader counts the raw encoded bytes pulled from a source
// before transcoding, so progress can be measured against the known
// input size. The run is single-threaded; no synchronization needed.
type countingReader struct {
	r io.Reader
	n *int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	*c.n += int64(n)
	return n, err
}
