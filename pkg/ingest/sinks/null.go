package sinks

import (
	"context"
	"time"

	"github.com/apache/arrow/go/v14/arrow"

	"github.com/catflow/catflow/pkg/ingest/core"
)

// NullSink discards all data (for testing/benchmarking).
type NullSink struct {
	rowsWritten int64
	startTime   time.Time
}

// NewNullSink creates a null sink.
func NewNullSink() *NullSink {
	return &NullSink{}
}

func (s *NullSink) Open(ctx context.Context, schema *arrow.Schema, opts core.SinkOptions) error {
	s.startTime = time.Now()
	return nil
}

func (s *NullSink) Write(ctx context.Context, record arrow.Record) error {
	s.rowsWritten += record.NumRows()
	return nil
}

func (s *NullSink) Close(ctx context.Context) (*core.SinkResult, error) {
	return &core.SinkResult{
		RowsWritten: s.rowsWritten,
		Duration:    time.Since(s.startTime),
	}, nil
}

func (s *NullSink) Abort() error {
	return nil
}
