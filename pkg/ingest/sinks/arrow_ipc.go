package sinks

import (
	"context"
	"os"
	"time"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/ipc"

	"github.com/catflow/catflow/pkg/errors"
	"github.com/catflow/catflow/pkg/ingest/core"
)

// ArrowIPCSink writes records to the Arrow IPC stream format, for
// consumers that want the extracted columns without a Parquet reader.
type ArrowIPCSink struct {
	writer      *ipc.Writer
	file        *os.File
	opts        core.SinkOptions
	rowsWritten int64
	startTime   time.Time
}

// NewArrowIPCSink creates an Arrow IPC sink.
func NewArrowIPCSink() *ArrowIPCSink {
	return &ArrowIPCSink{}
}

// Open prepares the sink for writing.
func (s *ArrowIPCSink) Open(ctx context.Context, schema *arrow.Schema, opts core.SinkOptions) error {
	s.opts = opts
	s.startTime = time.Now()

	file, err := os.Create(opts.Path)
	if err != nil {
		return errors.Wrap(err, errors.CodeWriteFailed, "failed to create output file")
	}
	s.file = file
	s.writer = ipc.NewWriter(file, ipc.WithSchema(schema))

	return nil
}

// Write appends a record to the IPC stream.
func (s *ArrowIPCSink) Write(ctx context.Context, record arrow.Record) error {
	if s.writer == nil {
		return errors.New(errors.CodeWriteFailed, "sink not open")
	}

	if err := s.writer.Write(record); err != nil {
		return errors.Wrap(err, errors.CodeWriteFailed, "failed to write batch")
	}

	s.rowsWritten += record.NumRows()
	return nil
}

// Close finalizes the IPC stream.
func (s *ArrowIPCSink) Close(ctx context.Context) (*core.SinkResult, error) {
	if s.writer == nil {
		return nil, errors.New(errors.CodeWriteFailed, "sink not open")
	}

	if err := s.writer.Close(); err != nil {
		return nil, errors.Wrap(err, errors.CodeWriteFailed, "failed to close writer")
	}
	s.writer = nil

	var bytesWritten int64
	if info, err := s.file.Stat(); err == nil {
		bytesWritten = info.Size()
	}
	if err := s.file.Close(); err != nil {
		return nil, errors.Wrap(err, errors.CodeWriteFailed, "failed to close output file")
	}
	s.file = nil

	return &core.SinkResult{
		Path:         s.opts.Path,
		RowsWritten:  s.rowsWritten,
		BytesWritten: bytesWritten,
		Duration:     time.Since(s.startTime),
	}, nil
}

// Abort cancels the write and removes the partial file.
func (s *ArrowIPCSink) Abort() error {
	if s.writer != nil {
		s.writer.Close()
		s.writer = nil
	}
	if s.file != nil {
		s.file.Close()
		s.file = nil
		os.Remove(s.opts.Path)
	}
	return nil
}
