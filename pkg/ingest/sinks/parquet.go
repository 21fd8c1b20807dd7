// Package sinks provides output sink implementations.
package sinks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/parquet"
	"github.com/apache/arrow/go/v14/parquet/compress"
	"github.com/apache/arrow/go/v14/parquet/pqarrow"

	"github.com/catflow/catflow/pkg/errors"
	"github.com/catflow/catflow/pkg/ingest/core"
)

const catflowVersion = "1.1.0"

// ParquetSink writes Arrow records to a Parquet file.
// Uses atomic writes (write to temp file, rename on success) so an
// aborted run never leaves a partial file under the final name.
type ParquetSink struct {
	path        string
	tempPath    string
	schema      *arrow.Schema
	opts        core.SinkOptions
	writer      *pqarrow.FileWriter
	file        *os.File
	rowsWritten int64
	startTime   time.Time
}

// NewParquetSink creates a Parquet sink.
func NewParquetSink() *ParquetSink {
	return &ParquetSink{}
}

// Open prepares the sink for writing.
func (s *ParquetSink) Open(ctx context.Context, schema *arrow.Schema, opts core.SinkOptions) error {
	s.path = opts.Path
	s.opts = opts
	s.startTime = time.Now()

	// Stamp run lineage into the footer.
	metaKeys := []string{
		"catflow.version",
		"catflow.created_at",
		"catflow.schema_fields",
	}
	metaValues := []string{
		catflowVersion,
		s.startTime.Format(time.RFC3339),
		fmt.Sprintf("%d", schema.NumFields()),
	}
	for k, v := range opts.Metadata {
		metaKeys = append(metaKeys, "catflow."+k)
		metaValues = append(metaValues, v)
	}

	schemaMeta := arrow.NewMetadata(metaKeys, metaValues)
	s.schema = arrow.NewSchema(schema.Fields(), &schemaMeta)

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrap(err, errors.CodeWriteFailed, "failed to create output directory")
	}

	s.tempPath = fmt.Sprintf("%s.tmp.%d", s.path, time.Now().UnixNano())
	file, err := os.Create(s.tempPath)
	if err != nil {
		return errors.Wrap(err, errors.CodeWriteFailed, "failed to create temp file")
	}
	s.file = file

	writerProps := parquet.NewWriterProperties(
		parquet.WithCompression(codecFor(opts.Compression)),
		parquet.WithDictionaryDefault(opts.DictionaryEncoding),
		parquet.WithStats(opts.Statistics),
		parquet.WithCreatedBy("catflow "+catflowVersion),
	)

	arrowProps := pqarrow.NewArrowWriterProperties(
		pqarrow.WithStoreSchema(),
	)

	writer, err := pqarrow.NewFileWriter(s.schema, file, writerProps, arrowProps)
	if err != nil {
		file.Close()
		os.Remove(s.tempPath)
		return errors.Wrap(err, errors.CodeWriteFailed, "failed to create Parquet writer")
	}
	s.writer = writer

	return nil
}

// Write appends a record to the sink.
func (s *ParquetSink) Write(ctx context.Context, record arrow.Record) error {
	if s.writer == nil {
		return errors.New(errors.CodeWriteFailed, "sink not open")
	}

	if err := s.writer.Write(record); err != nil {
		return errors.Wrap(err, errors.CodeWriteFailed, "failed to write batch")
	}

	s.rowsWritten += record.NumRows()
	return nil
}

// Close finalizes and closes the sink, renaming the temp file to the
// final path only on success.
func (s *ParquetSink) Close(ctx context.Context) (*core.SinkResult, error) {
	if s.writer == nil {
		return nil, errors.New(errors.CodeWriteFailed, "sink not open")
	}

	// Closing the writer also closes the underlying file.
	if err := s.writer.Close(); err != nil {
		os.Remove(s.tempPath)
		return nil, errors.Wrap(err, errors.CodeWriteFailed, "failed to close writer")
	}
	s.writer = nil
	s.file = nil

	if err := os.Rename(s.tempPath, s.path); err != nil {
		os.Remove(s.tempPath)
		return nil, errors.Wrap(err, errors.CodeWriteFailed, "failed to rename temp file to final path")
	}

	var bytesWritten int64
	if info, err := os.Stat(s.path); err == nil {
		bytesWritten = info.Size()
	}

	return &core.SinkResult{
		Path:         s.path,
		RowsWritten:  s.rowsWritten,
		BytesWritten: bytesWritten,
		Duration:     time.Since(s.startTime),
	}, nil
}

// Abort cancels the write and removes the temp file.
func (s *ParquetSink) Abort() error {
	if s.writer != nil {
		s.writer.Close()
		s.writer = nil
	}
	if s.file != nil {
		s.file.Close()
		s.file = nil
	}
	if s.tempPath != "" {
		os.Remove(s.tempPath)
	}
	return nil
}

// codecFor converts the compression enum to a Parquet codec.
func codecFor(c core.Compression) compress.Compression {
	switch c {
	case core.CompressionSnappy:
		return compress.Codecs.Snappy
	case core.CompressionGzip:
		return compress.Codecs.Gzip
	case core.CompressionLZ4:
		return compress.Codecs.Lz4
	case core.CompressionZstd:
		return compress.Codecs.Zstd
	default:
		return compress.Codecs.Uncompressed
	}
}
