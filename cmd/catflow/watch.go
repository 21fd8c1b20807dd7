package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/catflow/catflow/pkg/config"
	"github.com/catflow/catflow/pkg/extract"
	"github.com/catflow/catflow/pkg/ingest/sources"
	"github.com/catflow/catflow/pkg/tui"
	"github.com/catflow/catflow/pkg/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a folder and extract a table from each arriving .CAT file",
	Long: `Watch an input folder for new or rewritten .CAT files and extract the
given table from each one as it settles. Every file produces its own
output dataset, named CAT<table>-<file>.parquet.

Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&inputFolder, "input-folder", "i", "", "Folder to watch for .CAT files (required)")
	watchCmd.Flags().StringVarP(&tableFlag, "table", "t", "", "Record-type table to extract (required)")
	watchCmd.Flags().IntVar(&chunkSizeFlag, "chunk-size", 0, "Lines per chunk (default from config: 1000000)")
	watchCmd.Flags().StringVar(&encodingFlag, "encoding", "", "Source encoding (cp1252, latin1, utf-8)")
	watchCmd.Flags().StringVar(&compressionFlag, "compression", "", "Output compression (snappy, gzip, zstd, lz4, none)")
	watchCmd.Flags().StringVar(&outputFormat, "format", "parquet", "Output format (parquet, ipc)")
	watchCmd.MarkFlagRequired("input-folder")
	watchCmd.MarkFlagRequired("table")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := config.Global().Get()

	// Fail on a bad table or encoding before the watch loop starts.
	baseOpts, err := extractOptions()
	if err != nil {
		return err
	}
	probe, err := newSink(outputFormat)
	if err != nil {
		return err
	}
	if _, err := extract.New(baseOpts, probe); err != nil {
		return err
	}

	debounce := time.Duration(cfg.Watch.DebounceMillis) * time.Millisecond
	watcher, err := watch.NewWatcher(inputFolder, debounce)
	if err != nil {
		return err
	}
	defer watcher.Close()

	ctx, cancel := signalContext()
	defer cancel()

	watcher.OnFile = func(path string) error {
		return extractFile(ctx, baseOpts, path)
	}
	watcher.OnError = func(path string, err error) {
		if path != "" {
			fmt.Fprintf(os.Stderr, "watch: %s: %v\n", filepath.Base(path), err)
		} else {
			fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		}
	}

	fmt.Printf("Watching %s for .CAT files (table %s). Ctrl+C to stop.\n", inputFolder, tableFlag)

	if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// extractFile runs one extraction over a single settled file.
func extractFile(ctx context.Context, baseOpts extract.Options, path string) error {
	opts := baseOpts
	opts.OutputPath = watchOutputPath(baseOpts.OutputPath, path)
	opts.OnProgress = nil

	sink, err := newSink(outputFormat)
	if err != nil {
		return err
	}
	extractor, err := extract.New(opts, sink)
	if err != nil {
		return err
	}

	src, err := sources.NewFileSource(path)
	if err != nil {
		return err
	}

	fmt.Printf("Processing %s...\n", filepath.Base(path))
	result, err := extractor.Run(ctx, sources.NewList(src))
	if err != nil {
		return err
	}

	if result.RowsWritten == 0 {
		fmt.Printf("  no table %s records in %s\n", opts.Table, filepath.Base(path))
		return nil
	}
	fmt.Printf("  wrote %d rows to %s (%s)\n",
		result.RowsWritten, result.OutputPath, tui.FormatBytes(result.BytesWritten))
	return nil
}

// watchOutputPath derives a per-file output name from the run-wide default,
// e.g. CAT11.parquet + municipio.cat -> CAT11-municipio.parquet.
func watchOutputPath(base, inputPath string) string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	name := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return stem + "-" + name + ext
}
