package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/catflow/catflow/pkg/inspect"
)

var previewLimit int

var inspectCmd = &cobra.Command{
	Use:   "inspect [file.parquet]",
	Short: "Show schema, row count, and a preview of a produced Parquet file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().IntVar(&previewLimit, "limit", 10, "Rows to preview (0 = schema and count only)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	ins, err := inspect.NewInspector()
	if err != nil {
		return err
	}
	defer ins.Close()

	columns, err := ins.Schema(path)
	if err != nil {
		return err
	}

	count, err := ins.RowCount(path)
	if err != nil {
		return err
	}

	fmt.Printf("File: %s\n", path)
	fmt.Printf("Rows: %d\n\n", count)
	fmt.Printf("%-20s %s\n", "Column", "Type")
	fmt.Printf("%-20s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 20))
	for _, col := range columns {
		fmt.Printf("%-20s %s\n", col.Name, col.Type)
	}

	if previewLimit <= 0 || count == 0 {
		return nil
	}

	names, rows, err := ins.Preview(path, previewLimit)
	if err != nil {
		return err
	}

	fmt.Printf("\nPreview (%d rows):\n", len(rows))
	fmt.Println(strings.Join(names, " | "))
	for _, row := range rows {
		fmt.Println(strings.Join(row, " | "))
	}

	return nil
}
