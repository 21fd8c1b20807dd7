// catflow - Spanish cadastral .CAT exchange file extractor
// Converts fixed-width .CAT tables to Apache Parquet datasets.
package main

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/catflow/catflow/pkg/errors"
	"github.com/catflow/catflow/pkg/layout"
)

var (
	version = "1.1.0"
	commit  = "dev"
)

// Global flags
var (
	verbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if verbose {
			var cfErr *errors.CatflowError
			if stderrors.As(err, &cfErr) {
				fmt.Fprintln(os.Stderr, cfErr.FormatStack())
			}
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "catflow",
	Short: "catflow - Extract Spanish cadastral .CAT tables to Parquet",
	Long: `catflow streams fixed-width Spanish cadastral (.CAT) exchange files and
extracts one record-type table per run into a columnar Parquet dataset,
holding only a bounded number of lines in memory at any time.`,
	Version:       fmt.Sprintf("%s (%s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: false,
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the supported record-type tables",
	RunE:  runTables,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(watchCmd)
}

func runTables(cmd *cobra.Command, args []string) error {
	fmt.Printf("%-8s %-8s %-8s %s\n", "Table", "Fields", "Output", "Numeric columns")
	fmt.Printf("%-8s %-8s %-8s %s\n", strings.Repeat("-", 6), strings.Repeat("-", 6), strings.Repeat("-", 6), strings.Repeat("-", 20))

	for _, code := range layout.Supported() {
		l, err := layout.Get(code)
		if err != nil {
			return err
		}

		cols := l.Columns()
		var numeric []string
		for _, c := range cols {
			if c.Kind == layout.ColumnNumber {
				numeric = append(numeric, c.Name)
			}
		}
		numericStr := strings.Join(numeric, ",")
		if numericStr == "" {
			numericStr = "-"
		}
		fmt.Printf("%-8s %-8d %-8d %s\n", code, len(l.FieldNames), len(cols), numericStr)
	}

	return nil
}
