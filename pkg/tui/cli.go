// Package tui renders catflow's terminal output: run headers, per-file
// progress, and the final extraction report.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"
)

// Colors
var (
	muted   = lipgloss.Color("#666666")
	success = lipgloss.Color("#00CC66")
	white   = lipgloss.Color("#FFFFFF")
)

// Styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(white)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	successStyle = lipgloss.NewStyle().Foreground(success).Bold(true)
)

// PrintRunHeader prints the banner for one extraction run.
func PrintRunHeader(table string, files int, output string) {
	fmt.Println()
	fmt.Println(titleStyle.Render("  CATFLOW") + mutedStyle.Render("  .CAT → Parquet extractor"))
	fmt.Printf("  %s %s\n", mutedStyle.Render("Table:"), titleStyle.Render(table))
	fmt.Printf("  %s %s\n", mutedStyle.Render("Files:"), titleStyle.Render(fmt.Sprintf("%d", files)))
	fmt.Printf("  %s %s\n", mutedStyle.Render("Output:"), titleStyle.Render(output))
	fmt.Println()
}

// ClearLine clears the current line.
func ClearLine() {
	fmt.Print("\r\033[K")
}

// ExtractionReport holds the figures printed after a run.
type ExtractionReport struct {
	Table       string
	RowsWritten int64
	Chunks      int
	Files       int
	InputSize   int64
	OutputSize  int64
	OutputPath  string
	Duration    time.Duration
}

// PrintExtractionReport prints results after a completed run.
func PrintExtractionReport(r *ExtractionReport) {
	fmt.Println()
	if r.OutputPath == "" {
		fmt.Println(successStyle.Render("  ✓ RUN COMPLETE") + mutedStyle.Render("  (no matching records, no output written)"))
		fmt.Println()
		return
	}

	fmt.Println(successStyle.Render("  ✓ EXTRACTION COMPLETE"))
	fmt.Println()
	fmt.Printf("  %s %s rows in %d chunks from %d files\n",
		mutedStyle.Render("Rows:"),
		titleStyle.Render(formatNumber(r.RowsWritten)), r.Chunks, r.Files)

	if r.InputSize > 0 && r.OutputSize > 0 {
		ratio := float64(r.InputSize) / float64(r.OutputSize)
		fmt.Printf("  %s %s → %s %s\n",
			mutedStyle.Render("Size:"),
			formatBytes(r.InputSize),
			formatBytes(r.OutputSize),
			successStyle.Render(fmt.Sprintf("(%.1fx compression)", ratio)))
	}

	if r.Duration > 0 {
		throughput := float64(r.RowsWritten) / r.Duration.Seconds()
		fmt.Printf("  %s %s %s\n",
			mutedStyle.Render("Time:"),
			titleStyle.Render(formatDuration(r.Duration)),
			mutedStyle.Render(fmt.Sprintf("(%s rows/sec)", formatNumber(int64(throughput)))))
	}

	fmt.Printf("  %s %s\n", mutedStyle.Render("File:"), titleStyle.Render(r.OutputPath))
	fmt.Println()
}

// ShowProgress creates a progress bar sized to a byte total.
func ShowProgress(total int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "",
			BarEnd:        "",
		}),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}

func formatNumber(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000)
}

// FormatBytes renders a byte count in human-readable form.
func FormatBytes(b int64) string {
	return formatBytes(b)
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
