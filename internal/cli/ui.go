package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/porenet/pkg/sweep"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links, water
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// stdout receives all human-readable command output.
var stdout io.Writer = os.Stdout

// emit writes one status line: a styled icon, then the formatted message.
func emit(icon string, iconStyle, msgStyle lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(stdout, iconStyle.Render(icon)+" "+msgStyle.Render(fmt.Sprintf(format, args...)))
}

var plain = lipgloss.NewStyle()

func printSuccess(format string, args ...any) {
	emit(iconSuccess, styleIconSuccess, plain, format, args...)
}

func printError(format string, args ...any) {
	emit(iconError, styleIconError, plain, format, args...)
}

func printWarning(format string, args ...any) {
	emit(iconWarning, styleIconWarning, StyleWarning, format, args...)
}

func printInfo(format string, args ...any) {
	emit(iconInfo, styleIconInfo, plain, format, args...)
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a written output file.
func printFile(path string) {
	emit(" "+iconArrow, StyleDim, StyleValue, "%s", path)
}

var styleKey = lipgloss.NewStyle().Foreground(colorGray).Width(12)

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints run statistics on a single line.
func printStats(variants, pores, steps int, cached bool) {
	parts := []string{
		fmt.Sprintf("%d variants", variants),
		fmt.Sprintf("%d pores", pores),
		fmt.Sprintf("%d steps", steps),
	}

	status := styleComputed.Render(iconFresh)
	if cached {
		status = styleCached.Render(iconCached)
	}
	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}
	sep := StyleDim.Render(" · ")
	fmt.Fprintln(stdout, "  "+strings.Join(parts, sep)+sep+status)
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Series Table
// =============================================================================

// seriesRows summarizes each series: size, surface count, and the fraction
// half way through and at the end of the sweep.
func seriesRows(series []*sweep.Series) [][]string {
	rows := make([][]string, 0, len(series))
	for _, s := range series {
		final := s.Final()
		mid := sweep.Record{}
		if len(s.Records) > 0 {
			mid = s.Records[len(s.Records)/2]
		}
		rows = append(rows, []string{
			s.Variant.Label(),
			s.Variant.Kind,
			strconv.Itoa(final.Total),
			strconv.Itoa(s.Surface),
			formatFraction(mid.Fraction),
			formatFraction(final.Fraction),
			formatFraction(final.TotalFraction),
			s.Elapsed.Round(time.Millisecond).String(),
		})
	}
	return rows
}

// renderSeriesTable renders the summary table of a run.
func renderSeriesTable(series []*sweep.Series) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Variant", "Kind", "Pores", "Surface", "Air@mid", "Air@end", "Total@end", "Time").
		Rows(seriesRows(series)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col == 0:
				return StyleValue
			case col >= 4 && col <= 6:
				return StyleNumber
			}
			return StyleDim
		}).
		Render()
}

func formatFraction(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}
