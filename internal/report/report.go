package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pyshrink/internal/cache"
)

var (
	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	totalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)
)

const indent = "    "

// Printer writes per-file results and the final summary to a terminal.
type Printer struct {
	out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// File prints one file's results. Files without findings stay silent.
func (p *Printer) File(result cache.FileResult) {
	if len(result.Results) == 0 {
		return
	}

	fmt.Fprintln(p.out, pathStyle.Render(result.AbsFilePath))
	fmt.Fprintf(p.out, "Potentially saved bytes: %d\n", result.SavedBytes)
	for _, outcome := range result.Results {
		fmt.Fprintf(p.out, "%s%s\n", indent, outcome.ValidatorName)
		for _, line := range outcome.Lines {
			fmt.Fprintf(p.out, "%s%s\n", indent+indent, line)
		}
	}
	fmt.Fprintln(p.out, strings.Repeat("*", 80))
}

// Total prints the overall byte estimate after all files.
func (p *Printer) Total(savedBytes int) {
	fmt.Fprintln(p.out, totalStyle.Render(fmt.Sprintf("Potentially saved bytes: %d", savedBytes)))
}

// Errors prints collected per-strategy failures. Three lines per
// failure, then a closing notice.
func (p *Printer) Errors(lines []string) {
	if len(lines) == 0 {
		return
	}
	for _, line := range lines {
		fmt.Fprintln(p.out, line)
	}
	fmt.Fprintln(p.out, errorStyle.Render("ERROR: There was some unexpected issue. Please check the output above."))
}
