// internal/output/table.go
// Lipgloss table report

package output

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/aspnmy/stripescan/internal/models"
)

// TableFormatter renders open ports as a bordered table
type TableFormatter struct {
	color bool
}

// NewTableFormatter creates a table formatter
func NewTableFormatter(color bool) *TableFormatter {
	return &TableFormatter{color: color}
}

// Name returns the format name
func (f *TableFormatter) Name() string {
	return "table"
}

// Streams is true: dots end before the table starts
func (f *TableFormatter) Streams() bool {
	return true
}

// Format writes the table followed by a summary line
func (f *TableFormatter) Format(w io.Writer, report models.Report) error {
	if len(report.OpenPorts) == 0 {
		_, err := fmt.Fprintf(w, "No open ports found on %s\n", report.Target)
		return err
	}

	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	headerStyle := cellStyle.Bold(true)
	openStyle := cellStyle
	borderStyle := lipgloss.NewStyle()

	if f.color {
		headerStyle = headerStyle.
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))
		openStyle = cellStyle.Foreground(lipgloss.Color("#04B575"))
		borderStyle = borderStyle.Foreground(lipgloss.Color("#7D56F4"))
	}

	rows := make([][]string, len(report.OpenPorts))
	for i, port := range report.OpenPorts {
		rows[i] = []string{strconv.Itoa(int(port)), "open"}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("PORT", "STATE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 1 {
				return openStyle
			}
			return cellStyle
		})

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nTotal: %d open on %s (%d workers, %s)\n",
		len(report.OpenPorts), report.Target, report.Workers, report.Elapsed.Round(time.Millisecond))
	return err
}
