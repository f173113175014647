// internal/output/plain.go
// Plain text report: one "<port> is open" line per port

package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/aspnmy/stripescan/internal/models"
)

// PlainFormatter writes the classic line-per-port report
type PlainFormatter struct{}

// NewPlainFormatter creates a plain formatter
func NewPlainFormatter() *PlainFormatter {
	return &PlainFormatter{}
}

// Name returns the format name
func (f *PlainFormatter) Name() string {
	return "plain"
}

// Streams is true: the dots and the report share stdout
func (f *PlainFormatter) Streams() bool {
	return true
}

// Format writes one line per open port in report order
func (f *PlainFormatter) Format(w io.Writer, report models.Report) error {
	bw := bufio.NewWriter(w)
	for _, port := range report.OpenPorts {
		if _, err := fmt.Fprintf(bw, "%d is open\n", port); err != nil {
			return err
		}
	}
	return bw.Flush()
}
