// internal/output/json.go
// JSON report document

package output

import (
	"encoding/json"
	"io"

	"github.com/aspnmy/stripescan/internal/models"
)

// JSONFormatter writes the report as one indented JSON document
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// jsonReport is the wire shape of a report
type jsonReport struct {
	Target    string   `json:"target"`
	Workers   uint16   `json:"workers"`
	OpenPorts []uint16 `json:"open_ports"`
	Elapsed   string   `json:"elapsed"`
}

// Name returns the format name
func (f *JSONFormatter) Name() string {
	return "json"
}

// Streams is false: stdout must stay valid JSON
func (f *JSONFormatter) Streams() bool {
	return false
}

// Format encodes the report
func (f *JSONFormatter) Format(w io.Writer, report models.Report) error {
	open := report.OpenPorts
	if open == nil {
		open = []uint16{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(jsonReport{
		Target:    report.Target.String(),
		Workers:   report.Workers,
		OpenPorts: open,
		Elapsed:   report.Elapsed.String(),
	})
}
