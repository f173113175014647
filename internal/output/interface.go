// internal/output/interface.go
// Report formatter interfaces

package output

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/aspnmy/stripescan/internal/models"
)

// Formatter renders a finished scan report
type Formatter interface {
	// Name returns the format name (plain, table, json)
	Name() string

	// Format writes the report to w
	Format(w io.Writer, report models.Report) error

	// Streams reports whether progress dots may share the report's stream
	Streams() bool
}

// Options configures formatter construction
type Options struct {
	Color string // auto, always, never
	Out   *os.File
}

// UseColor resolves the colour mode against the output stream
func (o Options) UseColor() bool {
	switch o.Color {
	case "always":
		return true
	case "never":
		return false
	}
	if o.Out == nil {
		return false
	}
	return isatty.IsTerminal(o.Out.Fd()) || isatty.IsCygwinTerminal(o.Out.Fd())
}

// FormatterFactory creates formatters by name
type FormatterFactory func(opts Options) (Formatter, error)

// Registry holds available formatters
var Registry = map[string]FormatterFactory{
	"plain": func(Options) (Formatter, error) { return NewPlainFormatter(), nil },
	"json":  func(Options) (Formatter, error) { return NewJSONFormatter(), nil },
	"table": func(o Options) (Formatter, error) { return NewTableFormatter(o.UseColor()), nil },
}

// Get creates a formatter by name
func Get(name string, opts Options) (Formatter, error) {
	factory, ok := Registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFormatterNotFound, name)
	}
	return factory(opts)
}

// ErrFormatterNotFound is returned when formatter name is not registered
var ErrFormatterNotFound = errors.New("formatter not found")
