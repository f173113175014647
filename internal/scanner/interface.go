// internal/scanner/interface.go
// Scanner engine interface definitions

package scanner

import (
	"context"
	"fmt"
	"io"
	"net"

	"github.com/aspnmy/stripescan/internal/models"
)

// Engine is the interface for all scanning engines
type Engine interface {
	// Name returns the scanner name
	Name() string

	// Scan probes the target's port space and streams open ports.
	// The returned channel is closed once every worker has finished.
	Scan(ctx context.Context, cfg models.ScanConfig) (<-chan uint16, error)

	// Close cleans up resources
	Close() error
}

// Dialer opens TCP connections. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Options carries what a factory needs to build an engine
type Options struct {
	Dialer   Dialer    // nil = platform default dialer
	Progress io.Writer // receives one '.' per discovery; nil = discard
}

// EngineFactory creates scanner engines
type EngineFactory func(opts Options) (Engine, error)

// Registry holds available scanner engines
var Registry = make(map[string]EngineFactory)

// Register registers a scanner engine
func Register(name string, factory EngineFactory) {
	Registry[name] = factory
}

// Get creates a scanner engine by name
func Get(name string, opts Options) (Engine, error) {
	factory, ok := Registry[name]
	if !ok {
		return nil, &ScannerError{Message: fmt.Sprintf("engine %q", name), Cause: ErrEngineNotFound}
	}
	return factory(opts)
}

// ErrEngineNotFound is returned when engine name is not registered
var ErrEngineNotFound = &ScannerError{Message: "scanner engine not found"}

// ScannerError represents a scanner-specific error
type ScannerError struct {
	Message string
	Cause   error
}

func (e *ScannerError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ScannerError) Unwrap() error {
	return e.Cause
}
