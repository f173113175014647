// internal/args/args.go
// Command line parsing: `prog [-j <workers>] <ip>` and `prog -h|--help`

package args

import (
	"errors"
	"fmt"
	"net/netip"
	"strconv"

	"github.com/aspnmy/stripescan/internal/models"
)

// Sentinel errors for argument parsing
var (
	ErrNotEnoughArgs = errors.New("not enough arguments")
	ErrTooManyArgs   = errors.New("too many arguments")
	ErrThreadCount   = errors.New("failed to parse thread number")
	ErrAddress       = errors.New("not a valid IPADDR; must be IPv4 or IPv6")
	ErrInvalidSyntax = errors.New("invalid syntax")

	// ErrHelp is not a failure: the caller prints Usage and exits 0.
	ErrHelp = errors.New("help requested")
)

// Usage is printed for -h / --help
const Usage = `
Usage:
  %[1]s <ip-address>              scan with 4 workers
  %[1]s -j <threads> <ip-address> scan with the given number of workers
  %[1]s -h | --help               show this help message

Example:
  %[1]s -j 100 192.168.1.1
`

// Parse validates a full argument vector, program name included.
func Parse(argv []string) (models.ScanConfig, error) {
	switch {
	case len(argv) < 2:
		return models.ScanConfig{}, ErrNotEnoughArgs
	case len(argv) > 4:
		return models.ScanConfig{}, ErrTooManyArgs
	}

	first := argv[1]

	if addr, err := netip.ParseAddr(first); err == nil {
		if len(argv) != 2 {
			return models.ScanConfig{}, fmt.Errorf("%w: unexpected arguments after address", ErrInvalidSyntax)
		}
		return models.ScanConfig{Target: addr, Workers: models.DefaultWorkers}, nil
	}

	if isHelp(first) {
		if len(argv) != 2 {
			return models.ScanConfig{}, ErrTooManyArgs
		}
		return models.ScanConfig{}, ErrHelp
	}

	if first != "-j" {
		return models.ScanConfig{}, fmt.Errorf("%w: unknown argument %q", ErrInvalidSyntax, first)
	}
	if len(argv) != 4 {
		return models.ScanConfig{}, fmt.Errorf("%w: -j needs a thread count and an address", ErrInvalidSyntax)
	}

	workers, err := parseWorkers(argv[2])
	if err != nil {
		return models.ScanConfig{}, err
	}

	addr, err := netip.ParseAddr(argv[3])
	if err != nil {
		return models.ScanConfig{}, fmt.Errorf("%w: %q", ErrAddress, argv[3])
	}

	return models.ScanConfig{Target: addr, Workers: workers}, nil
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help"
}

func parseWorkers(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrThreadCount, s)
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: must be between 1 and 65535", ErrThreadCount)
	}
	return uint16(n), nil
}
