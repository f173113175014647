// internal/models/types.go
// Core data models for stripescan

package models

import (
	"fmt"
	"net/netip"
	"time"
)

// DefaultWorkers is the worker count used when none is given
const DefaultWorkers uint16 = 4

// ScanConfig is the immutable description of one scan
type ScanConfig struct {
	Target  netip.Addr
	Workers uint16
}

// Validate checks the target and worker count
func (c ScanConfig) Validate() error {
	if !c.Target.IsValid() {
		return fmt.Errorf("target address is not set")
	}
	if c.Workers == 0 {
		return fmt.Errorf("worker count must be between 1 and 65535")
	}
	return nil
}

// Address returns the dial address for port on the target
func (c ScanConfig) Address(port uint16) string {
	return netip.AddrPortFrom(c.Target, port).String()
}

// Report is the finished, sorted result of a scan
type Report struct {
	Target    netip.Addr    `json:"target"`
	Workers   uint16        `json:"workers"`
	OpenPorts []uint16      `json:"open_ports"`
	Elapsed   time.Duration `json:"elapsed"`
}
