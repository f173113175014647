// internal/collector/collector.go
// Single-consumer aggregation of open-port discoveries

package collector

import (
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/aspnmy/stripescan/pkg/logger"
)

// Collector drains a results channel fed by many workers. It is the only
// reader and the only writer of its accumulator.
type Collector struct {
	log      *zap.Logger
	progress rate.Sometimes
}

// New creates a collector. Progress is logged at debug level at most once
// per interval while draining.
func New(interval time.Duration) *Collector {
	return NewWithLogger(interval, logger.Named("collector"))
}

// NewWithLogger creates a collector that logs to log
func NewWithLogger(interval time.Duration, log *zap.Logger) *Collector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{
		log:      log,
		progress: rate.Sometimes{First: 1, Interval: interval},
	}
}

// Collect receives until results is closed and returns the ports in
// ascending order. Closure is the only termination signal.
func (c *Collector) Collect(results <-chan uint16) []uint16 {
	var open []uint16
	for port := range results {
		open = append(open, port)
		c.progress.Do(func() {
			c.log.Debug("discoveries so far",
				zap.Int("open", len(open)),
				zap.Uint16("latest", port),
			)
		})
	}

	slices.Sort(open)
	c.log.Debug("collection finished", zap.Int("open", len(open)))
	return open
}

// Collect drains results with a default collector
func Collect(results <-chan uint16) []uint16 {
	return New(time.Second).Collect(results)
}
