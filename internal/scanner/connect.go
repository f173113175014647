// internal/scanner/connect.go
// TCP connect scanner: one goroutine per port stripe, single fan-in channel

package scanner

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aspnmy/stripescan/internal/models"
	"github.com/aspnmy/stripescan/pkg/logger"
	"github.com/aspnmy/stripescan/pkg/stripe"
)

// ConnectScanner probes every port with a full TCP handshake.
//
// Ports are split by residue class (see pkg/stripe), so workers never share
// a cursor. The results channel is the only thing they share.
type ConnectScanner struct {
	dialer   Dialer
	progress io.Writer
	log      *zap.Logger
}

// NewConnectScanner creates a connect scanner.
// A nil dialer means a net.Dialer with no timeout: an unanswered SYN blocks
// for the platform's connect timeout, so very large worker counts against
// filtered hosts look hung.
func NewConnectScanner(opts Options) *ConnectScanner {
	d := opts.Dialer
	if d == nil {
		d = &net.Dialer{KeepAlive: -1}
	}
	p := opts.Progress
	if p == nil {
		p = io.Discard
	}
	return &ConnectScanner{
		dialer:   d,
		progress: p,
		log:      logger.Named("scanner"),
	}
}

// Name returns scanner name
func (s *ConnectScanner) Name() string {
	return "connect"
}

// Scan starts cfg.Workers goroutines and returns the shared results channel.
// The channel is closed only after all of them have returned.
func (s *ConnectScanner) Scan(ctx context.Context, cfg models.ScanConfig) (<-chan uint16, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &ScannerError{Message: "invalid scan config", Cause: err}
	}

	stripes, err := stripe.Plan(cfg.Workers)
	if err != nil {
		return nil, &ScannerError{Message: "failed to plan stripes", Cause: err}
	}

	results := make(chan uint16, len(stripes))
	g, gctx := errgroup.WithContext(ctx)

	s.log.Debug("starting workers",
		zap.String("target", cfg.Target.String()),
		zap.Uint16("workers", cfg.Workers),
	)

	start := time.Now()
	for _, st := range stripes {
		g.Go(func() error {
			return s.scanStripe(gctx, cfg, st, results)
		})
	}

	go func() {
		if err := g.Wait(); err != nil {
			s.log.Warn("scan stopped early", zap.Error(err))
		}
		s.log.Debug("all workers finished", zap.Duration("elapsed", time.Since(start)))
		close(results)
	}()

	return results, nil
}

// scanStripe probes one stripe. Only context cancellation ends it early.
func (s *ConnectScanner) scanStripe(ctx context.Context, cfg models.ScanConfig, st stripe.Stripe, results chan<- uint16) error {
	found := 0
	for port := range st.Ports() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("stripe %s: %w", st, err)
		}

		if !s.probe(ctx, cfg.Address(port)) {
			continue
		}
		found++

		// Progress marks are cosmetic; a failed write is not a scan failure.
		_, _ = io.WriteString(s.progress, ".")
		results <- port
	}

	s.log.Debug("stripe done",
		zap.Stringer("stripe", st),
		zap.Int("open", found),
	)
	return nil
}

// probe reports whether a TCP handshake to address completes.
// Every dial error (refused, filtered, unreachable) counts as closed.
func (s *ConnectScanner) probe(ctx context.Context, address string) bool {
	conn, err := s.dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// Close cleans up resources
func (s *ConnectScanner) Close() error {
	return nil
}

// ConnectEngineFactory creates a connect scanner from options
func ConnectEngineFactory(opts Options) (Engine, error) {
	return NewConnectScanner(opts), nil
}

func init() {
	Register("connect", ConnectEngineFactory)
}
