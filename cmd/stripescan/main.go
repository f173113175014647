// cmd/stripescan/main.go
// stripescan - concurrent TCP connect scanner

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/aspnmy/stripescan/internal/app"
	"github.com/aspnmy/stripescan/internal/args"
	"github.com/aspnmy/stripescan/internal/core"
	"github.com/aspnmy/stripescan/internal/output"
	"github.com/aspnmy/stripescan/internal/scanner"
	"github.com/aspnmy/stripescan/pkg/logger"
)

const defaultName = "stripescan"

// errUsage marks an argument error already reported to stderr.
var errUsage = errors.New("usage error")

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes one invocation and returns the process exit code.
func run(argv []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(programName(argv), stdout, stderr)

	rest := []string{}
	if len(argv) > 1 {
		rest = argv[1:]
	}
	cmd.SetArgs(rest)

	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func programName(argv []string) string {
	if len(argv) == 0 || argv[0] == "" {
		return defaultName
	}
	return filepath.Base(argv[0])
}

func newRootCmd(program string, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   program + " [-j <threads>] <ip-address>",
		Short: "Concurrent TCP connect scanner",
		Long: `Scan every TCP port of one IPv4 or IPv6 address.

The port space is striped across the worker count: worker i probes
ports i+1, i+1+n, i+1+2n, ... Each open port prints a '.' as it is
found, then the sorted list follows once every worker is done.

Environment:
  STRIPESCAN_CONFIG          optional YAML config file
  STRIPESCAN_OUTPUT_FORMAT   plain, table, json
  STRIPESCAN_LOG_LEVEL       debug, info, warn, error`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		CompletionOptions:  cobra.CompletionOptions{DisableDefaultCmd: true},
		RunE: func(cmd *cobra.Command, rest []string) error {
			cfg, err := args.Parse(append([]string{program}, rest...))
			if errors.Is(err, args.ErrHelp) {
				fmt.Fprintf(stdout, args.Usage, program)
				return nil
			}
			if err != nil {
				fmt.Fprintf(stderr, "%s problem parsing arguments: %v\n", program, err)
				return errUsage
			}

			return scan(cmd.Context(), map[string]interface{}{
				"scanner.target":  cfg.Target.String(),
				"scanner.workers": int(cfg.Workers),
			}, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

// scan resolves configuration, builds the pipeline and runs it once.
func scan(ctx context.Context, overrides map[string]interface{}, stdout, stderr io.Writer) error {
	engines := make([]string, 0, len(scanner.Registry))
	for name := range scanner.Registry {
		engines = append(engines, name)
	}
	slices.Sort(engines)

	cfg, warnings, err := core.Load(overrides, engines)
	if err != nil {
		return err
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	for _, w := range warnings {
		logger.Warn("Configuration warning", logger.String("detail", w))
	}

	scanCfg, err := cfg.ScanConfig()
	if err != nil {
		return err
	}

	opts := output.Options{Color: cfg.Output.Color}
	if f, ok := stdout.(*os.File); ok {
		opts.Out = f
	}
	formatter, err := output.Get(cfg.Output.Format, opts)
	if err != nil {
		return err
	}

	// Dots share stdout only with formats that tolerate them.
	progress := stdout
	if !formatter.Streams() {
		progress = stderr
	}

	engine, err := scanner.Get(cfg.Scanner.Engine, scanner.Options{Progress: progress})
	if err != nil {
		return err
	}

	scannerApp := app.NewScannerApp(app.ScannerDeps{
		Engine:    engine,
		Formatter: formatter,
		Progress:  progress,
		Out:       stdout,
	})
	defer func() {
		if err := scannerApp.Close(); err != nil {
			logger.Warn("Failed to close engine", logger.Err(err))
		}
	}()

	logger.Debug("Configuration resolved",
		logger.String("engine", cfg.Scanner.Engine),
		logger.String("format", cfg.Output.Format),
		logger.Int("workers", cfg.Scanner.Workers),
	)

	_, err = scannerApp.Run(ctx, scanCfg)
	return err
}
