// Package main provides the isorun CLI entry point.
//
// isorun runs a subordinate command in an isolated process group with a
// hard wall-clock timeout, guaranteeing that the command and everything
// it spawned are dead before a timeout is reported. The subordinate's
// stdout is relayed verbatim; nothing else is ever written to stdout.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/randomizedcoder/isorun/internal/config"
	"github.com/randomizedcoder/isorun/internal/invoke"
	"github.com/randomizedcoder/isorun/internal/logging"
	"github.com/randomizedcoder/isorun/internal/metrics"
	"github.com/randomizedcoder/isorun/internal/provision"
	"github.com/randomizedcoder/isorun/internal/stats"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/isorun
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Handle version flag early (before flag parsing)
	if len(os.Args) > 1 {
		arg := os.Args[1]
		if arg == "-version" || arg == "--version" || arg == "version" {
			fmt.Printf("isorun %s\n", version)
			return 0
		}
	}

	// Parse command-line flags
	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		return 1
	}

	// Initialize logger (stderr only: stdout belongs to the subordinate)
	logger := logging.NewLogger(cfg.LogFormat, "info", cfg.Verbose)
	logging.SetDefault(logger)

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}

	command := invoke.Command{Path: cfg.Command[0], Args: cfg.Command[1:]}

	// Handle -print-cmd mode
	if cfg.PrintCmd {
		fmt.Fprintln(os.Stderr, command.String())
		return 0
	}

	collector := metrics.NewCollector()

	// Ensure the subordinate binary exists before supervising. Only
	// meaningful when a build command is configured: PATH-resolved
	// commands are left to the launch itself.
	if buildArgv := cfg.BuildArgv(); len(buildArgv) > 0 {
		prov := provision.New(provision.Config{
			BuildArgv:    buildArgv,
			BuildTimeout: cfg.BuildTimeout,
			Logger:       logger,
		})
		if err := prov.Ensure(context.Background(), command.Path); err != nil {
			collector.RecordBuild("failure")
			writeMetrics(collector, cfg, logger)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		collector.RecordBuild("success")
	}

	// Subordinate stderr is discarded unless capture is enabled.
	var stderrHandler *logging.StderrHandler
	var stderrWriter io.Writer
	if cfg.CaptureStderr {
		stderrHandler = logging.NewStderrHandler(logger, cfg.Verbose)
		stderrWriter = stderrHandler
	}

	var recorder *stats.Recorder
	if cfg.Bench {
		recorder = stats.NewRecorder()
	}

	inv := invoke.New(invoke.Config{
		Timeout: cfg.Timeout,
		Logger:  logger,
		Stderr:  stderrWriter,
		Callbacks: invoke.Callbacks{
			OnExit: func(outcome invoke.Outcome, elapsed time.Duration) {
				collector.RecordInvocation(outcome.String(), elapsed)
				if recorder != nil {
					recorder.Record(outcome.String(), elapsed)
				}
			},
		},
	})

	if cfg.Bench {
		return runBench(inv, command, cfg, recorder, collector, logger)
	}

	result := inv.Invoke(context.Background(), command)
	if stderrHandler != nil {
		stderrHandler.Flush()
	}
	writeMetrics(collector, cfg, logger)

	switch result.Outcome {
	case invoke.OutcomeCompleted:
		io.WriteString(os.Stdout, result.Output)
		return 0
	case invoke.OutcomeTimedOut:
		fmt.Fprintln(os.Stderr, "Command timed out")
		return 1
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", result.Err)
		return 1
	}
}

// runBench invokes the command cfg.Runs times and prints duration
// percentiles. Subordinate stdout is captured but not relayed: bench
// mode measures, it does not proxy.
func runBench(inv *invoke.Invoker, command invoke.Command, cfg *config.Config, recorder *stats.Recorder, collector *metrics.Collector, logger *slog.Logger) int {
	logger.Info("bench_starting",
		"command", command.String(),
		"runs", cfg.Runs,
		"timeout", cfg.Timeout.String(),
	)

	for i := 0; i < cfg.Runs; i++ {
		result := inv.Invoke(context.Background(), command)
		if result.Outcome == invoke.OutcomeLaunchFailed {
			// A missing binary will not fix itself between runs.
			writeMetrics(collector, cfg, logger)
			fmt.Fprintf(os.Stderr, "Error: %v\n", result.Err)
			return 1
		}
	}

	fmt.Fprint(os.Stderr, stats.FormatBenchSummary(recorder, stats.SummaryConfig{
		Command: command.String(),
		Timeout: cfg.Timeout,
		Runs:    cfg.Runs,
	}))
	writeMetrics(collector, cfg, logger)

	if recorder.Count("completed") != recorder.Total() {
		return 1
	}
	return 0
}

// writeMetrics writes the textfile-collector export when configured.
func writeMetrics(collector *metrics.Collector, cfg *config.Config, logger *slog.Logger) {
	if cfg.MetricsFile == "" {
		return
	}
	if err := collector.WriteTextfile(cfg.MetricsFile); err != nil {
		logger.Warn("metrics_textfile_failed",
			"path", cfg.MetricsFile,
			"error", err,
		)
	}
}
