package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// ParseFlags parses command-line flags and returns a Config.
// Everything after the first positional argument is forwarded to the
// subordinate command verbatim, so subordinate flags never collide
// with isorun's own.
func ParseFlags() (*Config, error) {
	cfg := DefaultConfig()

	// Custom usage message
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `isorun - run a command in an isolated process group with a hard timeout

Usage:
  isorun [flags] <command> [args...]

All arguments after <command> are passed through verbatim. The command's
stdout is relayed verbatim on success; its stderr is discarded unless
-capture-stderr is set. On timeout the command's entire process group is
killed before isorun exits.

Exit codes:
  0  command completed within the timeout (regardless of its exit code)
  1  timeout, launch failure, or unexpected error

Supervision Flags:
`)
		printFlagCategory([]string{"timeout", "capture-stderr"})

		fmt.Fprintf(os.Stderr, "\nProvisioning:\n")
		printFlagCategory([]string{"build", "build-timeout"})

		fmt.Fprintf(os.Stderr, "\nObservability:\n")
		printFlagCategory([]string{"metrics-file", "v", "log-format"})

		fmt.Fprintf(os.Stderr, "\nBench / Diagnostics:\n")
		printFlagCategory([]string{"bench", "runs", "print-cmd"})

		fmt.Fprintf(os.Stderr, `
Examples:
  # Ask a device CLI for status, never hang more than 5 seconds
  isorun rmesh info

  # Build the subordinate on first run, then supervise it
  isorun -build "go build -o ./bin/rmesh ./cmd/rmesh" ./bin/rmesh info

  # Check whether a command reliably fits a 2 second budget
  isorun -bench -runs 20 -timeout 2s ./bin/rmesh info

`)
	}

	// Supervision
	flag.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Wall-clock budget before the process group is killed")
	flag.BoolVar(&cfg.CaptureStderr, "capture-stderr", cfg.CaptureStderr, "Log the command's stderr instead of discarding it")

	// Provisioning
	flag.StringVar(&cfg.BuildCmd, "build", cfg.BuildCmd, "Command run to build the subordinate when it is missing")
	flag.DurationVar(&cfg.BuildTimeout, "build-timeout", cfg.BuildTimeout, "Budget for the build step")

	// Observability
	flag.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "Write Prometheus textfile-collector metrics here at exit")
	flag.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Verbose logging")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, `Log format: "json" or "text"`)

	// Bench / Diagnostics
	flag.BoolVar(&cfg.Bench, "bench", cfg.Bench, "Run the command repeatedly and report duration percentiles")
	flag.IntVar(&cfg.Runs, "runs", cfg.Runs, "Invocations in bench mode")
	flag.BoolVar(&cfg.PrintCmd, "print-cmd", cfg.PrintCmd, "Print the resolved command and exit")

	// Parse
	flag.Parse()

	// Positional arguments: subordinate command + pass-through args
	cfg.Command = flag.Args()

	return cfg, nil
}

// printFlagCategory prints flags matching the given names (helper for usage).
func printFlagCategory(names []string) {
	flag.VisitAll(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				fmt.Fprintf(os.Stderr, "  -%s %s\n    \t%s", f.Name, flagType(f), f.Usage)
				if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" && f.DefValue != "0s" && f.DefValue != "[]" {
					fmt.Fprintf(os.Stderr, " (default %s)", f.DefValue)
				}
				fmt.Fprintln(os.Stderr)
				return
			}
		}
	})
}

// flagType returns a type hint for the flag value.
func flagType(f *flag.Flag) string {
	// Infer type from default value format
	switch f.DefValue {
	case "true", "false":
		return ""
	}

	// Check if it looks like a duration
	if strings.HasSuffix(f.DefValue, "s") || strings.HasSuffix(f.DefValue, "m") || strings.HasSuffix(f.DefValue, "h") {
		return "duration"
	}

	// Check if numeric
	if _, err := fmt.Sscanf(f.DefValue, "%d", new(int)); err == nil {
		return "int"
	}

	return "string"
}
