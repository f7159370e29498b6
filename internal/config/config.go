// Package config provides configuration management for isorun.
package config

import (
	"strings"
	"time"
)

// Config holds all configuration options for a supervised invocation.
type Config struct {
	// Supervision
	Timeout time.Duration `json:"timeout"`

	// Provisioning
	BuildCmd     string        `json:"build_cmd"`
	BuildTimeout time.Duration `json:"build_timeout"`

	// Subordinate streams
	CaptureStderr bool `json:"capture_stderr"`

	// Observability
	LogFormat   string `json:"log_format"` // json, text
	Verbose     bool   `json:"verbose"`
	MetricsFile string `json:"metrics_file"`

	// Bench mode
	Bench bool `json:"bench"`
	Runs  int  `json:"runs"`

	// Diagnostic modes
	PrintCmd bool `json:"print_cmd"`

	// Command is the subordinate executable plus its pass-through
	// argument list, taken verbatim from the positional arguments.
	Command []string `json:"command"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		// A small number of seconds: long enough for an interactive
		// tool to answer, short enough that a caller is never left
		// hanging.
		Timeout: 5 * time.Second,

		BuildTimeout: 2 * time.Minute,

		LogFormat: "text",
		Runs:      10,
	}
}

// BuildArgv returns the build command split into an argument vector,
// or nil when no build command is configured.
func (c *Config) BuildArgv() []string {
	if strings.TrimSpace(c.BuildCmd) == "" {
		return nil
	}
	return strings.Fields(c.BuildCmd)
}
