package config

import (
	"flag"
	"strings"
	"testing"
	"time"
)

func TestFlagType(t *testing.T) {
	testCases := []struct {
		name     string
		defValue string
		expected string
	}{
		{"bool true", "true", ""},
		{"bool false", "false", ""},
		{"int", "42", "int"},
		{"string", "hello", "string"},
		{"duration seconds", "5s", "duration"},
		{"duration minutes", "5m", "duration"},
		{"duration hours", "1h", "duration"},
		{"empty", "", "string"},
		{"zero", "0", "int"},
		{"negative int", "-1", "int"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Create a mock flag
			f := &flag.Flag{
				Name:     "test",
				DefValue: tc.defValue,
			}
			result := flagType(f)
			if result != tc.expected {
				t.Errorf("flagType(%q) = %q, want %q", tc.defValue, result, tc.expected)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Verify critical defaults
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
	}
	if cfg.BuildTimeout != 2*time.Minute {
		t.Errorf("BuildTimeout = %v, want 2m", cfg.BuildTimeout)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "text")
	}
	if cfg.Runs != 10 {
		t.Errorf("Runs = %d, want 10", cfg.Runs)
	}
	if cfg.CaptureStderr {
		t.Error("CaptureStderr should be false by default (stderr is discarded)")
	}
	if cfg.Bench {
		t.Error("Bench should be false by default")
	}
}

func TestBuildArgv(t *testing.T) {
	testCases := []struct {
		name     string
		buildCmd string
		expected []string
	}{
		{"empty", "", nil},
		{"whitespace_only", "   ", nil},
		{"single", "make", []string{"make"}},
		{"with_args", "go build -o ./bin/rmesh ./cmd/rmesh", []string{"go", "build", "-o", "./bin/rmesh", "./cmd/rmesh"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.BuildCmd = tc.buildCmd

			got := cfg.BuildArgv()
			if len(got) != len(tc.expected) {
				t.Fatalf("BuildArgv() = %v, want %v", got, tc.expected)
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("BuildArgv()[%d] = %q, want %q", i, got[i], tc.expected[i])
				}
			}
		})
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Command = []string{"rmesh", "info"}

	err := Validate(cfg)
	if err != nil {
		t.Errorf("Valid config should not error: %v", err)
	}
}

func TestValidate_MissingCommand(t *testing.T) {
	cfg := DefaultConfig()

	err := Validate(cfg)
	if err == nil {
		t.Error("Expected error for missing command")
	}
	if !strings.Contains(err.Error(), "command") {
		t.Errorf("Error should mention command: %v", err)
	}
}

func TestValidate_InvalidTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Command = []string{"rmesh"}
	cfg.Timeout = 0

	err := Validate(cfg)
	if err == nil {
		t.Error("Expected error for zero timeout")
	}

	cfg.Timeout = -1 * time.Second
	err = Validate(cfg)
	if err == nil {
		t.Error("Expected error for negative timeout")
	}
}

func TestValidate_InvalidBuildTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Command = []string{"rmesh"}
	cfg.BuildTimeout = 0

	err := Validate(cfg)
	if err == nil {
		t.Error("Expected error for zero build_timeout")
	}
	if !strings.Contains(err.Error(), "build_timeout") {
		t.Errorf("Error should mention build_timeout: %v", err)
	}
}

func TestValidate_InvalidLogFormat(t *testing.T) {
	testCases := []string{"", "yaml", "JSON", "logfmt"}

	for _, format := range testCases {
		t.Run(format, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Command = []string{"rmesh"}
			cfg.LogFormat = format

			err := Validate(cfg)
			if err == nil {
				t.Errorf("Expected error for log_format=%q", format)
			}
		})
	}
}

func TestValidate_ValidLogFormats(t *testing.T) {
	for _, format := range []string{"json", "text"} {
		t.Run(format, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Command = []string{"rmesh"}
			cfg.LogFormat = format

			if err := Validate(cfg); err != nil {
				t.Errorf("log_format=%q should be valid: %v", format, err)
			}
		})
	}
}

func TestValidate_InvalidRuns(t *testing.T) {
	testCases := []int{0, -1, -100}

	for _, runs := range testCases {
		t.Run("", func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Command = []string{"rmesh"}
			cfg.Runs = runs

			err := Validate(cfg)
			if err == nil {
				t.Errorf("Expected error for runs=%d", runs)
			}
			if !strings.Contains(err.Error(), "runs") {
				t.Errorf("Error should mention runs: %v", err)
			}
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 0
	cfg.Runs = 0

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected multiple errors")
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "command") {
		t.Error("Error should mention command")
	}
	if !strings.Contains(errStr, "timeout") {
		t.Error("Error should mention timeout")
	}
	if !strings.Contains(errStr, "runs") {
		t.Error("Error should mention runs")
	}
}

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "test_field",
		Message: "test message",
	}

	errStr := err.Error()
	if errStr != "test_field: test message" {
		t.Errorf("Error string = %q, want %q", errStr, "test_field: test message")
	}
}
