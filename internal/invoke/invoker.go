package invoke

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"syscall"
	"time"
)

// Callbacks contains optional callback functions for invocation events.
type Callbacks struct {
	// OnStart is called after the subordinate process has started.
	OnStart func(pid int)

	// OnExit is called once per invocation with the final outcome.
	OnExit func(outcome Outcome, elapsed time.Duration)
}

// Invoker supervises a single subordinate process per Invoke call.
// It owns the child's process group for the duration of the call: the
// group is either reaped on normal exit or killed on timeout, and the
// group id is never exposed to the caller.
type Invoker struct {
	timeout   time.Duration
	logger    *slog.Logger
	callbacks Callbacks

	// stderr receives the subordinate's stderr stream. nil discards it,
	// which is the default: the subordinate's error stream is not
	// considered diagnostic-useful to the caller.
	stderr io.Writer
}

// Config holds configuration for creating a new Invoker.
type Config struct {
	Timeout   time.Duration
	Logger    *slog.Logger
	Callbacks Callbacks
	Stderr    io.Writer
}

// New creates a new Invoker with the given configuration.
func New(cfg Config) *Invoker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Invoker{
		timeout:   cfg.Timeout,
		logger:    logger,
		callbacks: cfg.Callbacks,
		stderr:    cfg.Stderr,
	}
}

// Timeout returns the configured wall-clock budget.
func (inv *Invoker) Timeout() time.Duration {
	return inv.timeout
}

// Invoke runs the command and waits for it to exit, bounded by the
// configured timeout.
//
// The child is created with stdout piped into an in-memory buffer,
// stderr discarded (unless a writer was configured), stdin empty, and
// as the leader of a new session and process group. Ordering
// guarantees: OutcomeCompleted is only returned after stdout has been
// fully drained, and OutcomeTimedOut is only returned after SIGKILL
// has been delivered to the entire group.
//
// ctx is raced against the timeout using the same group-kill path, so
// external cancellation can be layered on by the caller.
func (inv *Invoker) Invoke(ctx context.Context, command Command) Result {
	var stdout bytes.Buffer

	cmd := exec.Command(command.Path, command.Args...)
	cmd.Stdout = &stdout
	cmd.Stderr = inv.stderr
	cmd.Stdin = nil
	isolate(cmd)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		inv.logger.Error("launch_failed",
			"path", command.Path,
			"error", err,
		)
		inv.notifyExit(OutcomeLaunchFailed, time.Since(start))
		return Result{
			Outcome: OutcomeLaunchFailed,
			Err:     fmt.Errorf("starting %s: %w", command.Path, err),
		}
	}

	pid := cmd.Process.Pid
	inv.logger.Debug("subordinate_started",
		"pid", pid,
		"path", command.Path,
		"timeout", inv.timeout.String(),
	)
	if inv.callbacks.OnStart != nil {
		inv.callbacks.OnStart(pid)
	}

	// Wait in a goroutine so the wait can be raced against the timeout.
	// cmd.Wait only fires after the stdout copy has flushed, so the
	// completed path never observes a partially drained buffer. On the
	// kill paths the goroutine keeps running and reaps the child.
	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	timer := time.NewTimer(inv.timeout)
	defer timer.Stop()

	select {
	case waitErr := <-done:
		elapsed := time.Since(start)
		inv.logger.Debug("subordinate_exited",
			"pid", pid,
			"exit_code", extractExitCode(waitErr),
			"elapsed", elapsed.String(),
		)
		inv.notifyExit(OutcomeCompleted, elapsed)
		return Result{Outcome: OutcomeCompleted, Output: stdout.String()}

	case <-timer.C:
		if err := killGroup(pid); err != nil {
			inv.logger.Error("group_kill_failed", "pid", pid, "error", err)
			inv.notifyExit(OutcomeError, time.Since(start))
			return Result{
				Outcome: OutcomeError,
				Err:     fmt.Errorf("killing process group of pid %d: %w", pid, err),
			}
		}
		inv.logger.Warn("subordinate_timeout",
			"pid", pid,
			"timeout", inv.timeout.String(),
		)
		inv.notifyExit(OutcomeTimedOut, time.Since(start))
		return Result{Outcome: OutcomeTimedOut}

	case <-ctx.Done():
		if err := killGroup(pid); err != nil {
			inv.notifyExit(OutcomeError, time.Since(start))
			return Result{
				Outcome: OutcomeError,
				Err: errors.Join(
					ctx.Err(),
					fmt.Errorf("killing process group of pid %d: %w", pid, err),
				),
			}
		}
		inv.logger.Warn("subordinate_cancelled", "pid", pid)
		inv.notifyExit(OutcomeError, time.Since(start))
		return Result{
			Outcome: OutcomeError,
			Err:     fmt.Errorf("invocation cancelled: %w", ctx.Err()),
		}
	}
}

// notifyExit invokes the OnExit callback if registered.
func (inv *Invoker) notifyExit(outcome Outcome, elapsed time.Duration) {
	if inv.callbacks.OnExit != nil {
		inv.callbacks.OnExit(outcome, elapsed)
	}
}

// extractExitCode extracts the exit code from a Wait() error.
func extractExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if status.Signaled() {
				// Signal exit: 128 + signal number
				return 128 + int(status.Signal())
			}
			return status.ExitStatus()
		}
	}

	// Unknown error, assume exit code 1
	return 1
}
