// Package invoke runs a subordinate executable in an isolated process
// group under a hard wall-clock timeout, and guarantees the whole
// process subtree is terminated before a timeout is reported.
package invoke

import "strings"

// Command identifies the subordinate executable and its argument vector.
// Arguments are forwarded verbatim; nothing is parsed or rewritten.
type Command struct {
	Path string
	Args []string
}

// String returns the command line as it would appear in a shell.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Path
	}
	return c.Path + " " + strings.Join(c.Args, " ")
}

// Outcome classifies how a supervised invocation ended.
type Outcome int

const (
	// OutcomeCompleted means the subordinate exited (any exit code)
	// within the timeout and its stdout was fully captured.
	OutcomeCompleted Outcome = iota

	// OutcomeTimedOut means the timeout elapsed first. The subordinate's
	// entire process group was SIGKILLed before this outcome was produced.
	OutcomeTimedOut

	// OutcomeLaunchFailed means the process could not be created
	// (missing binary, permission error, resource exhaustion).
	OutcomeLaunchFailed

	// OutcomeError means an unexpected OS error occurred during the
	// wait or the group kill. Never swallowed, never retried.
	OutcomeError
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeTimedOut:
		return "timed_out"
	case OutcomeLaunchFailed:
		return "launch_failed"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the single outcome of one supervised invocation.
// Output is populated only for OutcomeCompleted; Err only for the
// failure outcomes.
type Result struct {
	Outcome Outcome
	Output  string
	Err     error
}

// Failed reports whether the invocation ended in anything other than
// a completed subordinate.
func (r Result) Failed() bool {
	return r.Outcome != OutcomeCompleted
}
