//go:build !windows

package invoke

import (
	"fmt"
	"os/exec"
	"syscall"
)

// isolate places the child in a new session, which also makes it the
// leader of a new process group distinct from the invoker's own. This
// is what makes killing the whole subtree possible and safe: the kill
// targets the child's group, never the invoker's.
func isolate(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}

// killGroup delivers SIGKILL to the child's entire process group, so
// any descendants the child spawned die with it. SIGKILL cannot be
// caught or blocked. A failed group-id lookup (e.g. the pid vanished
// before the kill) is surfaced to the caller, not swallowed.
func killGroup(pid int) error {
	pgid, err := syscall.Getpgid(pid)
	if err != nil {
		return fmt.Errorf("getpgid %d: %w", pid, err)
	}
	return syscall.Kill(-pgid, syscall.SIGKILL)
}
