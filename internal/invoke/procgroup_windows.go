//go:build windows

package invoke

import (
	"os"
	"os/exec"
)

// Windows has no POSIX sessions or process groups, so there is nothing
// to set up at spawn time.
func isolate(cmd *exec.Cmd) {}

// killGroup kills the direct child only. Descendants are not guaranteed
// to die on Windows; a job-object implementation would restore the
// group-kill guarantee the unix build provides.
func killGroup(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}
