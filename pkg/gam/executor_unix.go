//go:build unix

package gam

import (
	"os/exec"
	"syscall"
)

// configureProcessGroup starts GAM in its own process group so a timeout kills
// GAM and every helper it spawned.
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
