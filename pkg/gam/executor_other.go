//go:build !unix

package gam

import "os/exec"

// configureProcessGroup keeps the default CommandContext behaviour, which
// kills the direct child on cancellation.
func configureProcessGroup(cmd *exec.Cmd) {}
