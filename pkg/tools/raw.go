package tools

import (
	"context"

	"github.com/limehawk/gam-multi/pkg/gam"
)

type rawArgs struct {
	Command string `json:"command"`
}

// newRunGAMTool exposes arbitrary GAM commands. Commands containing an
// irreversible verb go through the confirmation gate like the dedicated
// destructive tools.
func newRunGAMTool(e *Engine) Tool {
	return &gamTool{
		name: "run_gam",
		description: "Execute a raw GAM command for anything the dedicated tools do not cover. " +
			"The command may include or omit the leading 'gam'. Commands containing a delete, del, signout, deprovision, wipe, purge, " +
			"trash or empty verb (including compound forms such as deletephoto) " +
			"are only previewed unless confirm=true.",
		properties: map[string]interface{}{
			"command": stringProp(`The GAM command (e.g. "print users query isAdmin=true")`),
		},
		required:    []string{"command"},
		destructive: true,
		run: func(ctx context.Context, c call) *ToolResult {
			var a rawArgs
			if err := c.decode(&a); err != nil {
				return invalidParams(err)
			}
			cmd, err := gam.ParseCommandLine(a.Command)
			if err != nil {
				return invalidParams(err)
			}
			if gam.IsDestructive(cmd) {
				return e.gated(ctx, gam.Action{
					Name:        "run_gam",
					Description: "Run a GAM command containing an irreversible operation",
					Command:     cmd,
					Timeout:     c.timeout,
				}, c.confirm)
			}
			return e.run(ctx, cmd, c.timeout, "")
		},
	}
}
