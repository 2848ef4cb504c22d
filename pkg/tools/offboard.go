package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/limehawk/gam-multi/pkg/gam"
)

type offboardArgs struct {
	Email     string `json:"email"`
	ArchiveOU string `json:"archive_ou"`
}

func newOffboardTool(e *Engine) Tool {
	return &gamTool{
		name: "offboard_user",
		description: "Offboard a departing user (DESTRUCTIVE): sign out of all sessions, revoke tokens, suspend, " +
			"and optionally move to an archive OU. Every step runs even if an earlier one fails. " +
			"Without confirm=true only the planned steps are previewed.",
		properties: map[string]interface{}{
			"email":      stringProp("The departing user's primary email address"),
			"archive_ou": stringProp(`Optional OU to move the user into afterwards (e.g. "/Former Employees")`),
		},
		required:    []string{"email"},
		destructive: true,
		run: func(ctx context.Context, c call) *ToolResult {
			var a offboardArgs
			if err := c.decode(&a); err != nil {
				return invalidParams(err)
			}
			steps := gam.OffboardSteps(a.Email, a.ArchiveOU)
			for _, s := range steps {
				if s.Err != nil {
					return invalidParams(s.Err)
				}
			}

			email := strings.TrimSpace(a.Email)
			if !c.confirm {
				return PreviewResult(gam.PreviewWorkflow(fmt.Sprintf("Offboard %s", email), steps))
			}

			report, err := e.orchestrator.Run(ctx, "Offboarding "+email, steps, c.timeout)
			if err != nil {
				return ErrorResult(err.Error()).WithError(err)
			}
			if report.Status() != gam.WorkflowSuccess {
				return ErrorResult(report.String())
			}
			return NewToolResult(report.String())
		},
	}
}
