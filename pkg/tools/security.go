package tools

import (
	"context"
	"fmt"

	"github.com/limehawk/gam-multi/pkg/gam"
)

func securityTools(e *Engine) []Tool {
	email := stringProp("The user's primary email address")
	return []Tool{
		&gamTool{
			name:        "sign_out_user",
			description: "Sign a user out of all web and device sessions (DESTRUCTIVE). Without confirm=true only a preview is returned.",
			properties:  map[string]interface{}{"email": email},
			required:    []string{"email"},
			destructive: true,
			run: func(ctx context.Context, c call) *ToolResult {
				return gateBuilt(ctx, e, c, "sign_out_user", func(a emailArgs) (gam.CommandLine, error) {
					return gam.BuildSignOut(a.Email)
				}, func(a emailArgs) string {
					return fmt.Sprintf("Sign %s out of all sessions", a.Email)
				}, func(a emailArgs) string {
					return fmt.Sprintf("User %s has been signed out from all sessions.", a.Email)
				})
			},
		},
		&gamTool{
			name:        "revoke_tokens",
			description: "Revoke all OAuth tokens, app passwords and backup codes of a user (DESTRUCTIVE). Without confirm=true only a preview is returned.",
			properties:  map[string]interface{}{"email": email},
			required:    []string{"email"},
			destructive: true,
			run: func(ctx context.Context, c call) *ToolResult {
				return gateBuilt(ctx, e, c, "revoke_tokens", func(a emailArgs) (gam.CommandLine, error) {
					return gam.BuildRevokeTokens(a.Email)
				}, func(a emailArgs) string {
					return fmt.Sprintf("Revoke all OAuth tokens and app passwords of %s", a.Email)
				}, func(a emailArgs) string {
					return fmt.Sprintf("All tokens revoked for %s.", a.Email)
				})
			},
		},
	}
}
