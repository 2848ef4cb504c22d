package tools

import (
	"context"
	"fmt"

	"github.com/limehawk/gam-multi/pkg/gam"
)

func userTools(e *Engine) []Tool {
	email := stringProp("The user's primary email address")
	return []Tool{
		&gamTool{
			name:        "list_users",
			description: "List users in the Google Workspace domain. Filters combine with AND: suspension state, organizational unit, a directory query and an inactivity threshold. Returns GAM's CSV output.",
			properties: map[string]interface{}{
				"fields":           stringProp(`Comma-separated fields to include (e.g. "primaryemail,fullname,suspended,lastlogintime")`),
				"query":            stringProp(`Directory query (e.g. "givenname:John" or "isAdmin=true")`),
				"suspended":        triStateProp("Only suspended users (true) or only active users (false); omit for all users. Takes precedence over active_only."),
				"active_only":      boolProp("Only active (non-suspended) users", false),
				"org_unit":         stringProp(`Restrict to an organizational unit path (e.g. "/Sales")`),
				"include_children": boolProp("Include users in child organizational units of org_unit", false),
				"inactive_days":    intProp("Only users whose last login is older than this many days"),
				"max_results":      intProp("Maximum number of users to return"),
			},
			run: func(ctx context.Context, c call) *ToolResult {
				return runBuilt(ctx, e, c, func(o gam.ListUsersOptions) (gam.CommandLine, error) {
					return gam.BuildListUsers(o, e.now())
				}, nil)
			},
		},
		&gamTool{
			name:        "get_user_info",
			description: "Get detailed information about a specific user.",
			properties:  map[string]interface{}{"email": email},
			required:    []string{"email"},
			run: func(ctx context.Context, c call) *ToolResult {
				return runBuilt(ctx, e, c, func(a emailArgs) (gam.CommandLine, error) {
					return gam.BuildGetUser(a.Email)
				}, nil)
			},
		},
		&gamTool{
			name:        "create_user",
			description: "Create a new user. Without a password GAM generates a random one.",
			properties: map[string]interface{}{
				"email":           stringProp("The new user's email address"),
				"first_name":      stringProp("First name"),
				"last_name":       stringProp("Last name"),
				"password":        stringProp("Initial password (random if omitted)"),
				"org_unit":        stringProp(`Organizational unit path (e.g. "/Sales")`),
				"change_password": boolProp("Require a password change at next login", false),
			},
			required: []string{"email", "first_name", "last_name"},
			run: func(ctx context.Context, c call) *ToolResult {
				return runBuilt(ctx, e, c, gam.BuildCreateUser, func(o gam.CreateUserOptions) string {
					return fmt.Sprintf("User %s created successfully.", o.Email)
				})
			},
		},
		&gamTool{
			name:        "update_user",
			description: "Update attributes of an existing user. Only supplied attributes change; at least one is required.",
			properties: map[string]interface{}{
				"email":          email,
				"first_name":     stringProp("New first name"),
				"last_name":      stringProp("New last name"),
				"org_unit":       stringProp("New organizational unit path"),
				"recovery_email": stringProp("New recovery email address"),
				"recovery_phone": stringProp("New recovery phone in E.164 format (e.g. +15551234567)"),
			},
			required: []string{"email"},
			run: func(ctx context.Context, c call) *ToolResult {
				return runBuilt(ctx, e, c, gam.BuildUpdateUser, func(o gam.UpdateUserOptions) string {
					return fmt.Sprintf("User %s updated.", o.Email)
				})
			},
		},
		&gamTool{
			name:        "suspend_user",
			description: "Suspend a user account. Reversible with unsuspend_user.",
			properties:  map[string]interface{}{"email": email},
			required:    []string{"email"},
			run: func(ctx context.Context, c call) *ToolResult {
				return runBuilt(ctx, e, c, func(a emailArgs) (gam.CommandLine, error) {
					return gam.BuildSuspendUser(a.Email)
				}, func(a emailArgs) string {
					return fmt.Sprintf("User %s has been suspended.", a.Email)
				})
			},
		},
		&gamTool{
			name:        "unsuspend_user",
			description: "Reactivate a suspended user account.",
			properties:  map[string]interface{}{"email": email},
			required:    []string{"email"},
			run: func(ctx context.Context, c call) *ToolResult {
				return runBuilt(ctx, e, c, func(a emailArgs) (gam.CommandLine, error) {
					return gam.BuildUnsuspendUser(a.Email)
				}, func(a emailArgs) string {
					return fmt.Sprintf("User %s has been reactivated.", a.Email)
				})
			},
		},
		&gamTool{
			name:        "delete_user",
			description: "Permanently delete a user (DESTRUCTIVE). Without confirm=true only a preview is returned.",
			properties:  map[string]interface{}{"email": email},
			required:    []string{"email"},
			destructive: true,
			run: func(ctx context.Context, c call) *ToolResult {
				return gateBuilt(ctx, e, c, "delete_user", func(a emailArgs) (gam.CommandLine, error) {
					return gam.BuildDeleteUser(a.Email)
				}, func(a emailArgs) string {
					return fmt.Sprintf("Permanently delete user %s and all of their data", a.Email)
				}, func(a emailArgs) string {
					return fmt.Sprintf("User %s has been deleted.", a.Email)
				})
			},
		},
		&gamTool{
			name:        "reset_password",
			description: "Reset a user's password to a random value, optionally emailing it to another address.",
			properties: map[string]interface{}{
				"email":           email,
				"notify_email":    stringProp("Address that receives the new password"),
				"change_password": boolProp("Require a password change at next login", false),
			},
			required: []string{"email"},
			run: func(ctx context.Context, c call) *ToolResult {
				return runBuilt(ctx, e, c, gam.BuildResetPassword, func(o gam.ResetPasswordOptions) string {
					return fmt.Sprintf("Password reset for %s.", o.Email)
				})
			},
		},
		&gamTool{
			name:        "move_user_to_ou",
			description: "Move a user to a different organizational unit.",
			properties: map[string]interface{}{
				"email":    email,
				"org_unit": stringProp(`Target organizational unit path (e.g. "/Sales/West")`),
			},
			required: []string{"email", "org_unit"},
			run: func(ctx context.Context, c call) *ToolResult {
				type moveArgs struct {
					Email   string `json:"email"`
					OrgUnit string `json:"org_unit"`
				}
				return runBuilt(ctx, e, c, func(a moveArgs) (gam.CommandLine, error) {
					return gam.BuildMoveUser(a.Email, a.OrgUnit)
				}, func(a moveArgs) string {
					return fmt.Sprintf("User %s moved to %s.", a.Email, a.OrgUnit)
				})
			},
		},
	}
}
