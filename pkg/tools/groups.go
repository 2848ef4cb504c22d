package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/limehawk/gam-multi/pkg/gam"
)

func groupTools(e *Engine) []Tool {
	groupEmail := stringProp("The group's email address")
	return []Tool{
		&gamTool{
			name:        "list_groups",
			description: "List groups in the domain, optionally only those a given user belongs to.",
			properties: map[string]interface{}{
				"fields": stringProp(`Comma-separated fields (e.g. "email,name,description,directmemberscount")`),
				"member": stringProp("Only groups that this user or group is a member of"),
			},
			run: func(ctx context.Context, c call) *ToolResult {
				return runBuilt(ctx, e, c, gam.BuildListGroups, nil)
			},
		},
		&gamTool{
			name:        "get_group_info",
			description: "Get detailed information about a group.",
			properties:  map[string]interface{}{"group_email": groupEmail},
			required:    []string{"group_email"},
			run: func(ctx context.Context, c call) *ToolResult {
				return runBuilt(ctx, e, c, func(a groupArgs) (gam.CommandLine, error) {
					return gam.BuildGetGroup(a.GroupEmail)
				}, nil)
			},
		},
		&gamTool{
			name:        "list_group_members",
			description: "List the members of a group, optionally restricted to some roles.",
			properties: map[string]interface{}{
				"group_email": groupEmail,
				"roles":       stringProp(`Comma-separated roles to include (e.g. "OWNER,MANAGER")`),
			},
			required: []string{"group_email"},
			run: func(ctx context.Context, c call) *ToolResult {
				return runBuilt(ctx, e, c, gam.BuildListGroupMembers, nil)
			},
		},
		&gamTool{
			name:        "create_group",
			description: "Create a new group.",
			properties: map[string]interface{}{
				"email":       stringProp("The new group's email address"),
				"name":        stringProp("Display name"),
				"description": stringProp("Optional description"),
			},
			required: []string{"email", "name"},
			run: func(ctx context.Context, c call) *ToolResult {
				return runBuilt(ctx, e, c, gam.BuildCreateGroup, func(o gam.CreateGroupOptions) string {
					return fmt.Sprintf("Group %s created successfully.", o.Email)
				})
			},
		},
		&gamTool{
			name:        "add_group_member",
			description: "Add a user or group to a group with the given role.",
			properties: map[string]interface{}{
				"group_email":  groupEmail,
				"member_email": stringProp("Email of the user or group to add"),
				"role":         enumProp("Membership role", gam.RoleNames(), "MEMBER"),
			},
			required: []string{"group_email", "member_email"},
			run: func(ctx context.Context, c call) *ToolResult {
				return runBuilt(ctx, e, c, gam.BuildAddGroupMember, func(o gam.GroupMemberOptions) string {
					role, _ := gam.ParseRole(o.Role)
					return fmt.Sprintf("Added %s to %s as %s.", o.MemberEmail, o.GroupEmail, strings.ToUpper(string(role)))
				})
			},
		},
		&gamTool{
			name:        "remove_group_member",
			description: "Remove a user or group from a group.",
			properties: map[string]interface{}{
				"group_email":  groupEmail,
				"member_email": stringProp("Email of the member to remove"),
			},
			required: []string{"group_email", "member_email"},
			run: func(ctx context.Context, c call) *ToolResult {
				return runBuilt(ctx, e, c, gam.BuildRemoveGroupMember, func(o gam.GroupMemberOptions) string {
					return fmt.Sprintf("Removed %s from %s.", o.MemberEmail, o.GroupEmail)
				})
			},
		},
	}
}
