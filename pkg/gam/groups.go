package gam

import "strings"

// Role is a group membership role in GAM's lowercase vocabulary.
type Role string

const (
	RoleMember  Role = "member"
	RoleManager Role = "manager"
	RoleOwner   Role = "owner"
)

var knownRoles = []Role{RoleMember, RoleManager, RoleOwner}

// RoleNames returns the accepted role names as callers write them.
func RoleNames() []string {
	out := make([]string, len(knownRoles))
	for i, r := range knownRoles {
		out[i] = strings.ToUpper(string(r))
	}
	return out
}

// ParseRole normalizes a caller role, case-insensitively. Empty means member.
func ParseRole(s string) (Role, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return RoleMember, nil
	}
	for _, r := range knownRoles {
		if string(r) == v {
			return r, nil
		}
	}
	return "", invalid("role", "invalid role %q (accepted: %s)", s, strings.Join(RoleNames(), ", "))
}

// parseRoleList normalizes "owners, MANAGER" into "owners,managers" for
// print group-members.
func parseRoleList(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		r, err := ParseRole(strings.TrimSuffix(strings.ToLower(p), "s"))
		if err != nil {
			return "", invalid("roles", "invalid roles entry %q (accepted: %s)", p, strings.Join(RoleNames(), ", "))
		}
		out = append(out, string(r)+"s")
	}
	return strings.Join(out, ","), nil
}

type ListGroupsOptions struct {
	Fields string `json:"fields"`
	Member string `json:"member"`
}

func BuildListGroups(opts ListGroupsOptions) (CommandLine, error) {
	member, err := optionalEmail("member", opts.Member)
	if err != nil {
		return CommandLine{}, err
	}
	cmd := NewCommand("print", "groups")
	cmd.OptIdent("member", member)
	cmd.OptIdent("fields", normalizeFields(opts.Fields))
	return *cmd, nil
}

func BuildGetGroup(groupEmail string) (CommandLine, error) {
	group, err := requireEmail("group_email", groupEmail)
	if err != nil {
		return CommandLine{}, err
	}
	return *NewCommand("info", "group").Ident(group), nil
}

type ListGroupMembersOptions struct {
	GroupEmail string `json:"group_email"`
	Roles      string `json:"roles"`
}

func BuildListGroupMembers(opts ListGroupMembersOptions) (CommandLine, error) {
	group, err := requireEmail("group_email", opts.GroupEmail)
	if err != nil {
		return CommandLine{}, err
	}
	roles, err := parseRoleList(opts.Roles)
	if err != nil {
		return CommandLine{}, err
	}
	cmd := NewCommand("print", "group-members", "group").Ident(group)
	cmd.OptIdent("roles", roles)
	return *cmd, nil
}

type CreateGroupOptions struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func BuildCreateGroup(opts CreateGroupOptions) (CommandLine, error) {
	email, err := requireEmail("email", opts.Email)
	if err != nil {
		return CommandLine{}, err
	}
	name, err := requireText("name", opts.Name)
	if err != nil {
		return CommandLine{}, err
	}
	cmd := NewCommand("create", "group").Ident(email)
	cmd.Literal("name").Text(name)
	cmd.OptText("description", strings.TrimSpace(opts.Description))
	return *cmd, nil
}

type GroupMemberOptions struct {
	GroupEmail  string `json:"group_email"`
	MemberEmail string `json:"member_email"`
	Role        string `json:"role"`
}

// BuildAddGroupMember validates the role before emitting any token.
func BuildAddGroupMember(opts GroupMemberOptions) (CommandLine, error) {
	role, err := ParseRole(opts.Role)
	if err != nil {
		return CommandLine{}, err
	}
	group, member, err := groupAndMember(opts)
	if err != nil {
		return CommandLine{}, err
	}
	return *NewCommand("update", "group").Ident(group).Literal("add", string(role)).Ident(member), nil
}

func BuildRemoveGroupMember(opts GroupMemberOptions) (CommandLine, error) {
	group, member, err := groupAndMember(opts)
	if err != nil {
		return CommandLine{}, err
	}
	return *NewCommand("update", "group").Ident(group).Literal("remove", "member").Ident(member), nil
}

func groupAndMember(opts GroupMemberOptions) (string, string, error) {
	group, err := requireEmail("group_email", opts.GroupEmail)
	if err != nil {
		return "", "", err
	}
	member, err := requireEmail("member_email", opts.MemberEmail)
	if err != nil {
		return "", "", err
	}
	if strings.EqualFold(group, member) {
		return "", "", invalid("member_email", "a group cannot be a member of itself (%s)", group)
	}
	return group, member, nil
}
