package gam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandLineStringQuotesByKind(t *testing.T) {
	cmd := NewCommand("create", "org").Text("/Sales/East").OptText("description", `East "coast"`)
	assert.Equal(t, `gam create org "/Sales/East" description "East \"coast\""`, cmd.String())
	assert.Equal(t, []string{"gam", "create", "org", "/Sales/East", "description", `East "coast"`}, cmd.Args())
}

func TestCommandLineSkipsEmptyOptionals(t *testing.T) {
	cmd := NewCommand("print", "groups").OptIdent("member", "").OptText("fields", "")
	assert.Equal(t, "gam print groups", cmd.String())
	assert.Equal(t, 3, cmd.Len())
}

func TestCommandLineMasksSecrets(t *testing.T) {
	cmd, err := BuildCreateUser(CreateUserOptions{
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Password:  "hunter2 secret",
	})
	require.NoError(t, err)
	assert.NotContains(t, cmd.String(), "hunter2")
	assert.Contains(t, cmd.String(), "password ********")
	assert.Contains(t, cmd.Args(), "hunter2 secret")
}

func TestIdentQuotedOnlyWhenUnsafe(t *testing.T) {
	cmd := NewCommand("info", "user").Ident("odd name@example.com")
	assert.Equal(t, `gam info user "odd name@example.com"`, cmd.String())
}

func TestWithLaunchToken(t *testing.T) {
	bare := CommandLine{tokens: []Token{{Value: "info", Kind: KindLiteral}, {Value: "domain", Kind: KindLiteral}}}
	assert.False(t, bare.HasLaunchToken())

	prefixed := bare.WithLaunchToken()
	assert.Equal(t, []string{"gam", "info", "domain"}, prefixed.Args())
	assert.Equal(t, prefixed.Args(), prefixed.WithLaunchToken().Args())
	// original is untouched
	assert.Equal(t, 2, bare.Len())
}

func TestParseCommandLine(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"adds launch token", "info domain", []string{"gam", "info", "domain"}},
		{"keeps launch token", "gam info domain", []string{"gam", "info", "domain"}},
		{"normalizes launch token case", "GAM info domain", []string{"gam", "info", "domain"}},
		{"quoted words stay whole", `print users query "givenname:John Smith"`, []string{"gam", "print", "users", "query", "givenname:John Smith"}},
		{"single quotes", `info org '/Sales/East Coast'`, []string{"gam", "info", "org", "/Sales/East Coast"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := ParseCommandLine(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd.Args())
		})
	}
}

func TestParseCommandLineRejects(t *testing.T) {
	for _, raw := range []string{"", "   ", "gam", `print "unterminated`} {
		_, err := ParseCommandLine(raw)
		require.Error(t, err, "raw=%q", raw)
		assert.True(t, IsValidationError(err), "raw=%q err=%v", raw, err)
	}
}

func TestRequiredOnlyBuildsHaveLaunchTokenAndNoEmptyTokens(t *testing.T) {
	builds := map[string]func() (CommandLine, error){
		"list_users":    func() (CommandLine, error) { return BuildListUsers(ListUsersOptions{}, fixedNow) },
		"get_user_info": func() (CommandLine, error) { return BuildGetUser("jane@example.com") },
		"create_user": func() (CommandLine, error) {
			return BuildCreateUser(CreateUserOptions{Email: "jane@example.com", FirstName: "Jane", LastName: "Doe"})
		},
		"suspend_user":   func() (CommandLine, error) { return BuildSuspendUser("jane@example.com") },
		"unsuspend_user": func() (CommandLine, error) { return BuildUnsuspendUser("jane@example.com") },
		"delete_user":    func() (CommandLine, error) { return BuildDeleteUser("jane@example.com") },
		"reset_password": func() (CommandLine, error) {
			return BuildResetPassword(ResetPasswordOptions{Email: "jane@example.com"})
		},
		"move_user_to_ou": func() (CommandLine, error) { return BuildMoveUser("jane@example.com", "/Staff") },
		"sign_out_user":   func() (CommandLine, error) { return BuildSignOut("jane@example.com") },
		"revoke_tokens":   func() (CommandLine, error) { return BuildRevokeTokens("jane@example.com") },
		"list_groups":     func() (CommandLine, error) { return BuildListGroups(ListGroupsOptions{}) },
		"get_group_info":  func() (CommandLine, error) { return BuildGetGroup("team@example.com") },
		"list_group_members": func() (CommandLine, error) {
			return BuildListGroupMembers(ListGroupMembersOptions{GroupEmail: "team@example.com"})
		},
		"create_group": func() (CommandLine, error) {
			return BuildCreateGroup(CreateGroupOptions{Email: "team@example.com", Name: "Team"})
		},
		"add_group_member": func() (CommandLine, error) {
			return BuildAddGroupMember(GroupMemberOptions{GroupEmail: "team@example.com", MemberEmail: "jane@example.com"})
		},
		"remove_group_member": func() (CommandLine, error) {
			return BuildRemoveGroupMember(GroupMemberOptions{GroupEmail: "team@example.com", MemberEmail: "jane@example.com"})
		},
		"list_org_units":  func() (CommandLine, error) { return BuildListOrgUnits(ListOrgUnitsOptions{}) },
		"get_org_unit":    func() (CommandLine, error) { return BuildGetOrgUnit("/Staff") },
		"create_org_unit": func() (CommandLine, error) { return BuildCreateOrgUnit(CreateOrgUnitOptions{Path: "/Staff"}) },
	}
	for name, build := range builds {
		t.Run(name, func(t *testing.T) {
			cmd, err := build()
			require.NoError(t, err)
			args := cmd.Args()
			require.NotEmpty(t, args)
			assert.Equal(t, LaunchToken, args[0])
			for i, a := range args {
				assert.NotEmpty(t, a, "token %d of %q", i, cmd.String())
			}
		})
	}
}

func TestIsDestructive(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"delete user jane@example.com", true},
		{"gam user jane@example.com signout", true},
		{"user jane@example.com deprovision", true},
		{"update mobile abc123 action WIPE", true},
		{"gam user jane@example.com deletephoto", true},
		{"gam user jane@example.com deletelabel Work", true},
		{"gam user jane@example.com trash messages query in:anywhere doit", true},
		{"gam user jane@example.com empty drivetrash", true},
		{"gam calendar jane@example.com purgeevent id abc", true},
		{"gam delete user jane@example.com", true},
		{"undelete user jane@example.com", false},
		{"info user deleteme@example.com", false},
		{"user jane@example.com delegate to boss@example.com", false},
		{"print users query name:Delia", false},
		{"update group team@example.com remove member jane@example.com", false},
		{"print users query isSuspended=true", false},
	}
	for _, tt := range tests {
		cmd, err := ParseCommandLine(tt.raw)
		require.NoError(t, err)
		assert.Equal(t, tt.want, IsDestructive(cmd), tt.raw)
	}
}
