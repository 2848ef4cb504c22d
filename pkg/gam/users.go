package gam

import (
	"strconv"
	"strings"
	"time"
)

type ListUsersOptions struct {
	Fields     string `json:"fields"`
	MaxResults int    `json:"max_results"`
	FilterCriteria
}

// BuildListUsers builds `gam print users ...`. now anchors the inactivity cutoff.
func BuildListUsers(opts ListUsersOptions, now time.Time) (CommandLine, error) {
	if opts.MaxResults < 0 {
		return CommandLine{}, invalid("max_results", "max_results must be positive (got %d)", opts.MaxResults)
	}
	filter, err := Compose(opts.FilterCriteria, now)
	if err != nil {
		return CommandLine{}, err
	}

	cmd := NewCommand("print", "users")
	cmd.OptIdent("fields", normalizeFields(opts.Fields))
	cmd.OptText("ou", filter.OrgUnit)
	cmd.OptText("query", filter.Query)
	if filter.Suspended != nil {
		cmd.Literal("issuspended").Ident(trueFalse(*filter.Suspended))
	}
	if opts.MaxResults > 0 {
		cmd.Literal("maxresults").Ident(strconv.Itoa(opts.MaxResults))
	}
	return *cmd, nil
}

func BuildGetUser(email string) (CommandLine, error) {
	email, err := requireEmail("email", email)
	if err != nil {
		return CommandLine{}, err
	}
	return *NewCommand("info", "user").Ident(email), nil
}

type CreateUserOptions struct {
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Password       string `json:"password"`
	OrgUnit        string `json:"org_unit"`
	ChangePassword bool   `json:"change_password"`
}

// BuildCreateUser builds `gam create user`. An empty password asks GAM to
// generate a random one.
func BuildCreateUser(opts CreateUserOptions) (CommandLine, error) {
	email, err := requireEmail("email", opts.Email)
	if err != nil {
		return CommandLine{}, err
	}
	first, err := requireText("first_name", opts.FirstName)
	if err != nil {
		return CommandLine{}, err
	}
	last, err := requireText("last_name", opts.LastName)
	if err != nil {
		return CommandLine{}, err
	}
	ou, err := optionalOrgUnit("org_unit", opts.OrgUnit)
	if err != nil {
		return CommandLine{}, err
	}

	cmd := NewCommand("create", "user").Ident(email)
	cmd.Literal("firstname").Text(first)
	cmd.Literal("lastname").Text(last)
	cmd.Literal("password")
	if pwd := opts.Password; strings.TrimSpace(pwd) != "" {
		cmd.Secret(pwd)
	} else {
		cmd.Literal("random")
	}
	cmd.OptText("org", ou)
	if opts.ChangePassword {
		cmd.Literal("changepassword", "on")
	}
	return *cmd, nil
}

// UpdateUserOptions lists every attribute update_user can change. Zero values
// mean "leave unchanged".
type UpdateUserOptions struct {
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	OrgUnit       string `json:"org_unit"`
	RecoveryEmail string `json:"recovery_email"`
	RecoveryPhone string `json:"recovery_phone"`
}

// BuildUpdateUser returns ErrNothingToUpdate when no attribute was supplied.
func BuildUpdateUser(opts UpdateUserOptions) (CommandLine, error) {
	email, err := requireEmail("email", opts.Email)
	if err != nil {
		return CommandLine{}, err
	}
	ou, err := optionalOrgUnit("org_unit", opts.OrgUnit)
	if err != nil {
		return CommandLine{}, err
	}
	recovery, err := optionalEmail("recovery_email", opts.RecoveryEmail)
	if err != nil {
		return CommandLine{}, err
	}
	phone := strings.TrimSpace(opts.RecoveryPhone)
	if strings.ContainsAny(phone, " \t") {
		return CommandLine{}, invalid("recovery_phone", "invalid recovery_phone %q: use E.164 format without spaces", phone)
	}

	cmd := NewCommand("update", "user").Ident(email)
	base := cmd.Len()
	cmd.OptText("firstname", strings.TrimSpace(opts.FirstName))
	cmd.OptText("lastname", strings.TrimSpace(opts.LastName))
	cmd.OptText("org", ou)
	cmd.OptIdent("recoveryemail", recovery)
	cmd.OptIdent("recoveryphone", phone)
	if cmd.Len() == base {
		return CommandLine{}, ErrNothingToUpdate
	}
	return *cmd, nil
}

func BuildSuspendUser(email string) (CommandLine, error) {
	return buildSetSuspended(email, true)
}

func BuildUnsuspendUser(email string) (CommandLine, error) {
	return buildSetSuspended(email, false)
}

func buildSetSuspended(email string, suspended bool) (CommandLine, error) {
	email, err := requireEmail("email", email)
	if err != nil {
		return CommandLine{}, err
	}
	return *NewCommand("update", "user").Ident(email).Literal("suspended").Ident(onOff(suspended)), nil
}

func BuildDeleteUser(email string) (CommandLine, error) {
	email, err := requireEmail("email", email)
	if err != nil {
		return CommandLine{}, err
	}
	return *NewCommand("delete", "user").Ident(email), nil
}

type ResetPasswordOptions struct {
	Email          string `json:"email"`
	NotifyEmail    string `json:"notify_email"`
	ChangePassword bool   `json:"change_password"`
}

func BuildResetPassword(opts ResetPasswordOptions) (CommandLine, error) {
	email, err := requireEmail("email", opts.Email)
	if err != nil {
		return CommandLine{}, err
	}
	notify, err := optionalEmail("notify_email", opts.NotifyEmail)
	if err != nil {
		return CommandLine{}, err
	}
	cmd := NewCommand("update", "user").Ident(email).Literal("password", "random")
	if opts.ChangePassword {
		cmd.Literal("changepassword", "on")
	}
	cmd.OptIdent("notify", notify)
	return *cmd, nil
}

func BuildMoveUser(email, orgUnit string) (CommandLine, error) {
	email, err := requireEmail("email", email)
	if err != nil {
		return CommandLine{}, err
	}
	ou, err := requireOrgUnit("org_unit", orgUnit)
	if err != nil {
		return CommandLine{}, err
	}
	return *NewCommand("update", "user").Ident(email).Literal("org").Text(ou), nil
}
