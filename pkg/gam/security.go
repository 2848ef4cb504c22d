package gam

import "strings"

// BuildSignOut builds `gam user <email> signout`, ending every web and device
// session of the user.
func BuildSignOut(email string) (CommandLine, error) {
	email, err := requireEmail("email", email)
	if err != nil {
		return CommandLine{}, err
	}
	return *NewCommand("user").Ident(email).Literal("signout"), nil
}

// BuildRevokeTokens builds `gam user <email> deprovision`, which revokes OAuth
// tokens, application-specific passwords and backup verification codes.
func BuildRevokeTokens(email string) (CommandLine, error) {
	email, err := requireEmail("email", email)
	if err != nil {
		return CommandLine{}, err
	}
	return *NewCommand("user").Ident(email).Literal("deprovision"), nil
}

// destructiveVerbs are GAM sub-commands whose effect cannot be undone. A
// verb also matches its compound forms (deletephoto, purgeevent, ...).
var destructiveVerbs = []string{
	"delete",
	"del",
	"signout",
	"deprovision",
	"wipe",
	"purge",
	"trash",
	"empty",
}

// safeVerbs start with a destructive prefix but only read or grant access.
var safeVerbs = map[string]struct{}{
	"delegate":    {},
	"delegates":   {},
	"delegation":  {},
	"delegations": {},
}

// IsDestructive reports whether a raw command line contains an irreversible
// GAM verb anywhere after the launch token. Only all-letter words are
// considered, so addresses and query values never match.
func IsDestructive(cmd CommandLine) bool {
	for i, t := range cmd.tokens {
		if i == 0 {
			continue
		}
		if isDestructiveVerb(t.Value) {
			return true
		}
	}
	return false
}

func isDestructiveVerb(word string) bool {
	word = strings.ToLower(word)
	if word == "" || strings.IndexFunc(word, func(r rune) bool { return r < 'a' || r > 'z' }) >= 0 {
		return false
	}
	if _, ok := safeVerbs[word]; ok {
		return false
	}
	for _, verb := range destructiveVerbs {
		if strings.HasPrefix(word, verb) {
			return true
		}
	}
	return false
}
