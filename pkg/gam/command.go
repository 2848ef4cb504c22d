// Package gam builds, runs and normalizes invocations of the GAM command-line
// tool for Google Workspace directory administration.
//
// Commands are assembled as token lists, never as interpolated strings. Each
// token carries a kind that decides how it is rendered for display; execution
// hands the tokens to the process as argv, one argument per token.
package gam

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/shlex"
)

// LaunchToken is the canonical first token of every GAM command line.
const LaunchToken = "gam"

// TokenKind classifies a token for rendering.
type TokenKind int

const (
	// KindLiteral is a grammar keyword (verbs, nouns, option names).
	KindLiteral TokenKind = iota
	// KindIdent is a token-safe value: emails, ids, numbers, on/off, true/false.
	KindIdent
	// KindText is free text that may contain spaces: names, descriptions, OU
	// paths, query expressions.
	KindText
	// KindSecret is passed to the process verbatim but masked when rendered.
	KindSecret
)

const secretMask = "********"

type Token struct {
	Value string
	Kind  TokenKind
}

// CommandLine is one invocation of the external tool.
type CommandLine struct {
	tokens []Token
}

// NewCommand starts a command line with the launch token followed by the given
// grammar keywords.
func NewCommand(keywords ...string) *CommandLine {
	c := &CommandLine{tokens: make([]Token, 0, len(keywords)+8)}
	c.tokens = append(c.tokens, Token{Value: LaunchToken, Kind: KindLiteral})
	for _, k := range keywords {
		c.Literal(k)
	}
	return c
}

// Literal appends grammar keywords.
func (c *CommandLine) Literal(words ...string) *CommandLine {
	for _, w := range words {
		c.tokens = append(c.tokens, Token{Value: w, Kind: KindLiteral})
	}
	return c
}

// Ident appends a token-safe value.
func (c *CommandLine) Ident(v string) *CommandLine {
	c.tokens = append(c.tokens, Token{Value: v, Kind: KindIdent})
	return c
}

// Text appends a free-text value.
func (c *CommandLine) Text(v string) *CommandLine {
	c.tokens = append(c.tokens, Token{Value: v, Kind: KindText})
	return c
}

// Secret appends a value that must never appear in logs or previews.
func (c *CommandLine) Secret(v string) *CommandLine {
	c.tokens = append(c.tokens, Token{Value: v, Kind: KindSecret})
	return c
}

// OptIdent appends "keyword value" only when value is non-empty.
func (c *CommandLine) OptIdent(keyword, value string) *CommandLine {
	if value == "" {
		return c
	}
	return c.Literal(keyword).Ident(value)
}

// OptText appends `keyword "value"` only when value is non-empty.
func (c *CommandLine) OptText(keyword, value string) *CommandLine {
	if value == "" {
		return c
	}
	return c.Literal(keyword).Text(value)
}

// Tokens returns a copy of the token list.
func (c CommandLine) Tokens() []Token {
	out := make([]Token, len(c.tokens))
	copy(out, c.tokens)
	return out
}

// Args returns the raw argv, launch token included.
func (c CommandLine) Args() []string {
	out := make([]string, len(c.tokens))
	for i, t := range c.tokens {
		out[i] = t.Value
	}
	return out
}

func (c CommandLine) Len() int { return len(c.tokens) }

func (c CommandLine) IsZero() bool { return len(c.tokens) == 0 }

// HasLaunchToken reports whether the first token is the GAM launch token.
func (c CommandLine) HasLaunchToken() bool {
	return len(c.tokens) > 0 && strings.EqualFold(c.tokens[0].Value, LaunchToken)
}

// WithLaunchToken returns the command line, prefixed with the launch token when
// it is missing. Callers may pass GAM sub-commands directly.
func (c CommandLine) WithLaunchToken() CommandLine {
	if c.HasLaunchToken() {
		return c
	}
	tokens := make([]Token, 0, len(c.tokens)+1)
	tokens = append(tokens, Token{Value: LaunchToken, Kind: KindLiteral})
	tokens = append(tokens, c.tokens...)
	return CommandLine{tokens: tokens}
}

// String renders the command for display, previews and audit records. Free
// text is double-quoted, secrets are masked, identifiers are quoted only if
// they are not token-safe.
func (c CommandLine) String() string {
	parts := make([]string, len(c.tokens))
	for i, t := range c.tokens {
		switch {
		case t.Kind == KindSecret:
			parts[i] = secretMask
		case t.Kind == KindText:
			parts[i] = quote(t.Value)
		case needsQuoting(t.Value):
			parts[i] = quote(t.Value)
		default:
			parts[i] = t.Value
		}
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	return strings.ContainsAny(s, " \t\n\"'\\#$`;&|<>()*?")
}

// ParseCommandLine splits caller-supplied text with POSIX shell word rules and
// prefixes the launch token when it is missing. Every parsed word becomes a
// single free-text token.
func ParseCommandLine(raw string) (CommandLine, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return CommandLine{}, &ValidationError{Field: "command", Message: "command is required"}
	}
	words, err := shlex.Split(raw)
	if err != nil {
		return CommandLine{}, &ValidationError{Field: "command", Message: fmt.Sprintf("cannot parse command: %v", err)}
	}
	if len(words) == 0 {
		return CommandLine{}, &ValidationError{Field: "command", Message: "command is required"}
	}
	tokens := make([]Token, 0, len(words)+1)
	for i, w := range words {
		kind := KindText
		if i == 0 && strings.EqualFold(w, LaunchToken) {
			w = LaunchToken
			kind = KindLiteral
		}
		tokens = append(tokens, Token{Value: w, Kind: kind})
	}
	cmd := CommandLine{tokens: tokens}.WithLaunchToken()
	if cmd.Len() < 2 {
		return CommandLine{}, &ValidationError{Field: "command", Message: "command has no GAM sub-command"}
	}
	return cmd, nil
}

// ErrNothingToUpdate is returned by update builders when no optional attribute
// was supplied.
var ErrNothingToUpdate = errors.New("nothing to update")

// ValidationError is a caller-facing parameter error caught before any
// external invocation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is a pre-execution validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrNothingToUpdate)
}

func requireText(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", invalid(field, "%s is required", field)
	}
	return v, nil
}

func requireEmail(field, v string) (string, error) {
	v, err := requireText(field, v)
	if err != nil {
		return "", err
	}
	if err := checkEmail(field, v); err != nil {
		return "", err
	}
	return v, nil
}

func optionalEmail(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", nil
	}
	if err := checkEmail(field, v); err != nil {
		return "", err
	}
	return v, nil
}

func checkEmail(field, v string) error {
	if strings.ContainsAny(v, " \t\r\n\"'") {
		return invalid(field, "invalid %s %q: must not contain whitespace or quotes", field, v)
	}
	at := strings.Index(v, "@")
	if at <= 0 || at != strings.LastIndex(v, "@") || at == len(v)-1 {
		return invalid(field, "invalid %s %q: expected user@domain", field, v)
	}
	return nil
}

func requireOrgUnit(field, v string) (string, error) {
	v, err := requireText(field, v)
	if err != nil {
		return "", err
	}
	return checkOrgUnit(field, v)
}

func optionalOrgUnit(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", nil
	}
	return checkOrgUnit(field, v)
}

func checkOrgUnit(field, v string) (string, error) {
	if !strings.HasPrefix(v, "/") {
		return "", invalid(field, "invalid %s %q: organizational unit paths start with /", field, v)
	}
	if strings.ContainsAny(v, "\r\n") {
		return "", invalid(field, "invalid %s %q: must be a single line", field, v)
	}
	return v, nil
}

// normalizeFields turns "primaryEmail, fullName" into "primaryemail,fullname".
func normalizeFields(v string) string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.Join(strings.Fields(p), ""))
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func trueFalse(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
