package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/limehawk/gam-multi/pkg/tools"
)

// confirmFunc asks the operator whether a previewed destructive call should run.
type confirmFunc func(toolName string) (bool, error)

type callOptions struct {
	yes         bool
	interactive bool
	confirm     confirmFunc
}

var errToolFailed = errors.New("tool call failed")

func newCallCmd(opts *rootOptions) *cobra.Command {
	var (
		yes     bool
		rawJSON string
	)
	cmd := &cobra.Command{
		Use:   "call <tool> [key=value ...]",
		Short: "Run one tool from the command line",
		Long: "Run one tool. Arguments are key=value pairs typed by the tool's schema, or a JSON object via --args.\n" +
			"Destructive tools print a preview first and ask for confirmation on a terminal.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			t, ok := a.registry.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown tool %q (see %s tools)", args[0], cliName)
			}
			toolArgs, err := buildCallArgs(t.Parameters(), args[1:], rawJSON)
			if err != nil {
				return err
			}
			return runCall(cmd.Context(), cmd.OutOrStdout(), a.registry, t.Name(), toolArgs, callOptions{
				yes:         yes,
				interactive: isInteractive(),
				confirm:     promptConfirm,
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm destructive tools without prompting")
	cmd.Flags().StringVar(&rawJSON, "args", "", "tool arguments as a JSON object")
	return cmd
}

// runCall executes the tool. A destructive preview is shown and, once
// confirmed, the tool is called again with confirm=true.
func runCall(ctx context.Context, w io.Writer, reg *tools.ToolRegistry, name string, args map[string]interface{}, opts callOptions) error {
	res := reg.Execute(ctx, name, args)
	if res.Preview && !res.IsError {
		fmt.Fprintln(w, stylePreview.Render(res.Text()))
		ok, err := confirmed(name, opts)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(w, styleDim.Render("Not executed."))
			return nil
		}
		next := make(map[string]interface{}, len(args)+1)
		for k, v := range args {
			next[k] = v
		}
		next["confirm"] = true
		res = reg.Execute(ctx, name, next)
	}

	if res.IsError {
		fmt.Fprintln(w, styleErr.Render(res.Text()))
		return errToolFailed
	}
	fmt.Fprintln(w, res.Text())
	return nil
}

func confirmed(name string, opts callOptions) (bool, error) {
	switch {
	case opts.yes:
		return true, nil
	case !opts.interactive || opts.confirm == nil:
		return false, nil
	default:
		return opts.confirm(name)
	}
}

func promptConfirm(toolName string) (bool, error) {
	ok := false
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Run %s?", toolName)).
		Description("This action cannot be undone.").
		Affirmative("Run").
		Negative("Cancel").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// buildCallArgs merges the --args JSON object with key=value pairs. Pair
// values are typed from the schema; keys it does not know stay strings and
// are rejected by the tool itself.
func buildCallArgs(schema map[string]interface{}, pairs []string, rawJSON string) (map[string]interface{}, error) {
	args := map[string]interface{}{}
	if strings.TrimSpace(rawJSON) != "" {
		if err := json.Unmarshal([]byte(rawJSON), &args); err != nil {
			return nil, fmt.Errorf("--args must be a JSON object: %w", err)
		}
	}
	props, _ := schema["properties"].(map[string]interface{})
	seen := map[string]bool{}
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("argument %q is not key=value", pair)
		}
		if seen[key] {
			return nil, fmt.Errorf("argument %q given more than once", key)
		}
		seen[key] = true
		v, err := typedValue(key, raw, propType(props, key))
		if err != nil {
			return nil, err
		}
		args[key] = v
	}
	return args, nil
}

func typedValue(key, raw, typ string) (interface{}, error) {
	switch typ {
	case "boolean":
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("argument %q must be true or false", key)
		}
		return b, nil
	case "integer":
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("argument %q must be an integer", key)
		}
		return n, nil
	default:
		return raw, nil
	}
}
