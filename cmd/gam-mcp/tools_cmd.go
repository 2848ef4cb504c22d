package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/limehawk/gam-multi/pkg/gam"
	"github.com/limehawk/gam-multi/pkg/tools"
)

func newToolsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the available GAM tools and their arguments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := loadConfig(opts); err != nil {
				return err
			}
			reg := catalogRegistry()
			if asJSON {
				return writeCatalogJSON(cmd.OutOrStdout(), reg)
			}
			printCatalog(cmd.OutOrStdout(), reg)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print names, descriptions and input schemas as JSON")
	return cmd
}

// catalogRegistry builds a registry for listing only; nothing is executed.
func catalogRegistry() *tools.ToolRegistry {
	reg := tools.NewToolRegistry()
	tools.RegisterGAMTools(reg, tools.NewEngine(gam.NewProcessExecutor(gam.ExecutorOptions{}), nil))
	return reg
}

type catalogEntry struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Destructive bool                   `json:"destructive"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

func writeCatalogJSON(w io.Writer, reg *tools.ToolRegistry) error {
	entries := make([]catalogEntry, 0, reg.Count())
	for _, t := range reg.List() {
		entries = append(entries, catalogEntry{
			Name:        t.Name(),
			Description: t.Description(),
			Destructive: tools.IsDestructive(t),
			InputSchema: t.Parameters(),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func printCatalog(w io.Writer, reg *tools.ToolRegistry) {
	fmt.Fprintln(w, styleTitle.Render(fmt.Sprintf("GAM tools (%d)", reg.Count())))
	fmt.Fprintln(w)
	for _, t := range reg.List() {
		name := styleName.Render(t.Name())
		if tools.IsDestructive(t) {
			name += " " + styleWarn.Render("[destructive]")
		}
		fmt.Fprintln(w, name)
		fmt.Fprintf(w, "  %s\n", firstSentence(t.Description()))
		if params := describeParams(t.Parameters()); params != "" {
			fmt.Fprintf(w, "  %s\n", styleDim.Render(params))
		}
		fmt.Fprintln(w)
	}
}

// describeParams renders "email* (string), max_results (integer)", marking
// required arguments with an asterisk.
func describeParams(schema map[string]interface{}) string {
	props, _ := schema["properties"].(map[string]interface{})
	if len(props) == 0 {
		return ""
	}
	required := map[string]bool{}
	if req, ok := schema["required"].([]string); ok {
		for _, r := range req {
			required[r] = true
		}
	}
	names := make([]string, 0, len(props))
	for k := range props {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if required[names[i]] != required[names[j]] {
			return required[names[i]]
		}
		return names[i] < names[j]
	})
	parts := make([]string, 0, len(names))
	for _, n := range names {
		label := n
		if required[n] {
			label += "*"
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", label, propType(props, n)))
	}
	return strings.Join(parts, ", ")
}

func propType(props map[string]interface{}, name string) string {
	p, ok := props[name].(map[string]interface{})
	if !ok {
		return ""
	}
	t, _ := p["type"].(string)
	return t
}

func firstSentence(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, ". "); i >= 0 {
		return s[:i+1]
	}
	return s
}
