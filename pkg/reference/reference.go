// Package reference holds the static documents and prompt templates served
// next to the GAM tools. Nothing here is parsed by the engine.
package reference

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"
)

const URIPrefix = "gam://reference/"

// ErrNotFound is returned for unknown resource URIs and prompt names.
var ErrNotFound = errors.New("reference: not found")

// Resource is one static reference document.
type Resource struct {
	URI         string
	Name        string
	Description string
	MIMEType    string
	file        string
}

var resources = []Resource{
	{URI: URIPrefix + "user-fields", Name: "User fields", Description: "Fields accepted by list_users", file: "user-fields.md"},
	{URI: URIPrefix + "group-fields", Name: "Group fields", Description: "Fields accepted by list_groups and membership roles", file: "group-fields.md"},
	{URI: URIPrefix + "query-syntax", Name: "Query syntax", Description: "Directory query language and how list_users filters compose", file: "query-syntax.md"},
	{URI: URIPrefix + "commands", Name: "GAM commands", Description: "The GAM command behind every tool", file: "commands.md"},
	{URI: URIPrefix + "workflows", Name: "Workflows", Description: "Offboarding, onboarding and review procedures", file: "workflows.md"},
}

//go:embed docs/*.md prompts.yaml
var files embed.FS

func Resources() []Resource {
	out := make([]Resource, len(resources))
	copy(out, resources)
	for i := range out {
		out[i].MIMEType = "text/markdown"
	}
	return out
}

// Read returns the document behind uri.
func Read(uri string) (string, error) {
	for _, r := range resources {
		if r.URI == uri {
			content, err := files.ReadFile(path.Join("docs", r.file))
			if err != nil {
				return "", fmt.Errorf("read reference %s: %w", r.file, err)
			}
			return string(content), nil
		}
	}
	return "", fmt.Errorf("%w: resource %s", ErrNotFound, uri)
}

type PromptArgument struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Required    bool   `yaml:"required"`
}

// Prompt is a templated conversation starter.
type Prompt struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Arguments   []PromptArgument `yaml:"arguments"`
	Template    string           `yaml:"template"`

	tmpl *template.Template
}

type promptCatalog struct {
	Prompts []*Prompt `yaml:"prompts"`
}

var (
	loadOnce  sync.Once
	prompts   map[string]*Prompt
	promptErr error
)

func loadPrompts() (map[string]*Prompt, error) {
	loadOnce.Do(func() {
		data, err := files.ReadFile("prompts.yaml")
		if err != nil {
			promptErr = fmt.Errorf("read prompt catalog: %w", err)
			return
		}
		var catalog promptCatalog
		if err := yaml.Unmarshal(data, &catalog); err != nil {
			promptErr = fmt.Errorf("parse prompt catalog: %w", err)
			return
		}
		byName := make(map[string]*Prompt, len(catalog.Prompts))
		for _, p := range catalog.Prompts {
			t, err := template.New(p.Name).Option("missingkey=zero").Parse(p.Template)
			if err != nil {
				promptErr = fmt.Errorf("parse prompt %s: %w", p.Name, err)
				return
			}
			p.tmpl = t
			byName[p.Name] = p
		}
		prompts = byName
	})
	return prompts, promptErr
}

// Prompts lists the prompt catalog sorted by name.
func Prompts() ([]Prompt, error) {
	byName, err := loadPrompts()
	if err != nil {
		return nil, err
	}
	out := make([]Prompt, 0, len(byName))
	for _, p := range byName {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Render fills the named prompt. Missing required arguments are an error.
func Render(name string, args map[string]string) (string, error) {
	byName, err := loadPrompts()
	if err != nil {
		return "", err
	}
	p, ok := byName[name]
	if !ok {
		return "", fmt.Errorf("%w: prompt %s", ErrNotFound, name)
	}

	values := make(map[string]string, len(p.Arguments))
	for _, a := range p.Arguments {
		v := strings.TrimSpace(args[a.Name])
		if v == "" && a.Required {
			return "", fmt.Errorf("prompt %s: argument %q is required", name, a.Name)
		}
		values[a.Name] = v
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, values); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
