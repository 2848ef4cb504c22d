package gam

import "strings"

type ListOrgUnitsOptions struct {
	Parent string `json:"parent"`
	Fields string `json:"fields"`
}

func BuildListOrgUnits(opts ListOrgUnitsOptions) (CommandLine, error) {
	parent, err := optionalOrgUnit("parent", opts.Parent)
	if err != nil {
		return CommandLine{}, err
	}
	cmd := NewCommand("print", "orgs")
	cmd.OptText("fromparent", parent)
	cmd.OptIdent("fields", normalizeFields(opts.Fields))
	return *cmd, nil
}

func BuildGetOrgUnit(path string) (CommandLine, error) {
	ou, err := requireOrgUnit("path", path)
	if err != nil {
		return CommandLine{}, err
	}
	return *NewCommand("info", "org").Text(ou), nil
}

type CreateOrgUnitOptions struct {
	Path        string `json:"path"`
	Description string `json:"description"`
}

func BuildCreateOrgUnit(opts CreateOrgUnitOptions) (CommandLine, error) {
	ou, err := requireOrgUnit("path", opts.Path)
	if err != nil {
		return CommandLine{}, err
	}
	if ou == "/" {
		return CommandLine{}, invalid("path", "the root organizational unit already exists")
	}
	cmd := NewCommand("create", "org").Text(ou)
	cmd.OptText("description", strings.TrimSpace(opts.Description))
	return *cmd, nil
}
