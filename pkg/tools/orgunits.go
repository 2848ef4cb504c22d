package tools

import (
	"context"
	"fmt"

	"github.com/limehawk/gam-multi/pkg/gam"
)

func orgUnitTools(e *Engine) []Tool {
	return []Tool{
		&gamTool{
			name:        "list_org_units",
			description: "List organizational units, optionally below a parent path.",
			properties: map[string]interface{}{
				"parent": stringProp(`Only units below this path (e.g. "/Sales")`),
				"fields": stringProp(`Comma-separated fields (e.g. "name,orgunitpath,description")`),
			},
			run: func(ctx context.Context, c call) *ToolResult {
				return runBuilt(ctx, e, c, gam.BuildListOrgUnits, nil)
			},
		},
		&gamTool{
			name:        "get_org_unit",
			description: "Get details of one organizational unit.",
			properties:  map[string]interface{}{"path": stringProp(`The OU path (e.g. "/Sales/West Coast")`)},
			required:    []string{"path"},
			run: func(ctx context.Context, c call) *ToolResult {
				return runBuilt(ctx, e, c, func(a pathArgs) (gam.CommandLine, error) {
					return gam.BuildGetOrgUnit(a.Path)
				}, nil)
			},
		},
		&gamTool{
			name:        "create_org_unit",
			description: "Create a new organizational unit.",
			properties: map[string]interface{}{
				"path":        stringProp(`The OU path (e.g. "/Sales/West Coast")`),
				"description": stringProp("Optional description"),
			},
			required: []string{"path"},
			run: func(ctx context.Context, c call) *ToolResult {
				return runBuilt(ctx, e, c, gam.BuildCreateOrgUnit, func(o gam.CreateOrgUnitOptions) string {
					return fmt.Sprintf("Organizational unit %s created successfully.", o.Path)
				})
			},
		},
	}
}
