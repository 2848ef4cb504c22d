package tools

// RegisterGAMTools adds the full GAM operation catalog to r.
func RegisterGAMTools(r *ToolRegistry, e *Engine) {
	groups := [][]Tool{
		userTools(e),
		securityTools(e),
		groupTools(e),
		orgUnitTools(e),
		{newRunGAMTool(e), newOffboardTool(e)},
	}
	for _, g := range groups {
		for _, t := range g {
			r.Register(t)
		}
	}
}
