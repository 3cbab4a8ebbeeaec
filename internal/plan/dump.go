package plan

import "github.com/davecgh/go-spew/spew"

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
	SortKeys:                true,
}

// Dump renders the plan for debugging.
func (p *AccessorPlan) Dump() string {
	return dumpConfig.Sdump(p.Packages, p.Diagnostics)
}
