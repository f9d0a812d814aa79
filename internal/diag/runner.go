package diag

import (
	"context"
	"strings"
)

// RunAll executes the full diagnostic battery in a fixed order. Individual
// checks isolate their own failures, so one broken fact source never stops
// the rest of the run.
func (c *Checker) RunAll(ctx context.Context, topN int) {
	c.info("\n🔧 Running Full SQL Server + VM Diagnostics\n" + strings.Repeat("-", 50))

	c.ReportSystemSpecs(ctx)
	c.ValidateNUMALayout(ctx)
	c.ValidateMemoryAlignment(ctx)
	c.RecommendMaxDOP(ctx)
	c.ValidateMemoryConfig(ctx)
	c.CheckAffinityConfig(ctx)
	c.ReportSystemSpecs(ctx)
	c.CheckSocketLayout(ctx)
	c.DetectVirtualEnvironment(ctx)
	c.CheckVirtualHardware(ctx)
	c.AnalyzeSQLWorkload(ctx, topN)

	c.info("")
	c.ok("Diagnostics complete.")
}
