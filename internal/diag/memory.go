package diag

import "context"

// ValidateMemoryConfig checks the instance memory settings against
// physical RAM. All four values are required; a partial snapshot is
// reported as an error and nothing is validated from it. The starvation
// and ramp-up rules are evaluated independently.
func (c *Checker) ValidateMemoryConfig(ctx context.Context) {
	mem, err := c.facts.MemoryConfiguration(ctx)
	if err != nil {
		c.logger.Error("memory configuration fetch failed", "error", err)
		c.fail("Unable to retrieve memory configuration.")
		return
	}
	if mem.MinServerMemoryMB == nil || mem.MaxServerMemoryMB == nil {
		c.fail("Unable to retrieve memory configuration.")
		return
	}
	minMem := *mem.MinServerMemoryMB
	maxMem := *mem.MaxServerMemoryMB

	c.info("\n🔍 SQL Server Memory Configuration:")
	c.infof(" - Total Physical RAM: %d MB", mem.TotalPhysicalMemoryMB)
	c.infof(" - Available RAM: %d MB", mem.AvailablePhysicalMemoryMB)
	c.infof(" - SQL Min Memory: %d MB", minMem)
	c.infof(" - SQL Max Memory: %d MB", maxMem)

	if maxMem > mem.TotalPhysicalMemoryMB {
		c.warn("SQL Max Memory exceeds physical RAM. Risk of OS starvation.")
	} else {
		c.ok("SQL Max Memory fits within physical RAM.")
	}

	if float64(minMem) < 0.25*float64(maxMem) {
		c.warn("SQL Min Memory is set very low compared to Max. Could delay memory ramp-up.")
	} else {
		c.ok("SQL Min/Max memory ratio looks reasonable.")
	}
}
