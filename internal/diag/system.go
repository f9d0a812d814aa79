package diag

import (
	"context"
	"database/sql"
	"errors"
)

const startTimeLayout = "2006-01-02 15:04:05"

// ReportSystemSpecs emits the instance resource block from
// sys.dm_os_sys_info.
func (c *Checker) ReportSystemSpecs(ctx context.Context) {
	specs, err := c.facts.SystemSpecs(ctx)
	if err != nil {
		c.logger.Error("system spec check failed", "error", err)
		if errors.Is(err, sql.ErrNoRows) {
			c.fail("Could not retrieve system specs.")
		} else {
			c.fail("Error retrieving system hardware configuration.")
		}
		return
	}

	c.info("\n🖥️ Server CPU & Memory Specs:")
	c.infof(" - Logical CPUs: %d", specs.CPUCount)
	c.infof(" - Hyperthread Ratio: %d", specs.HyperthreadRatio)
	c.infof(" - Physical Memory: %d MB", specs.PhysicalMemoryMB)
	c.infof(" - SQL Server Start Time: %s", specs.StartTime.Format(startTimeLayout))
	c.infof(" - Virtual Machine Type: %s", specs.VirtualMachineType)
}
