package diag

import "context"

const statusVisibleOnline = "VISIBLE ONLINE"

// CheckAffinityConfig compares the CPUs SQL Server can see with the CPUs
// that are online. Any online CPU missing from the visible set points at
// an affinity mask.
func (c *Checker) CheckAffinityConfig(ctx context.Context) {
	schedulers, err := c.facts.SchedulerLayout(ctx)
	if err != nil {
		c.logger.Error("affinity config check failed", "error", err)
		c.fail("Error checking affinity config.")
		return
	}

	visible := map[int64]struct{}{}
	online := map[int64]struct{}{}
	for _, s := range schedulers {
		if s.Status == statusVisibleOnline {
			visible[s.CPUID] = struct{}{}
		}
		if s.IsOnline {
			online[s.CPUID] = struct{}{}
		}
	}

	if !equalSets(visible, online) {
		masked := diffSorted(online, visible)
		c.warn("Affinity mask is likely applied. Some CPUs are online but not visible to SQL Server:")
		c.infof("   Missing CPUs: %s", idList(masked))
	} else {
		c.ok("No CPU affinity mask detected. SQL sees all online CPUs.")
	}
}
