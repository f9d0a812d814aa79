package diag

import (
	"context"
	"sort"
)

// ValidateNUMALayout checks scheduler distribution across NUMA nodes.
// Balance and online-ness are judged independently: uneven online-CPU
// counts per node are one warning, offline schedulers another.
func (c *Checker) ValidateNUMALayout(ctx context.Context) {
	schedulers, err := c.facts.SchedulerLayout(ctx)
	if err != nil {
		c.logger.Error("numa layout check failed", "error", err)
		c.fail("Error validating NUMA layout.")
		return
	}

	nodeCPUCounts := map[int64]int{}
	var offline []int64
	for _, s := range schedulers {
		if !s.IsOnline {
			offline = append(offline, s.CPUID)
			continue
		}
		if s.ParentNodeID != nil {
			nodeCPUCounts[*s.ParentNodeID]++
		}
	}

	distinct := map[int]struct{}{}
	for _, count := range nodeCPUCounts {
		distinct[count] = struct{}{}
	}
	if len(distinct) > 1 {
		c.warn("NUMA nodes have unbalanced CPU counts:")
		for _, node := range sortedNodes(nodeCPUCounts) {
			c.infof(" - Node %d: %d schedulers", node, nodeCPUCounts[node])
		}
	} else {
		c.ok("NUMA CPU distribution appears balanced.")
	}

	if len(offline) > 0 {
		c.warnf("Offline schedulers detected: %s", idList(offline))
	} else {
		c.ok("All schedulers are online.")
	}
}

// ValidateMemoryAlignment reconciles the node ids seen by schedulers with
// the memory nodes the server exposes. Without any parent_node_id there is
// nothing to reconcile and the check stops after a single warning; with
// one, both set differences are evaluated and reported independently.
func (c *Checker) ValidateMemoryAlignment(ctx context.Context) {
	schedulers, err := c.facts.SchedulerLayout(ctx)
	if err != nil {
		c.logger.Error("memory alignment check failed", "error", err)
		c.fail("Error validating memory alignment.")
		return
	}
	memNodes, err := c.facts.MemoryNodes(ctx)
	if err != nil {
		c.logger.Error("memory alignment check failed", "error", err)
		c.fail("Error validating memory alignment.")
		return
	}

	schedulerNodes := map[int64]struct{}{}
	for _, s := range schedulers {
		if s.ParentNodeID != nil {
			schedulerNodes[*s.ParentNodeID] = struct{}{}
		}
	}
	if len(schedulerNodes) == 0 {
		c.warn("NUMA layout cannot be fully validated (parent_node_id missing).")
		return
	}

	memoryNodes := map[int64]struct{}{}
	for _, n := range memNodes {
		memoryNodes[n.MemoryNodeID] = struct{}{}
	}

	if missing := diffSorted(schedulerNodes, memoryNodes); len(missing) > 0 {
		c.warn("NUMA nodes with schedulers but no memory assigned:")
		for _, node := range missing {
			c.infof(" - Node %d", node)
		}
	} else {
		c.ok("All scheduler nodes have memory assigned.")
	}

	if orphaned := diffSorted(memoryNodes, schedulerNodes); len(orphaned) > 0 {
		c.warn("Memory nodes present without schedulers:")
		for _, node := range orphaned {
			c.infof(" - Node %d", node)
		}
	} else {
		c.ok("All memory nodes align with scheduler nodes.")
	}
}

func sortedNodes(counts map[int64]int) []int64 {
	nodes := make([]int64, 0, len(counts))
	for node := range counts {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	return nodes
}
