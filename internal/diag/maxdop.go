package diag

import (
	"context"
	"fmt"
	"strconv"
)

// RecommendMaxDOP derives a max degree of parallelism recommendation from
// the NUMA node count. A missing current value is reported but never stops
// the recommendation itself; a scheduler set without parent node ids falls
// back to a single-node assumption.
func (c *Checker) RecommendMaxDOP(ctx context.Context) {
	current, err := c.facts.MaxDOP(ctx)
	if err != nil {
		c.logger.Error("maxdop fetch failed", "error", err)
		c.fail("Unable to retrieve current maxDOP.")
		current = nil
	}

	schedulers, err := c.facts.SchedulerLayout(ctx)
	if err != nil {
		c.logger.Error("maxdop scheduler fetch failed", "error", err)
		c.fail("Error recommending maxDOP.")
		return
	}

	nodes := map[int64]struct{}{}
	for _, s := range schedulers {
		if s.ParentNodeID != nil {
			nodes[*s.ParentNodeID] = struct{}{}
		}
	}
	nodeCount := len(nodes)
	if nodeCount == 0 {
		nodeCount = 1
		c.info("⚠️ Falling back to 1 NUMA node (parent_node_id unavailable)")
	}

	var recommended int
	var reason string
	if nodeCount == 1 {
		recommended = 8
		reason = "Single NUMA node - general best practice"
	} else {
		recommended = nodeCount * 2
		reason = fmt.Sprintf("%d NUMA nodes detected - scaling maxDOP accordingly", nodeCount)
	}

	c.infof("🧠 Current maxDOP: %s", formatMaxDOP(current))
	c.infof("✅ Recommended maxDOP: %d", recommended)
	c.infof("📌 Reason: %s", reason)
}

func formatMaxDOP(v *int64) string {
	if v == nil {
		return "unknown"
	}
	return strconv.FormatInt(*v, 10)
}
