package diag

import "context"

const (
	defaultTopQueries = 5
	sqlTextLimit      = 150
)

// AnalyzeSQLWorkload reports the longest-running active requests and any
// sessions waiting on memory grants. Statement text is truncated so one
// runaway batch cannot flood the report.
func (c *Checker) AnalyzeSQLWorkload(ctx context.Context, topN int) {
	if topN <= 0 {
		topN = defaultTopQueries
	}

	c.infof("\n🔍 Active SQL Requests (top %d):", topN)
	requests, err := c.facts.ActiveRequests(ctx, topN)
	if err != nil {
		c.logger.Error("workload fetch failed", "error", err)
		c.fail("Error analyzing SQL workload.")
		return
	}
	if len(requests) == 0 {
		c.ok("No active long-running queries.")
	} else {
		for _, req := range requests {
			c.infof("\n🧵 Session %d", req.SessionID)
			c.infof(" - Status: %s", req.Status)
			c.infof(" - Command: %s", req.Command)
			c.infof(" - CPU Time: %d ms", req.CPUTimeMS)
			c.infof(" - Elapsed Time: %d ms", req.ElapsedMS)
			c.infof(" - SQL: %s...", truncateSQL(req.SQLText))
		}
	}

	c.info("\n💾 Memory Grants (if any):")
	grants, err := c.facts.PendingGrants(ctx)
	if err != nil {
		c.logger.Error("memory grant fetch failed", "error", err)
		c.fail("Error analyzing SQL workload.")
		return
	}
	if len(grants) == 0 {
		c.ok("No memory grant pressure detected.")
		return
	}
	for _, g := range grants {
		c.warnf("Session %d waiting for memory: %d KB requested, %d KB granted", g.SessionID, g.RequestedKB, g.GrantedKB)
	}
}

func truncateSQL(text *string) string {
	if text == nil {
		return ""
	}
	runes := []rune(*text)
	if len(runes) > sqlTextLimit {
		runes = runes[:sqlTextLimit]
	}
	return string(runes)
}
