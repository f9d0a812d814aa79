package diag

import (
	"context"

	"github.com/BMFCloud/InfraSnitch/internal/model"
)

// cachedFacts memoizes the facts several checks share so one run hits the
// server once per fact type. Only successful fetches are cached; a failed
// fetch passes through and the next check retries the source. All facts
// live within one short-lived run, so there is no staleness window.
type cachedFacts struct {
	src FactSource

	schedulers   []model.SchedulerRecord
	schedulersOK bool

	memNodes   []model.MemoryNodeRecord
	memNodesOK bool

	specs   model.SystemSpecs
	specsOK bool
}

func newCachedFacts(src FactSource) *cachedFacts {
	return &cachedFacts{src: src}
}

func (c *cachedFacts) SchedulerLayout(ctx context.Context) ([]model.SchedulerRecord, error) {
	if c.schedulersOK {
		return c.schedulers, nil
	}
	recs, err := c.src.SchedulerLayout(ctx)
	if err != nil {
		return nil, err
	}
	c.schedulers = recs
	c.schedulersOK = true
	return recs, nil
}

func (c *cachedFacts) MemoryNodes(ctx context.Context) ([]model.MemoryNodeRecord, error) {
	if c.memNodesOK {
		return c.memNodes, nil
	}
	recs, err := c.src.MemoryNodes(ctx)
	if err != nil {
		return nil, err
	}
	c.memNodes = recs
	c.memNodesOK = true
	return recs, nil
}

func (c *cachedFacts) SystemSpecs(ctx context.Context) (model.SystemSpecs, error) {
	if c.specsOK {
		return c.specs, nil
	}
	specs, err := c.src.SystemSpecs(ctx)
	if err != nil {
		return model.SystemSpecs{}, err
	}
	c.specs = specs
	c.specsOK = true
	return specs, nil
}

func (c *cachedFacts) MemoryConfiguration(ctx context.Context) (model.MemoryConfig, error) {
	return c.src.MemoryConfiguration(ctx)
}

func (c *cachedFacts) MaxDOP(ctx context.Context) (*int64, error) {
	return c.src.MaxDOP(ctx)
}

func (c *cachedFacts) ActiveRequests(ctx context.Context, top int) ([]model.ActiveRequest, error) {
	return c.src.ActiveRequests(ctx, top)
}

func (c *cachedFacts) PendingGrants(ctx context.Context) ([]model.MemoryGrant, error) {
	return c.src.PendingGrants(ctx)
}
