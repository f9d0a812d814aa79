package diag

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/BMFCloud/InfraSnitch/internal/hostprobe"
	"github.com/BMFCloud/InfraSnitch/internal/model"
)

// FactSource supplies the instance telemetry the checks consume. Each
// method blocks until the server answers; failures are wrapped per fact
// so checks can report the concern that broke.
type FactSource interface {
	SchedulerLayout(ctx context.Context) ([]model.SchedulerRecord, error)
	MemoryNodes(ctx context.Context) ([]model.MemoryNodeRecord, error)
	MemoryConfiguration(ctx context.Context) (model.MemoryConfig, error)
	MaxDOP(ctx context.Context) (*int64, error)
	SystemSpecs(ctx context.Context) (model.SystemSpecs, error)
	ActiveRequests(ctx context.Context, top int) ([]model.ActiveRequest, error)
	PendingGrants(ctx context.Context) ([]model.MemoryGrant, error)
}

// Emitter accepts one judgment at a time. It is side-effect-only; a check
// is complete once its judgments are handed over.
type Emitter interface {
	Emit(model.Judgment)
}

// Checker runs the diagnostic checks for one instance. Every check
// isolates its own data-access failures: a broken fetch becomes a single
// error judgment and the next check still runs.
type Checker struct {
	facts  *cachedFacts
	probe  hostprobe.Prober
	sink   Emitter
	logger *slog.Logger
}

func NewChecker(facts FactSource, probe hostprobe.Prober, sink Emitter, logger *slog.Logger) *Checker {
	c := &Checker{
		facts:  newCachedFacts(facts),
		probe:  probe,
		sink:   sink,
		logger: logger,
	}
	c.info("🔧 Infrastructure Tuning Toolkit - Diagnostic Tool")
	return c
}

func (c *Checker) emit(level model.Level, msg string) {
	c.sink.Emit(model.Judgment{Level: level, Message: msg})
}

func (c *Checker) ok(msg string) {
	c.emit(model.LevelOK, msg)
}

func (c *Checker) warn(msg string) {
	c.emit(model.LevelWarn, msg)
}

func (c *Checker) warnf(format string, args ...any) {
	c.emit(model.LevelWarn, fmt.Sprintf(format, args...))
}

func (c *Checker) fail(msg string) {
	c.emit(model.LevelError, msg)
}

func (c *Checker) info(msg string) {
	c.emit(model.LevelInfo, msg)
}

func (c *Checker) infof(format string, args ...any) {
	c.emit(model.LevelInfo, fmt.Sprintf(format, args...))
}

// idList renders CPU or node ids the way the report has always shown
// them: bracketed, comma separated.
func idList(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// diffSorted returns the members of a that are absent from b, ascending.
func diffSorted(a, b map[int64]struct{}) []int64 {
	var out []int64
	for id := range a {
		if _, ok := b[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func equalSets(a, b map[int64]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}
