package events

import (
	"context"
	"sync"

	"ontologykg/domain/events"
)

// VocabCategoryStats is a cached count of vocabulary types per category,
// maintained incrementally instead of recomputed on every admin list call.
type VocabCategoryStats struct {
	Total      int
	ByCategory map[string]int
	Ambiguous  int
	Deprecated int
}

// VocabStatsProjection keeps a running tally of vocabulary composition by
// consuming vocab_type.* events, grounded on the teacher's
// GraphStatsProjection incremental-update shape.
type VocabStatsProjection struct {
	BaseEventHandler
	mu    sync.RWMutex
	stats VocabCategoryStats
}

func NewVocabStatsProjection() *VocabStatsProjection {
	return &VocabStatsProjection{
		BaseEventHandler: NewBaseEventHandler("VocabStatsProjection", 20, []string{
			"vocab_type.created", "vocab_type.categorized", "vocab_type.deprecated", "vocab_type.merged",
		}),
		stats: VocabCategoryStats{ByCategory: make(map[string]int)},
	}
}

func (p *VocabStatsProjection) Handle(ctx context.Context, event events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch e := event.(type) {
	case events.VocabTypeCreated:
		p.stats.Total++
	case events.VocabTypeCategorized:
		if e.Ambiguous {
			p.stats.Ambiguous++
		}
		p.stats.ByCategory[e.Category]++
	case events.VocabTypeDeprecated:
		p.stats.Deprecated++
	case events.VocabTypeMerged:
		// A merge also dispatches the deprecated type's own
		// vocab_type.deprecated event, which already counted it.
	}
	return nil
}

// Snapshot returns a copy of the current counts.
func (p *VocabStatsProjection) Snapshot() VocabCategoryStats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	byCategory := make(map[string]int, len(p.stats.ByCategory))
	for k, v := range p.stats.ByCategory {
		byCategory[k] = v
	}
	return VocabCategoryStats{Total: p.stats.Total, ByCategory: byCategory, Ambiguous: p.stats.Ambiguous, Deprecated: p.stats.Deprecated}
}

// Reset clears accumulated counts, used after a full vocabulary sync
// replay.
func (p *VocabStatsProjection) Reset(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats = VocabCategoryStats{ByCategory: make(map[string]int)}
	return nil
}
