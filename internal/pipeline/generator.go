// Package pipeline composes the selection and enrichment stages behind the
// single operation the downstream assembly layer consumes.
package pipeline

import (
	"context"
	"time"

	"mosaic/internal/catalog"
	"mosaic/internal/enrich"
	"mosaic/internal/logging"
	"mosaic/internal/metrics"
	"mosaic/internal/selector"
	"mosaic/pkg/types"
)

// Generator produces enriched dashboard components for a set of patterns and
// a persona. It always returns a valid, bounded set, degrading to default and
// un-enriched content rather than failing outright.
type Generator struct {
	selector     selector.Selector
	orchestrator *enrich.Orchestrator
	logger       logging.Logger
}

// New wires the two stages together. Both dependencies are interfaces or
// injectable structs so the pipeline is testable with fakes.
func New(sel selector.Selector, orchestrator *enrich.Orchestrator, logger logging.Logger) *Generator {
	return &Generator{
		selector:     sel,
		orchestrator: orchestrator,
		logger:       logging.OrNop(logger),
	}
}

// Generate selects components for the inputs and enriches them with live data.
func (g *Generator) Generate(ctx context.Context, patterns []types.Pattern, persona types.PersonaProfile, maxComponents int) (*catalog.ComponentSet, error) {
	selectStart := time.Now()
	set, err := g.selector.Select(ctx, patterns, persona, maxComponents)
	if err != nil {
		return nil, err
	}
	metrics.ObserveStage("select", time.Since(selectStart))
	g.logger.Info("selected %d components from %d patterns", len(set.Components), len(patterns))

	enrichStart := time.Now()
	enriched := g.orchestrator.Enrich(ctx, set.Components)
	metrics.ObserveStage("enrich", time.Since(enrichStart))

	return &catalog.ComponentSet{Components: enriched, Reasoning: set.Reasoning}, nil
}
