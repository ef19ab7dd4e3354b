// Package selector turns detected patterns and a persona into a bounded,
// validated set of dashboard components. Two generators implement the same
// contract: a deterministic one used when no model is configured (and as the
// fallback), and a model-backed one under a strict structured-output contract.
package selector

import (
	"context"

	"mosaic/internal/catalog"
	"mosaic/pkg/types"
)

// DefaultMaxComponents is the cap applied when the caller does not supply one.
const DefaultMaxComponents = 5

// Selector produces a ComponentSet for the given inputs. Implementations never
// return an invalid set: every member validates against the catalog and
// 1 <= len(components) <= maxComponents holds for all inputs.
type Selector interface {
	Select(ctx context.Context, patterns []types.Pattern, persona types.PersonaProfile, maxComponents int) (*catalog.ComponentSet, error)
}

func normalizeMax(maxComponents int) int {
	if maxComponents <= 0 {
		return DefaultMaxComponents
	}
	if maxComponents > catalog.MaxComponents {
		return catalog.MaxComponents
	}
	return maxComponents
}
