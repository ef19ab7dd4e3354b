package selector

import (
	"context"
	"fmt"
	"strings"

	"mosaic/internal/catalog"
	"mosaic/internal/logging"
	"mosaic/internal/metrics"
	"mosaic/pkg/types"
)

// Deterministic maps patterns to components by fixed rules with no external
// calls. Invoking it twice with identical inputs yields identical output.
type Deterministic struct {
	logger logging.Logger
}

// NewDeterministic builds the rule-based generator.
func NewDeterministic(logger logging.Logger) *Deterministic {
	return &Deterministic{logger: logging.OrNop(logger)}
}

var _ Selector = (*Deterministic)(nil)

// Select maps the first three patterns to a fixed component type each
// (info-card, video-feed, task-list) and synthesizes one default info-card
// when that yields nothing, so len >= 1 always holds.
func (d *Deterministic) Select(ctx context.Context, patterns []types.Pattern, persona types.PersonaProfile, maxComponents int) (*catalog.ComponentSet, error) {
	metrics.RecordSelection("deterministic")
	return d.generate(ctx, patterns, persona, maxComponents)
}

// generate does the mapping without touching the selection counter, so the
// model selector can reuse it for its fallback under the "fallback" mode.
func (d *Deterministic) generate(ctx context.Context, patterns []types.Pattern, persona types.PersonaProfile, maxComponents int) (*catalog.ComponentSet, error) {
	maxComponents = normalizeMax(maxComponents)

	var components []catalog.Component
	for i, pattern := range patterns {
		if i >= 3 || len(components) >= maxComponents {
			break
		}

		var component catalog.Component
		switch i {
		case 0:
			component = infoCardFromPattern(pattern)
		case 1:
			component = videoFeedFromPattern(pattern)
		case 2:
			component = taskListFromPattern(pattern)
		}

		if err := component.Validate(); err != nil {
			// Fixed mapping rarely produces an invalid candidate; drop it and
			// keep going rather than aborting the run.
			d.logger.Warn("dropping invalid candidate for pattern %q: %v", pattern.Title, err)
			continue
		}
		components = append(components, component)
	}

	if len(components) == 0 {
		components = append(components, defaultInfoCard())
	}

	return &catalog.ComponentSet{
		Components: components,
		Reasoning:  fmt.Sprintf("rule-based selection from %d detected patterns", len(patterns)),
	}, nil
}

func titleOrFallback(pattern types.Pattern, fallback string) string {
	title := strings.TrimSpace(pattern.Title)
	if title == "" {
		return fallback
	}
	return catalog.Truncate(title, catalog.MaxTitleLen)
}

func infoCardFromPattern(pattern types.Pattern) *catalog.InfoCard {
	location := pattern.Title
	if len(pattern.Keywords) > 0 {
		location = pattern.Keywords[0]
	}
	return &catalog.InfoCard{
		Card: catalog.Card{
			ComponentType: catalog.TypeInfoCard,
			Title:         titleOrFallback(pattern, "Highlights"),
			Subtitle:      fmt.Sprintf("confidence %.2f", pattern.Confidence),
			PatternSource: pattern.Title,
		},
		Location: location,
		Headline: pattern.Description,
	}
}

func videoFeedFromPattern(pattern types.Pattern) *catalog.VideoFeed {
	query := pattern.Title
	if len(pattern.Keywords) > 0 {
		n := len(pattern.Keywords)
		if n > 3 {
			n = 3
		}
		query = strings.Join(pattern.Keywords[:n], " ")
	}
	return &catalog.VideoFeed{
		Card: catalog.Card{
			ComponentType: catalog.TypeVideoFeed,
			Title:         titleOrFallback(pattern, "Watch next"),
			Subtitle:      fmt.Sprintf("confidence %.2f", pattern.Confidence),
			PatternSource: pattern.Title,
		},
		Query:      query,
		MaxResults: 5,
	}
}

func taskListFromPattern(pattern types.Pattern) *catalog.TaskList {
	priority := catalog.PriorityLow
	switch {
	case pattern.Confidence > 0.75:
		priority = catalog.PriorityHigh
	case pattern.Confidence > 0.5:
		priority = catalog.PriorityMedium
	}

	var items []catalog.TaskItem
	for _, keyword := range pattern.Keywords {
		if len(items) >= catalog.MaxTaskItems {
			break
		}
		items = append(items, catalog.TaskItem{
			Text:     fmt.Sprintf("Explore %s", keyword),
			Priority: priority,
		})
	}
	if len(items) == 0 {
		items = append(items, catalog.TaskItem{
			Text:     fmt.Sprintf("Revisit %s", titleOrFallback(pattern, "your recent activity")),
			Priority: priority,
		})
	}

	return &catalog.TaskList{
		Card: catalog.Card{
			ComponentType: catalog.TypeTaskList,
			Title:         titleOrFallback(pattern, "Suggested next steps"),
			Subtitle:      fmt.Sprintf("confidence %.2f", pattern.Confidence),
			PatternSource: pattern.Title,
		},
		Items: items,
	}
}

func defaultInfoCard() *catalog.InfoCard {
	return &catalog.InfoCard{
		Card: catalog.Card{
			ComponentType: catalog.TypeInfoCard,
			Title:         "Your dashboard",
			Subtitle:      "No behavioral patterns detected yet",
			PatternSource: "general",
		},
		Location: "your area",
		Headline: "Check back after more activity has been collected.",
	}
}
