package selector

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"mosaic/internal/catalog"
	"mosaic/internal/metrics"
	"mosaic/pkg/types"
)

func testPatterns() []types.Pattern {
	return []types.Pattern{
		{Title: "Urban exploration", Keywords: []string{"Lisbon", "walking tours"}, Confidence: 0.9, InteractionCount: 40},
		{Title: "Woodworking videos", Keywords: []string{"joinery", "hand tools"}, Confidence: 0.8, InteractionCount: 25},
		{Title: "Weekly planning", Keywords: []string{"todo", "calendar"}, Confidence: 0.4, InteractionCount: 10},
	}
}

func TestDeterministicMapsFirstThreePatterns(t *testing.T) {
	sel := NewDeterministic(nil)
	set, err := sel.Select(context.Background(), testPatterns(), types.PersonaProfile{}, 5)
	require.NoError(t, err)
	require.Len(t, set.Components, 3)

	require.Equal(t, catalog.TypeInfoCard, set.Components[0].Type())
	require.Equal(t, catalog.TypeVideoFeed, set.Components[1].Type())
	require.Equal(t, catalog.TypeTaskList, set.Components[2].Type())

	require.Equal(t, "Urban exploration", set.Components[0].Meta().Source())
	require.Equal(t, "Woodworking videos", set.Components[1].Meta().Source())
	require.Equal(t, "Weekly planning", set.Components[2].Meta().Source())

	require.NoError(t, set.Validate(5))
}

func TestDeterministicEmptyPatternsYieldsDefaultInfoCard(t *testing.T) {
	sel := NewDeterministic(nil)
	set, err := sel.Select(context.Background(), nil, types.PersonaProfile{}, 5)
	require.NoError(t, err)
	require.Len(t, set.Components, 1)
	require.Equal(t, catalog.TypeInfoCard, set.Components[0].Type())
	require.NoError(t, set.Components[0].Validate())
}

func TestDeterministicIsIdempotent(t *testing.T) {
	sel := NewDeterministic(nil)
	persona := types.PersonaProfile{CommunicationStyle: "casual", ContentDepth: "brief"}

	first, err := sel.Select(context.Background(), testPatterns(), persona, 5)
	require.NoError(t, err)
	second, err := sel.Select(context.Background(), testPatterns(), persona, 5)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestDeterministicHonorsMaxComponents(t *testing.T) {
	sel := NewDeterministic(nil)
	set, err := sel.Select(context.Background(), testPatterns(), types.PersonaProfile{}, 2)
	require.NoError(t, err)
	require.Len(t, set.Components, 2)
}

func TestDeterministicNormalizesMaxComponents(t *testing.T) {
	sel := NewDeterministic(nil)

	set, err := sel.Select(context.Background(), testPatterns(), types.PersonaProfile{}, 0)
	require.NoError(t, err)
	require.Len(t, set.Components, 3)

	set, err = sel.Select(context.Background(), testPatterns(), types.PersonaProfile{}, 99)
	require.NoError(t, err)
	require.NoError(t, set.Validate(catalog.MaxComponents))
}

func TestDeterministicTruncatesLongTitleOnRuneBoundary(t *testing.T) {
	// 2-byte runes, well past the title byte limit.
	patterns := []types.Pattern{
		{Title: strings.Repeat("é", 120), Keywords: []string{"Lisbon"}, Confidence: 0.9},
	}

	sel := NewDeterministic(nil)
	set, err := sel.Select(context.Background(), patterns, types.PersonaProfile{}, 5)
	require.NoError(t, err)

	title := set.Components[0].Meta().Title
	require.True(t, utf8.ValidString(title))
	require.LessOrEqual(t, len(title), catalog.MaxTitleLen)
	require.NoError(t, set.Components[0].Validate())
}

func TestDeterministicRecordsSelectionMode(t *testing.T) {
	before := testutil.ToFloat64(metrics.SelectionsTotal.WithLabelValues("deterministic"))

	sel := NewDeterministic(nil)
	_, err := sel.Select(context.Background(), testPatterns(), types.PersonaProfile{}, 5)
	require.NoError(t, err)

	require.Equal(t, before+1, testutil.ToFloat64(metrics.SelectionsTotal.WithLabelValues("deterministic")))
}

func TestDeterministicPopulatesFieldsFromPattern(t *testing.T) {
	sel := NewDeterministic(nil)
	set, err := sel.Select(context.Background(), testPatterns(), types.PersonaProfile{}, 5)
	require.NoError(t, err)

	info, ok := set.Components[0].(*catalog.InfoCard)
	require.True(t, ok)
	require.Equal(t, "Lisbon", info.Location, "location comes from the first keyword")

	feed, ok := set.Components[1].(*catalog.VideoFeed)
	require.True(t, ok)
	require.Equal(t, "joinery hand tools", feed.Query)

	list, ok := set.Components[2].(*catalog.TaskList)
	require.True(t, ok)
	require.Len(t, list.Items, 2)
	require.Equal(t, catalog.PriorityLow, list.Items[0].Priority, "confidence 0.4 maps to low priority")
}
