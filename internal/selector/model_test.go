package selector

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"mosaic/internal/catalog"
	mosaicerrors "mosaic/internal/errors"
	"mosaic/internal/llm"
	"mosaic/internal/metrics"
	"mosaic/pkg/types"
)

func newTestModel(client llm.Client) *Model {
	sel := NewModel(client, nil)
	sel.SetRetryConfig(mosaicerrors.RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
	})
	return sel
}

const validModelOutput = `{
	"components": [
		{
			"component_type": "info-card",
			"title": "Lisbon right now",
			"pattern_source": "Urban exploration",
			"location": "Lisbon"
		},
		{
			"component_type": "video-feed",
			"title": "Joinery deep dives",
			"pattern_source": "Woodworking videos",
			"query": "joinery hand tools",
			"max_results": 4
		}
	],
	"reasoning": "two strong patterns"
}`

func TestModelSelectParsesValidOutput(t *testing.T) {
	mock := &llm.MockClient{Responses: []string{validModelOutput}}
	sel := newTestModel(mock)

	set, err := sel.Select(context.Background(), testPatterns(), types.PersonaProfile{}, 5)
	require.NoError(t, err)
	require.Len(t, set.Components, 2)
	require.Equal(t, catalog.TypeInfoCard, set.Components[0].Type())
	require.Equal(t, catalog.TypeVideoFeed, set.Components[1].Type())
	require.Equal(t, "two strong patterns", set.Reasoning)
	require.Equal(t, 1, mock.Calls)
}

func TestModelSelectAcceptsFencedOutput(t *testing.T) {
	fenced := "Here is the selection:\n```json\n" + validModelOutput + "\n```"
	mock := &llm.MockClient{Responses: []string{fenced}}
	sel := newTestModel(mock)

	set, err := sel.Select(context.Background(), testPatterns(), types.PersonaProfile{}, 5)
	require.NoError(t, err)
	require.Len(t, set.Components, 2)
}

func TestModelSelectDropsCandidateExceedingMarkerBound(t *testing.T) {
	markers := `{"lat": 1, "lng": 1}`
	for i := 0; i < 20; i++ {
		markers += `,{"lat": 1, "lng": 1}`
	}
	output := fmt.Sprintf(`{
		"components": [
			{
				"component_type": "map-card",
				"title": "Too many markers",
				"pattern_source": "Urban exploration",
				"center_lat": 1, "center_lng": 1, "zoom": 10,
				"markers": [%s]
			},
			{
				"component_type": "info-card",
				"title": "Lisbon",
				"pattern_source": "Urban exploration",
				"location": "Lisbon"
			}
		],
		"reasoning": "r"
	}`, markers)

	sel := newTestModel(&llm.MockClient{Responses: []string{output}})
	set, err := sel.Select(context.Background(), testPatterns(), types.PersonaProfile{}, 5)
	require.NoError(t, err)
	require.Len(t, set.Components, 1, "21-marker candidate must be excluded")
	require.Equal(t, catalog.TypeInfoCard, set.Components[0].Type())
}

func TestModelSelectDropsCandidateWithUnknownField(t *testing.T) {
	output := `{
		"components": [
			{
				"component_type": "info-card",
				"title": "Lisbon",
				"pattern_source": "Urban exploration",
				"location": "Lisbon",
				"gradient": "sunset"
			},
			{
				"component_type": "content-card",
				"title": "Read",
				"pattern_source": "Woodworking videos",
				"body": "A primer on mortise and tenon joints."
			}
		]
	}`
	sel := newTestModel(&llm.MockClient{Responses: []string{output}})
	set, err := sel.Select(context.Background(), testPatterns(), types.PersonaProfile{}, 5)
	require.NoError(t, err)
	require.Len(t, set.Components, 1)
	require.Equal(t, catalog.TypeContentCard, set.Components[0].Type())
}

func TestModelSelectTruncatesOverproduction(t *testing.T) {
	components := ""
	for i := 0; i < 6; i++ {
		if i > 0 {
			components += ","
		}
		components += fmt.Sprintf(`{
			"component_type": "content-card",
			"title": "Card %d",
			"pattern_source": "Pattern %d",
			"body": "body %d"
		}`, i, i, i)
	}
	output := fmt.Sprintf(`{"components": [%s], "reasoning": "r"}`, components)

	sel := newTestModel(&llm.MockClient{Responses: []string{output}})
	set, err := sel.Select(context.Background(), testPatterns(), types.PersonaProfile{}, 4)
	require.NoError(t, err)
	require.Len(t, set.Components, 4)
}

func TestModelSelectEnforcesPerPatternCap(t *testing.T) {
	components := ""
	for i := 0; i < 4; i++ {
		if i > 0 {
			components += ","
		}
		components += fmt.Sprintf(`{
			"component_type": "content-card",
			"title": "Card %d",
			"pattern_source": "Urban exploration",
			"body": "body %d"
		}`, i, i)
	}
	output := fmt.Sprintf(`{"components": [%s]}`, components)

	sel := newTestModel(&llm.MockClient{Responses: []string{output}})
	set, err := sel.Select(context.Background(), testPatterns(), types.PersonaProfile{}, 5)
	require.NoError(t, err)
	require.Len(t, set.Components, 2, "at most 2 components per pattern")
}

func TestModelSelectFallsBackOnGarbageOutput(t *testing.T) {
	sel := newTestModel(&llm.MockClient{Responses: []string{"I could not decide, sorry!"}})
	set, err := sel.Select(context.Background(), testPatterns(), types.PersonaProfile{}, 5)
	require.NoError(t, err)

	// Deterministic fallback shape.
	require.Len(t, set.Components, 3)
	require.Equal(t, catalog.TypeInfoCard, set.Components[0].Type())
	require.Equal(t, catalog.TypeVideoFeed, set.Components[1].Type())
	require.Equal(t, catalog.TypeTaskList, set.Components[2].Type())
}

func TestModelSelectRejectsUnknownEnvelopeField(t *testing.T) {
	output := `{
		"components": [
			{
				"component_type": "info-card",
				"title": "Lisbon",
				"pattern_source": "Urban exploration",
				"location": "Lisbon"
			}
		],
		"reasoning": "r",
		"confidence": 0.9
	}`
	sel := newTestModel(&llm.MockClient{Responses: []string{output}})
	set, err := sel.Select(context.Background(), testPatterns(), types.PersonaProfile{}, 5)
	require.NoError(t, err)
	require.Len(t, set.Components, 3, "extra top-level field is a contract violation, so the deterministic shape wins")
}

func TestModelSelectFallbackRecordsFallbackMode(t *testing.T) {
	fallbackBefore := testutil.ToFloat64(metrics.SelectionsTotal.WithLabelValues("fallback"))
	deterministicBefore := testutil.ToFloat64(metrics.SelectionsTotal.WithLabelValues("deterministic"))

	sel := newTestModel(&llm.MockClient{Responses: []string{"not json at all"}})
	_, err := sel.Select(context.Background(), testPatterns(), types.PersonaProfile{}, 5)
	require.NoError(t, err)

	require.Equal(t, fallbackBefore+1, testutil.ToFloat64(metrics.SelectionsTotal.WithLabelValues("fallback")))
	require.Equal(t, deterministicBefore, testutil.ToFloat64(metrics.SelectionsTotal.WithLabelValues("deterministic")),
		"a fallback run is counted once, under its own mode")
}

func TestModelSelectFallsBackWhenAllComponentsInvalid(t *testing.T) {
	output := `{"components": [{"component_type": "hero-banner", "title": "x"}]}`
	sel := newTestModel(&llm.MockClient{Responses: []string{output}})
	set, err := sel.Select(context.Background(), testPatterns(), types.PersonaProfile{}, 5)
	require.NoError(t, err)
	require.Len(t, set.Components, 3)
}

func TestModelSelectRetriesTransientErrorsThenFallsBack(t *testing.T) {
	mock := &llm.MockClient{
		Errs: []error{
			mosaicerrors.NewTransientError(fmt.Errorf("boom"), "down"),
			mosaicerrors.NewTransientError(fmt.Errorf("boom"), "down"),
			mosaicerrors.NewTransientError(fmt.Errorf("boom"), "down"),
			mosaicerrors.NewTransientError(fmt.Errorf("boom"), "down"),
		},
	}
	sel := newTestModel(mock)

	set, err := sel.Select(context.Background(), testPatterns(), types.PersonaProfile{}, 5)
	require.NoError(t, err, "selection failures never surface to the caller")
	require.Equal(t, 4, mock.Calls, "first try plus three retries")
	require.Len(t, set.Components, 3)
}

func TestModelSelectRecoversAfterTransientError(t *testing.T) {
	mock := &llm.MockClient{
		Errs:      []error{mosaicerrors.NewTransientError(fmt.Errorf("blip"), "down")},
		Responses: []string{"", validModelOutput},
	}
	sel := newTestModel(mock)

	set, err := sel.Select(context.Background(), testPatterns(), types.PersonaProfile{}, 5)
	require.NoError(t, err)
	require.Equal(t, 2, mock.Calls)
	require.Len(t, set.Components, 2)
	require.Equal(t, "two strong patterns", set.Reasoning)
}

func TestModelSelectRepairsAlmostJSON(t *testing.T) {
	// Trailing comma: invalid JSON that jsonrepair can fix.
	output := `{
		"components": [
			{
				"component_type": "info-card",
				"title": "Lisbon",
				"pattern_source": "Urban exploration",
				"location": "Lisbon",
			},
		],
		"reasoning": "r"
	}`
	sel := newTestModel(&llm.MockClient{Responses: []string{output}})
	set, err := sel.Select(context.Background(), testPatterns(), types.PersonaProfile{}, 5)
	require.NoError(t, err)
	require.Len(t, set.Components, 1)
	require.Equal(t, catalog.TypeInfoCard, set.Components[0].Type())
}
