package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"mosaic/internal/catalog"
	"mosaic/internal/enrich"
	"mosaic/internal/selector"
	"mosaic/internal/services"
	"mosaic/pkg/types"
)

type stubWeather struct{}

func (stubWeather) Current(ctx context.Context, place string) (services.Weather, error) {
	return services.Weather{TempC: 19, Condition: "clear sky", Humidity: 40, WindKPH: 6}, nil
}

type failingVideo struct{}

func (failingVideo) Search(ctx context.Context, query string, maxResults int) ([]services.VideoResult, error) {
	return nil, fmt.Errorf("quota exceeded")
}

func testInputs() ([]types.Pattern, types.PersonaProfile) {
	patterns := []types.Pattern{
		{Title: "Urban exploration", Keywords: []string{"Lisbon"}, Confidence: 0.9},
		{Title: "Woodworking videos", Keywords: []string{"joinery"}, Confidence: 0.8},
		{Title: "Weekly planning", Keywords: []string{"todo"}, Confidence: 0.4},
	}
	return patterns, types.PersonaProfile{CommunicationStyle: "casual"}
}

func TestGenerateProducesValidatedEnrichedSet(t *testing.T) {
	orchestrator := enrich.NewOrchestrator(enrich.Adapters{
		Weather: stubWeather{},
		Video:   failingVideo{},
	}, nil)
	generator := New(selector.NewDeterministic(nil), orchestrator, nil)

	patterns, persona := testInputs()
	set, err := generator.Generate(context.Background(), patterns, persona, 5)

	require.NoError(t, err)
	require.NoError(t, set.Validate(5))
	require.Len(t, set.Components, 3)

	// Weather adapter succeeded: the info-card carries live data.
	info, ok := set.Components[0].(*catalog.InfoCard)
	require.True(t, ok)
	require.Equal(t, "clear sky", info.Condition)

	// Video adapter failed: the feed is structurally unchanged.
	feed, ok := set.Components[1].(*catalog.VideoFeed)
	require.True(t, ok)
	require.Empty(t, feed.Videos)
}

func TestGenerateAlwaysProducesSomething(t *testing.T) {
	generator := New(selector.NewDeterministic(nil), enrich.NewOrchestrator(enrich.Adapters{}, nil), nil)

	set, err := generator.Generate(context.Background(), nil, types.PersonaProfile{}, 5)
	require.NoError(t, err)
	require.Len(t, set.Components, 1)
	require.Equal(t, catalog.TypeInfoCard, set.Components[0].Type())
}
