package catalog

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func validMapCard() *MapCard {
	return &MapCard{
		Card:      Card{ComponentType: TypeMapCard, Title: "Nearby spots", PatternSource: "Local explorer"},
		CenterLat: 48.85,
		CenterLng: 2.35,
		Zoom:      12,
		Markers:   []Marker{{Lat: 48.85, Lng: 2.35, Label: "Paris"}},
	}
}

func TestCardValidation(t *testing.T) {
	card := validMapCard()
	require.NoError(t, card.Validate())

	card.Title = ""
	require.Error(t, card.Validate())

	card.Title = strings.Repeat("x", MaxTitleLen+1)
	err := card.Validate()
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "title", verr.Field)
}

func TestCardRejectsMismatchedTag(t *testing.T) {
	card := validMapCard()
	card.ComponentType = TypeInfoCard
	require.Error(t, card.Validate())
}

func TestMapCardMarkerBounds(t *testing.T) {
	card := validMapCard()

	card.Markers = nil
	require.Error(t, card.Validate(), "zero markers must be rejected")

	card.Markers = make([]Marker, MaxMarkers+1)
	for i := range card.Markers {
		card.Markers[i] = Marker{Lat: 1, Lng: 1}
	}
	require.Error(t, card.Validate(), "21 markers must be rejected")

	card.Markers = []Marker{{Lat: 91, Lng: 0}}
	require.Error(t, card.Validate())

	card.Markers = []Marker{{Lat: 0, Lng: -181}}
	require.Error(t, card.Validate())
}

func TestMapCardZoomBounds(t *testing.T) {
	card := validMapCard()
	card.Zoom = 0
	require.Error(t, card.Validate())
	card.Zoom = 21
	require.Error(t, card.Validate())
}

func TestInfoCardValidation(t *testing.T) {
	card := &InfoCard{
		Card:     Card{ComponentType: TypeInfoCard, Title: "Weather", PatternSource: "Commuter"},
		Location: "Berlin",
		Humidity: 55,
	}
	require.NoError(t, card.Validate())

	card.Location = ""
	require.Error(t, card.Validate())

	card.Location = "Berlin"
	card.Humidity = 101
	require.Error(t, card.Validate())

	card.Humidity = 50
	card.WindKPH = -1
	require.Error(t, card.Validate())
}

func TestVideoFeedValidation(t *testing.T) {
	feed := &VideoFeed{
		Card:       Card{ComponentType: TypeVideoFeed, Title: "Clips", PatternSource: "Maker"},
		Query:      "woodworking",
		MaxResults: 5,
	}
	require.NoError(t, feed.Validate())

	feed.Query = ""
	require.Error(t, feed.Validate())

	feed.Query = "woodworking"
	feed.MaxResults = 11
	require.Error(t, feed.Validate())

	feed.MaxResults = 5
	feed.Videos = make([]Video, MaxVideos+1)
	require.Error(t, feed.Validate())
}

func TestTaskListValidation(t *testing.T) {
	list := &TaskList{
		Card:  Card{ComponentType: TypeTaskList, Title: "Today", PatternSource: "Planner"},
		Items: []TaskItem{{Text: "review notes", Priority: PriorityHigh}},
	}
	require.NoError(t, list.Validate())

	list.Items = make([]TaskItem, MaxTaskItems+1)
	for i := range list.Items {
		list.Items[i] = TaskItem{Text: "x", Priority: PriorityLow}
	}
	require.Error(t, list.Validate(), "16 items must be rejected")

	list.Items = []TaskItem{{Text: "x", Priority: "urgent"}}
	require.Error(t, list.Validate(), "unknown priority must be rejected")

	list.Items = []TaskItem{{Text: "", Priority: PriorityLow}}
	require.Error(t, list.Validate())
}

func TestEventCalendarValidation(t *testing.T) {
	cal := &EventCalendar{
		Card:     Card{ComponentType: TypeEventCalendar, Title: "This week", PatternSource: "Social"},
		Location: "Lisbon",
	}
	require.NoError(t, cal.Validate())

	cal.Events = make([]Event, MaxEvents+1)
	require.Error(t, cal.Validate())

	cal.Events = nil
	cal.Location = ""
	require.Error(t, cal.Validate())
}

func TestContentCardValidation(t *testing.T) {
	card := &ContentCard{
		Card: Card{ComponentType: TypeContentCard, Title: "Read", PatternSource: "Reader"},
		Body: "A short summary.",
	}
	require.NoError(t, card.Validate())

	card.Body = strings.Repeat("x", MaxBodyLen+1)
	require.Error(t, card.Validate())

	card.Body = "ok"
	card.Tags = make([]string, MaxContentTags+1)
	require.Error(t, card.Validate())
}

func TestAllTypesCoversEveryVariant(t *testing.T) {
	// Guards exhaustiveness: newByType must know every listed type.
	for _, ct := range AllTypes() {
		c, err := newByType(ct)
		require.NoError(t, err)
		require.Equal(t, ct, c.Type())
	}
	require.Len(t, AllTypes(), 6)
}

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	// "é" is 2 bytes; an odd byte limit lands mid-rune.
	s := strings.Repeat("é", 100)

	out := Truncate(s, 149)
	require.True(t, utf8.ValidString(out))
	require.Equal(t, 148, len(out), "cut moves back to the previous rune start")

	require.Equal(t, "abc", Truncate("abc", 10), "short strings pass through")
	require.Equal(t, "", Truncate("abc", 0))
}
