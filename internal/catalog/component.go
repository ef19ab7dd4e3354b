// Package catalog defines the closed set of dashboard component variants and
// their validation rules. A value that violates any bound is rejected at
// construction time and never reaches downstream consumers.
package catalog

import (
	"fmt"
	"unicode/utf8"
)

// ComponentType tags one of the six component variants.
type ComponentType string

const (
	TypeInfoCard      ComponentType = "info-card"
	TypeMapCard       ComponentType = "map-card"
	TypeVideoFeed     ComponentType = "video-feed"
	TypeEventCalendar ComponentType = "event-calendar"
	TypeTaskList      ComponentType = "task-list"
	TypeContentCard   ComponentType = "content-card"
)

// AllTypes lists every known component type. Dispatch sites iterate this in
// tests so an added variant fails loudly until every switch is updated.
func AllTypes() []ComponentType {
	return []ComponentType{
		TypeInfoCard,
		TypeMapCard,
		TypeVideoFeed,
		TypeEventCalendar,
		TypeTaskList,
		TypeContentCard,
	}
}

// Shared bounds.
const (
	MaxTitleLen     = 150
	MaxComponents   = 6
	MaxMarkers      = 20
	MaxMarkerLabel  = 80
	MaxVideos       = 10
	MaxEvents       = 10
	MaxTaskItems    = 15
	MaxTaskTextLen  = 200
	MaxBodyLen      = 2000
	MaxContentTags  = 8
	MinZoom         = 1
	MaxZoom         = 20
	MaxVideoResults = 10
)

// ValidationError reports a catalog bound violation. Callers handle it locally
// by dropping the offending candidate; it never aborts a whole run.
type ValidationError struct {
	ComponentType ComponentType
	Field         string
	Reason        string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.ComponentType, e.Field, e.Reason)
}

func invalidf(ct ComponentType, field, format string, args ...any) error {
	return &ValidationError{ComponentType: ct, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Truncate shortens s to at most max bytes without splitting a multi-byte
// rune, so the result is always valid UTF-8.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// Card is the envelope every variant shares.
type Card struct {
	ComponentType ComponentType `json:"component_type"`
	Title         string        `json:"title"`
	Subtitle      string        `json:"subtitle,omitempty"`
	PatternSource string        `json:"pattern_source"`
}

// Source returns the title of the pattern this component was derived from.
func (c Card) Source() string { return c.PatternSource }

func (c Card) validate(expected ComponentType) error {
	if c.ComponentType != expected {
		return invalidf(expected, "component_type", "got %q", c.ComponentType)
	}
	if c.Title == "" {
		return invalidf(expected, "title", "must not be empty")
	}
	if len(c.Title) > MaxTitleLen {
		return invalidf(expected, "title", "%d chars exceeds %d", len(c.Title), MaxTitleLen)
	}
	return nil
}

// Component is the closed sum over the six variants. The Orchestrator
// dispatches on the concrete type, so every implementation lives here.
type Component interface {
	Type() ComponentType
	Meta() Card
	Validate() error
}

var (
	_ Component = (*InfoCard)(nil)
	_ Component = (*MapCard)(nil)
	_ Component = (*VideoFeed)(nil)
	_ Component = (*EventCalendar)(nil)
	_ Component = (*TaskList)(nil)
	_ Component = (*ContentCard)(nil)
)

// InfoCard is a stat card for a place. Weather-enrichable.
type InfoCard struct {
	Card
	Location     string  `json:"location"`
	Headline     string  `json:"headline,omitempty"`
	TemperatureC float64 `json:"temperature_c,omitempty"`
	Condition    string  `json:"condition,omitempty"`
	Humidity     int     `json:"humidity,omitempty"`
	WindKPH      float64 `json:"wind_kph,omitempty"`
}

func (c *InfoCard) Type() ComponentType { return TypeInfoCard }
func (c *InfoCard) Meta() Card          { return c.Card }

func (c *InfoCard) Validate() error {
	if err := c.Card.validate(TypeInfoCard); err != nil {
		return err
	}
	if c.Location == "" {
		return invalidf(TypeInfoCard, "location", "must not be empty")
	}
	if c.Humidity < 0 || c.Humidity > 100 {
		return invalidf(TypeInfoCard, "humidity", "%d outside [0,100]", c.Humidity)
	}
	if c.WindKPH < 0 {
		return invalidf(TypeInfoCard, "wind_kph", "must not be negative")
	}
	return nil
}

// Marker is a single point on a MapCard.
type Marker struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label,omitempty"`
}

func (m Marker) validate(i int) error {
	if m.Lat < -90 || m.Lat > 90 {
		return invalidf(TypeMapCard, "markers", "marker %d lat %v outside [-90,90]", i, m.Lat)
	}
	if m.Lng < -180 || m.Lng > 180 {
		return invalidf(TypeMapCard, "markers", "marker %d lng %v outside [-180,180]", i, m.Lng)
	}
	if len(m.Label) > MaxMarkerLabel {
		return invalidf(TypeMapCard, "markers", "marker %d label exceeds %d chars", i, MaxMarkerLabel)
	}
	return nil
}

// MapCard shows 1-20 markers around a center point. Geocoding-enrichable.
type MapCard struct {
	Card
	CenterLat float64  `json:"center_lat"`
	CenterLng float64  `json:"center_lng"`
	Zoom      int      `json:"zoom"`
	Markers   []Marker `json:"markers"`
}

func (c *MapCard) Type() ComponentType { return TypeMapCard }
func (c *MapCard) Meta() Card          { return c.Card }

func (c *MapCard) Validate() error {
	if err := c.Card.validate(TypeMapCard); err != nil {
		return err
	}
	if c.CenterLat < -90 || c.CenterLat > 90 {
		return invalidf(TypeMapCard, "center_lat", "%v outside [-90,90]", c.CenterLat)
	}
	if c.CenterLng < -180 || c.CenterLng > 180 {
		return invalidf(TypeMapCard, "center_lng", "%v outside [-180,180]", c.CenterLng)
	}
	if c.Zoom < MinZoom || c.Zoom > MaxZoom {
		return invalidf(TypeMapCard, "zoom", "%d outside [%d,%d]", c.Zoom, MinZoom, MaxZoom)
	}
	if len(c.Markers) < 1 || len(c.Markers) > MaxMarkers {
		return invalidf(TypeMapCard, "markers", "%d markers outside [1,%d]", len(c.Markers), MaxMarkers)
	}
	for i, m := range c.Markers {
		if err := m.validate(i); err != nil {
			return err
		}
	}
	return nil
}

// Video is a single result in a VideoFeed.
type Video struct {
	Title        string `json:"title"`
	Channel      string `json:"channel,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	VideoURL     string `json:"video_url,omitempty"`
}

// VideoFeed holds a search query plus up to MaxVideos results.
// Video-search-enrichable.
type VideoFeed struct {
	Card
	Query      string  `json:"query"`
	MaxResults int     `json:"max_results"`
	Videos     []Video `json:"videos,omitempty"`
}

func (c *VideoFeed) Type() ComponentType { return TypeVideoFeed }
func (c *VideoFeed) Meta() Card          { return c.Card }

func (c *VideoFeed) Validate() error {
	if err := c.Card.validate(TypeVideoFeed); err != nil {
		return err
	}
	if c.Query == "" {
		return invalidf(TypeVideoFeed, "query", "must not be empty")
	}
	if c.MaxResults < 1 || c.MaxResults > MaxVideoResults {
		return invalidf(TypeVideoFeed, "max_results", "%d outside [1,%d]", c.MaxResults, MaxVideoResults)
	}
	if len(c.Videos) > MaxVideos {
		return invalidf(TypeVideoFeed, "videos", "%d videos exceeds %d", len(c.Videos), MaxVideos)
	}
	return nil
}

// Event is one entry in an EventCalendar.
type Event struct {
	Name     string `json:"name"`
	Venue    string `json:"venue,omitempty"`
	StartsAt string `json:"starts_at,omitempty"` // RFC3339
	URL      string `json:"url,omitempty"`
}

// EventCalendar lists upcoming events for a location. Events-search-enrichable.
type EventCalendar struct {
	Card
	Location string  `json:"location"`
	Events   []Event `json:"events,omitempty"`
}

func (c *EventCalendar) Type() ComponentType { return TypeEventCalendar }
func (c *EventCalendar) Meta() Card          { return c.Card }

func (c *EventCalendar) Validate() error {
	if err := c.Card.validate(TypeEventCalendar); err != nil {
		return err
	}
	if c.Location == "" {
		return invalidf(TypeEventCalendar, "location", "must not be empty")
	}
	if len(c.Events) > MaxEvents {
		return invalidf(TypeEventCalendar, "events", "%d events exceeds %d", len(c.Events), MaxEvents)
	}
	return nil
}

// TaskPriority is the priority enum for TaskList items.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// TaskItem is a single entry in a TaskList.
type TaskItem struct {
	Text     string       `json:"text"`
	Priority TaskPriority `json:"priority"`
	Done     bool         `json:"done,omitempty"`
}

// TaskList holds 1-15 tasks. Not enrichable.
type TaskList struct {
	Card
	Items []TaskItem `json:"items"`
}

func (c *TaskList) Type() ComponentType { return TypeTaskList }
func (c *TaskList) Meta() Card          { return c.Card }

func (c *TaskList) Validate() error {
	if err := c.Card.validate(TypeTaskList); err != nil {
		return err
	}
	if len(c.Items) < 1 || len(c.Items) > MaxTaskItems {
		return invalidf(TypeTaskList, "items", "%d items outside [1,%d]", len(c.Items), MaxTaskItems)
	}
	for i, item := range c.Items {
		if item.Text == "" || len(item.Text) > MaxTaskTextLen {
			return invalidf(TypeTaskList, "items", "item %d text length outside [1,%d]", i, MaxTaskTextLen)
		}
		switch item.Priority {
		case PriorityLow, PriorityMedium, PriorityHigh:
		default:
			return invalidf(TypeTaskList, "items", "item %d priority %q not in enum", i, item.Priority)
		}
	}
	return nil
}

// ContentCard is a single-article card. Not enrichable.
type ContentCard struct {
	Card
	Body string   `json:"body"`
	Link string   `json:"link,omitempty"`
	Tags []string `json:"tags,omitempty"`
}

func (c *ContentCard) Type() ComponentType { return TypeContentCard }
func (c *ContentCard) Meta() Card          { return c.Card }

func (c *ContentCard) Validate() error {
	if err := c.Card.validate(TypeContentCard); err != nil {
		return err
	}
	if len(c.Body) < 1 || len(c.Body) > MaxBodyLen {
		return invalidf(TypeContentCard, "body", "length %d outside [1,%d]", len(c.Body), MaxBodyLen)
	}
	if len(c.Tags) > MaxContentTags {
		return invalidf(TypeContentCard, "tags", "%d tags exceeds %d", len(c.Tags), MaxContentTags)
	}
	return nil
}
