// Package enrich overlays live third-party data onto selected components.
// Every adapter dispatch is isolated: a failure or timeout leaves the original
// component untouched and never aborts the batch.
package enrich

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"mosaic/internal/catalog"
	"mosaic/internal/logging"
	"mosaic/internal/metrics"
	"mosaic/internal/services"
)

// WeatherSource is the weather capability the orchestrator depends on.
type WeatherSource interface {
	Current(ctx context.Context, place string) (services.Weather, error)
}

// VideoSource is the video search capability.
type VideoSource interface {
	Search(ctx context.Context, query string, maxResults int) ([]services.VideoResult, error)
}

// EventSource is the events search capability.
type EventSource interface {
	Search(ctx context.Context, keyword string, size int) ([]services.EventResult, error)
}

// GeocodeSource is the place resolution capability.
type GeocodeSource interface {
	Lookup(ctx context.Context, place string) (services.Place, error)
}

// Adapters bundles the capability clients. A nil adapter disables enrichment
// for its component type; those components pass through unchanged.
type Adapters struct {
	Weather WeatherSource
	Video   VideoSource
	Events  EventSource
	Geocode GeocodeSource
}

const (
	defaultCallTimeout = 9 * time.Second
	defaultMaxParallel = 6
)

// Orchestrator fans enrichable components out to their adapters concurrently.
type Orchestrator struct {
	adapters    Adapters
	logger      logging.Logger
	callTimeout time.Duration
	maxParallel int
}

// NewOrchestrator builds the enrichment stage.
func NewOrchestrator(adapters Adapters, logger logging.Logger) *Orchestrator {
	return &Orchestrator{
		adapters:    adapters,
		logger:      logging.OrNop(logger),
		callTimeout: defaultCallTimeout,
		maxParallel: defaultMaxParallel,
	}
}

// SetCallTimeout overrides the per-adapter-call timeout.
func (o *Orchestrator) SetCallTimeout(d time.Duration) {
	if d > 0 {
		o.callTimeout = d
	}
}

// Enrich returns a list with exactly as many components as were input, in the
// same order. All adapter calls run concurrently so wall-clock latency tracks
// the slowest adapter, not the sum. Adapter calls are never retried: a missed
// enrichment degrades gracefully rather than stalling the run.
func (o *Orchestrator) Enrich(ctx context.Context, components []catalog.Component) []catalog.Component {
	results := make([]catalog.Component, len(components))
	copy(results, components)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.maxParallel)

	for i, component := range components {
		name, task := o.taskFor(component)
		if task == nil {
			continue
		}

		i := i
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, o.callTimeout)
			defer cancel()

			enriched, err := task(callCtx)
			if err != nil {
				o.logger.Warn("%s enrichment failed for %q, keeping original: %v", name, component.Meta().Title, err)
				metrics.RecordEnrichmentFailure(name)
				return nil
			}
			// Provider data is untrusted: an overlay that breaks catalog
			// bounds is a failed enrichment, not a pass-through.
			if err := enriched.Validate(); err != nil {
				o.logger.Warn("%s enrichment produced invalid data for %q, keeping original: %v", name, component.Meta().Title, err)
				metrics.RecordEnrichmentFailure(name)
				return nil
			}
			results[i] = enriched
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// taskFor maps a component to its adapter dispatch. task-list and content-card
// are not enrichable by design.
func (o *Orchestrator) taskFor(component catalog.Component) (string, func(ctx context.Context) (catalog.Component, error)) {
	switch c := component.(type) {
	case *catalog.InfoCard:
		if o.adapters.Weather == nil {
			return "", nil
		}
		return "weather", func(ctx context.Context) (catalog.Component, error) {
			return o.enrichInfoCard(ctx, c)
		}
	case *catalog.VideoFeed:
		if o.adapters.Video == nil {
			return "", nil
		}
		return "video", func(ctx context.Context) (catalog.Component, error) {
			return o.enrichVideoFeed(ctx, c)
		}
	case *catalog.EventCalendar:
		if o.adapters.Events == nil {
			return "", nil
		}
		return "events", func(ctx context.Context) (catalog.Component, error) {
			return o.enrichEventCalendar(ctx, c)
		}
	case *catalog.MapCard:
		if o.adapters.Geocode == nil {
			return "", nil
		}
		return "geocode", func(ctx context.Context) (catalog.Component, error) {
			return o.enrichMapCard(ctx, c)
		}
	case *catalog.TaskList, *catalog.ContentCard:
		return "", nil
	default:
		return "", nil
	}
}

func (o *Orchestrator) enrichInfoCard(ctx context.Context, card *catalog.InfoCard) (catalog.Component, error) {
	weather, err := o.adapters.Weather.Current(ctx, card.Location)
	if err != nil {
		return nil, err
	}

	enriched := *card
	enriched.TemperatureC = weather.TempC
	enriched.Condition = weather.Condition
	enriched.Humidity = weather.Humidity
	enriched.WindKPH = weather.WindKPH
	return &enriched, nil
}

func (o *Orchestrator) enrichVideoFeed(ctx context.Context, feed *catalog.VideoFeed) (catalog.Component, error) {
	results, err := o.adapters.Video.Search(ctx, feed.Query, feed.MaxResults)
	if err != nil {
		return nil, err
	}

	enriched := *feed
	enriched.Videos = make([]catalog.Video, 0, len(results))
	for _, v := range results {
		if len(enriched.Videos) >= feed.MaxResults {
			break
		}
		enriched.Videos = append(enriched.Videos, catalog.Video{
			Title:        v.Title,
			Channel:      v.Channel,
			ThumbnailURL: v.ThumbnailURL,
			VideoURL:     v.VideoURL,
		})
	}
	return &enriched, nil
}

func (o *Orchestrator) enrichEventCalendar(ctx context.Context, cal *catalog.EventCalendar) (catalog.Component, error) {
	results, err := o.adapters.Events.Search(ctx, cal.Location, catalog.MaxEvents)
	if err != nil {
		return nil, err
	}

	enriched := *cal
	enriched.Events = make([]catalog.Event, 0, len(results))
	for _, e := range results {
		if len(enriched.Events) >= catalog.MaxEvents {
			break
		}
		enriched.Events = append(enriched.Events, catalog.Event{
			Name:     e.Name,
			Venue:    e.Venue,
			StartsAt: e.StartsAt,
			URL:      e.URL,
		})
	}
	return &enriched, nil
}

func (o *Orchestrator) enrichMapCard(ctx context.Context, card *catalog.MapCard) (catalog.Component, error) {
	query := card.Title
	if len(card.Markers) > 0 && card.Markers[0].Label != "" {
		query = card.Markers[0].Label
	}

	place, err := o.adapters.Geocode.Lookup(ctx, query)
	if err != nil {
		return nil, err
	}

	enriched := *card
	enriched.CenterLat = place.Lat
	enriched.CenterLng = place.Lng
	enriched.Markers = make([]catalog.Marker, len(card.Markers))
	copy(enriched.Markers, card.Markers)
	if len(enriched.Markers) > 0 {
		label := catalog.Truncate(place.DisplayName, catalog.MaxMarkerLabel)
		enriched.Markers[0] = catalog.Marker{Lat: place.Lat, Lng: place.Lng, Label: label}
	}
	return &enriched, nil
}
