package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

const (
	defaultGeocodeBaseURL = "https://nominatim.openstreetmap.org"
	geocodeCacheSize      = 256
	// Nominatim usage policy requires an identifying User-Agent and at most
	// one request per second.
	geocodeUserAgent = "mosaic-dashboard/1.0"
)

// Place is a resolved location.
type Place struct {
	Lat         float64
	Lng         float64
	DisplayName string
}

// GeocodeClient resolves place names via OSM Nominatim. Results are cached so
// repeated lookups for the same place skip the network entirely.
type GeocodeClient struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	cache   *lru.Cache[string, Place]
}

// NewGeocodeClient builds a geocoding client. Nominatim needs no API key.
func NewGeocodeClient() *GeocodeClient {
	return newGeocodeClient(defaultGeocodeBaseURL, nil)
}

func newGeocodeClient(baseURL string, client *http.Client) *GeocodeClient {
	if client == nil {
		client = &http.Client{Timeout: 6 * time.Second}
	}
	cache, _ := lru.New[string, Place](geocodeCacheSize)
	return &GeocodeClient{
		baseURL: baseURL,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(1), 1),
		cache:   cache,
	}
}

// Lookup resolves a place name to coordinates and a display label.
func (c *GeocodeClient) Lookup(ctx context.Context, place string) (Place, error) {
	if place == "" {
		return Place{}, fmt.Errorf("place must not be empty")
	}

	if cached, ok := c.cache.Get(place); ok {
		return cached, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return Place{}, fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	params := url.Values{}
	params.Set("q", place)
	params.Set("format", "json")
	params.Set("limit", "1")

	body, err := getJSON(ctx, c.client, c.baseURL+"/search?"+params.Encode(), map[string]string{
		"User-Agent": geocodeUserAgent,
	})
	if err != nil {
		return Place{}, err
	}

	// Nominatim returns lat/lon as strings.
	var payload []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Place{}, fmt.Errorf("malformed geocode payload: %w", err)
	}
	if len(payload) == 0 {
		return Place{}, fmt.Errorf("no results for %q", place)
	}

	lat, err := strconv.ParseFloat(payload[0].Lat, 64)
	if err != nil {
		return Place{}, fmt.Errorf("malformed latitude %q: %w", payload[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(payload[0].Lon, 64)
	if err != nil {
		return Place{}, fmt.Errorf("malformed longitude %q: %w", payload[0].Lon, err)
	}

	result := Place{Lat: lat, Lng: lng, DisplayName: payload[0].DisplayName}
	c.cache.Add(place, result)
	return result, nil
}
