// Package services holds the single-capability clients used to enrich
// components with live data. Adapters operate purely on primitive queries and
// results; they know nothing about components or patterns, so providers are
// swappable without touching the selection or enrichment layers.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

// Weather is the current conditions for a place.
type Weather struct {
	TempC     float64
	Condition string
	Humidity  int
	WindKPH   float64
}

// WeatherClient fetches current weather from OpenWeatherMap.
type WeatherClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewWeatherClient builds a weather client with its own connection pool.
func NewWeatherClient(apiKey string) *WeatherClient {
	return newWeatherClient(apiKey, defaultWeatherBaseURL, nil)
}

func newWeatherClient(apiKey, baseURL string, client *http.Client) *WeatherClient {
	if client == nil {
		client = &http.Client{Timeout: 8 * time.Second}
	}
	return &WeatherClient{apiKey: apiKey, baseURL: baseURL, client: client}
}

// Current returns the weather for a place name.
func (c *WeatherClient) Current(ctx context.Context, place string) (Weather, error) {
	if place == "" {
		return Weather{}, fmt.Errorf("place must not be empty")
	}

	query := url.Values{}
	query.Set("q", place)
	query.Set("units", "metric")
	query.Set("appid", c.apiKey)

	body, err := getJSON(ctx, c.client, c.baseURL+"/weather?"+query.Encode(), nil)
	if err != nil {
		return Weather{}, err
	}

	var payload struct {
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"` // m/s
		} `json:"wind"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Weather{}, fmt.Errorf("malformed weather payload: %w", err)
	}

	result := Weather{
		TempC:    payload.Main.Temp,
		Humidity: payload.Main.Humidity,
		WindKPH:  payload.Wind.Speed * 3.6,
	}
	if len(payload.Weather) > 0 {
		result.Condition = payload.Weather[0].Description
		if result.Condition == "" {
			result.Condition = payload.Weather[0].Main
		}
	}
	return result, nil
}

// getJSON performs a GET and returns the body for 2xx responses. Non-2xx,
// transport errors, and unreadable bodies are all surfaced uniformly.
func getJSON(ctx context.Context, client *http.Client, rawURL string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	return body, nil
}
