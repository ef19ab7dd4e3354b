package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultEventsBaseURL = "https://app.ticketmaster.com/discovery/v2"

// EventResult is one entry from an events search.
type EventResult struct {
	Name     string
	Venue    string
	StartsAt string // RFC3339
	URL      string
}

// EventsClient searches upcoming events via the Ticketmaster Discovery API.
type EventsClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewEventsClient builds an events search client.
func NewEventsClient(apiKey string) *EventsClient {
	return newEventsClient(apiKey, defaultEventsBaseURL, nil)
}

func newEventsClient(apiKey, baseURL string, client *http.Client) *EventsClient {
	if client == nil {
		client = &http.Client{Timeout: 8 * time.Second}
	}
	return &EventsClient{apiKey: apiKey, baseURL: baseURL, client: client}
}

// Search returns up to size events matching a free-text keyword.
func (c *EventsClient) Search(ctx context.Context, keyword string, size int) ([]EventResult, error) {
	if keyword == "" {
		return nil, fmt.Errorf("keyword must not be empty")
	}
	if size < 1 {
		size = 1
	}
	if size > 10 {
		size = 10
	}

	params := url.Values{}
	params.Set("keyword", keyword)
	params.Set("size", strconv.Itoa(size))
	params.Set("sort", "date,asc")
	params.Set("apikey", c.apiKey)

	body, err := getJSON(ctx, c.client, c.baseURL+"/events.json?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Embedded struct {
			Events []struct {
				Name  string `json:"name"`
				URL   string `json:"url"`
				Dates struct {
					Start struct {
						DateTime string `json:"dateTime"`
					} `json:"start"`
				} `json:"dates"`
				Embedded struct {
					Venues []struct {
						Name string `json:"name"`
					} `json:"venues"`
				} `json:"_embedded"`
			} `json:"events"`
		} `json:"_embedded"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("malformed events payload: %w", err)
	}

	results := make([]EventResult, 0, len(payload.Embedded.Events))
	for _, event := range payload.Embedded.Events {
		if len(results) >= size {
			break
		}
		result := EventResult{
			Name:     event.Name,
			StartsAt: event.Dates.Start.DateTime,
			URL:      event.URL,
		}
		if len(event.Embedded.Venues) > 0 {
			result.Venue = event.Embedded.Venues[0].Name
		}
		results = append(results, result)
	}
	return results, nil
}
