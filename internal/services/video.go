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

const defaultVideoBaseURL = "https://www.googleapis.com/youtube/v3"

// VideoResult is one entry from a video search.
type VideoResult struct {
	Title        string
	Channel      string
	ThumbnailURL string
	VideoURL     string
}

// VideoClient searches videos via the YouTube Data API.
type VideoClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewVideoClient builds a video search client.
func NewVideoClient(apiKey string) *VideoClient {
	return newVideoClient(apiKey, defaultVideoBaseURL, nil)
}

func newVideoClient(apiKey, baseURL string, client *http.Client) *VideoClient {
	if client == nil {
		client = &http.Client{Timeout: 8 * time.Second}
	}
	return &VideoClient{apiKey: apiKey, baseURL: baseURL, client: client}
}

// Search returns up to maxResults videos for a free-text query.
func (c *VideoClient) Search(ctx context.Context, query string, maxResults int) ([]VideoResult, error) {
	if query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}
	if maxResults < 1 {
		maxResults = 1
	}
	if maxResults > 10 {
		maxResults = 10
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("key", c.apiKey)

	body, err := getJSON(ctx, c.client, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title        string `json:"title"`
				ChannelTitle string `json:"channelTitle"`
				Thumbnails   struct {
					Medium struct {
						URL string `json:"url"`
					} `json:"medium"`
				} `json:"thumbnails"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("malformed video payload: %w", err)
	}

	results := make([]VideoResult, 0, len(payload.Items))
	for _, item := range payload.Items {
		if len(results) >= maxResults {
			break
		}
		results = append(results, VideoResult{
			Title:        item.Snippet.Title,
			Channel:      item.Snippet.ChannelTitle,
			ThumbnailURL: item.Snippet.Thumbnails.Medium.URL,
			VideoURL:     "https://www.youtube.com/watch?v=" + item.ID.VideoID,
		})
	}
	return results, nil
}
