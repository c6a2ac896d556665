package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mkoval/newsfuse/internal/models"
)

// NewsAPIAdapter queries JSON endpoints shaped like the NewsAPI "articles"
// envelope.
type NewsAPIAdapter struct {
	name     string
	url      string
	category string
	apiKey   string
	client   *http.Client
}

var _ Adapter = (*NewsAPIAdapter)(nil)

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source      newsAPISource `json:"source"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	URLToImage  string        `json:"urlToImage"`
	PublishedAt string        `json:"publishedAt"`
}

type newsAPISource struct {
	Name string `json:"name"`
}

// NewNewsAPIAdapter builds an adapter for one JSON provider. The API key is
// read from the environment variable the provider entry names, so keys stay
// out of the config file.
func NewNewsAPIAdapter(p Provider, client *http.Client) *NewsAPIAdapter {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	var apiKey string
	if p.APIKeyEnv != "" {
		apiKey = os.Getenv(p.APIKeyEnv)
	}
	return &NewsAPIAdapter{
		name:     p.Name,
		url:      p.URL,
		category: p.Category,
		apiKey:   apiKey,
		client:   client,
	}
}

// Name identifies the provider in logs and metrics.
func (a *NewsAPIAdapter) Name() string { return a.name }

// Fetch queries the endpoint and maps the response. Articles keep their own
// outlet name when the payload has one; timestamps the endpoint omits or
// mangles default to the fetch time.
func (a *NewsAPIAdapter) Fetch(ctx context.Context) ([]models.RawArticle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", a.name, err)
	}
	req.Header.Set("Accept", "application/json")
	if a.apiKey != "" {
		req.Header.Set("X-Api-Key", a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", a.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %s", a.name, resp.Status)
	}

	var payload newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", a.name, err)
	}

	now := time.Now()
	articles := make([]models.RawArticle, 0, len(payload.Articles))
	for _, item := range payload.Articles {
		if item.Title == "" || item.URL == "" {
			continue
		}

		published := parseTimestamp(item.PublishedAt)
		if published.IsZero() {
			published = now
		}

		sourceName := item.Source.Name
		if sourceName == "" {
			sourceName = a.name
		}

		articles = append(articles, models.RawArticle{
			Title:       item.Title,
			Description: item.Description,
			URL:         item.URL,
			ImageURL:    item.URLToImage,
			PublishedAt: published,
			SourceName:  sourceName,
			Category:    a.category,
		})
	}
	return articles, nil
}

func parseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}

	for _, f := range formats {
		if ts, err := time.Parse(f, raw); err == nil {
			return ts
		}
	}

	return time.Time{}
}
