package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/mkoval/newsfuse/internal/models"
)

// RSSAdapter reads RSS and Atom feeds.
type RSSAdapter struct {
	name     string
	url      string
	category string
	parser   *gofeed.Parser
}

var _ Adapter = (*RSSAdapter)(nil)

// NewRSSAdapter builds an adapter for one feed. A nil client keeps the
// parser's default transport.
func NewRSSAdapter(p Provider, client *http.Client) *RSSAdapter {
	parser := gofeed.NewParser()
	if client != nil {
		parser.Client = client
	}
	return &RSSAdapter{
		name:     p.Name,
		url:      p.URL,
		category: p.Category,
		parser:   parser,
	}
}

// Name identifies the provider in logs and metrics.
func (a *RSSAdapter) Name() string { return a.name }

// Fetch parses the feed and maps every item to the canonical shape. Items
// without a source-reported date default to the fetch time.
func (a *RSSAdapter) Fetch(ctx context.Context) ([]models.RawArticle, error) {
	feed, err := a.parser.ParseURLWithContext(a.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", a.name, err)
	}

	now := time.Now()
	articles := make([]models.RawArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Title == "" || item.Link == "" {
			continue
		}

		published := now
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		description := item.Description
		if description == "" {
			description = item.Content
		}

		articles = append(articles, models.RawArticle{
			Title:       item.Title,
			Description: description,
			URL:         item.Link,
			ImageURL:    itemImage(item),
			PublishedAt: published,
			SourceName:  a.name,
			Category:    itemCategory(a.category, item),
		})
	}
	return articles, nil
}

func itemImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if enc == nil {
			continue
		}
		if strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			return enc.URL
		}
	}
	return ""
}

// itemCategory prefers the configured provider category; feeds without one
// fall back to the item's own first category tag.
func itemCategory(configured string, item *gofeed.Item) string {
	if configured != "" {
		return configured
	}
	if len(item.Categories) > 0 {
		return item.Categories[0]
	}
	return ""
}
