package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mkoval/newsfuse/internal/models"
)

const scrapeUserAgent = "newsfuse/1.0"

// HeadlinesAdapter scrapes headline listings from providers without a feed
// or API. Selectors come from the provider entry.
type HeadlinesAdapter struct {
	name      string
	pageURL   string
	category  string
	selectors Selectors
	client    *http.Client
}

var _ Adapter = (*HeadlinesAdapter)(nil)

// NewHeadlinesAdapter builds a scraping adapter. The item and title
// selectors are mandatory; the link selector defaults to the item's first
// anchor.
func NewHeadlinesAdapter(p Provider, client *http.Client) (*HeadlinesAdapter, error) {
	if p.Selectors.Item == "" || p.Selectors.Title == "" {
		return nil, fmt.Errorf("provider %s needs item and title selectors", p.Name)
	}
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	sel := p.Selectors
	if sel.Link == "" {
		sel.Link = "a"
	}
	return &HeadlinesAdapter{
		name:      p.Name,
		pageURL:   p.URL,
		category:  p.Category,
		selectors: sel,
		client:    client,
	}, nil
}

// Name identifies the provider in logs and metrics.
func (a *HeadlinesAdapter) Name() string { return a.name }

// Fetch downloads the listing page and extracts one article per item node.
// Scraped pages rarely carry machine-readable dates, so every article gets
// the fetch time.
func (a *HeadlinesAdapter) Fetch(ctx context.Context) ([]models.RawArticle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", a.name, err)
	}
	req.Header.Set("User-Agent", scrapeUserAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", a.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %s", a.name, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s page: %w", a.name, err)
	}

	base, err := url.Parse(a.pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse %s url: %w", a.name, err)
	}

	now := time.Now()
	var articles []models.RawArticle
	doc.Find(a.selectors.Item).Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find(a.selectors.Title).First().Text())
		href, _ := s.Find(a.selectors.Link).First().Attr("href")
		link := resolveURL(base, href)
		if title == "" || link == "" {
			return
		}

		var image string
		if a.selectors.Image != "" {
			if src, ok := s.Find(a.selectors.Image).First().Attr("src"); ok {
				image = resolveURL(base, src)
			}
		}

		articles = append(articles, models.RawArticle{
			Title:       title,
			URL:         link,
			ImageURL:    image,
			PublishedAt: now,
			SourceName:  a.name,
			Category:    a.category,
		})
	})
	return articles, nil
}

func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
