package models

import "time"

// RawArticle is a provider article normalized at the adapter boundary.
// Values are treated as immutable once they enter the pipeline.
type RawArticle struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	SourceName  string    `json:"sourceName"`
	Category    string    `json:"category,omitempty"`
}

// Source attributes a fused entity to one contributing provider.
type Source struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// FusedNewsEntity is one canonical news item produced from a cluster of
// near-duplicate articles.
type FusedNewsEntity struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	Category    string    `json:"category,omitempty"`
	Sources     []Source  `json:"sources"`
}

// FeedSnapshot is the cached result of one full pipeline run. Snapshots are
// replaced wholesale, never patched.
type FeedSnapshot struct {
	Entities  []FusedNewsEntity `json:"entities"`
	FetchedAt time.Time         `json:"fetchedAt"`
}

// Age reports how long ago the snapshot was assembled.
func (s FeedSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}
