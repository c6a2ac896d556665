package fuse

import (
	"time"

	"github.com/mkoval/newsfuse/internal/cluster"
	"github.com/mkoval/newsfuse/internal/models"
	"github.com/mkoval/newsfuse/internal/processing"
)

const (
	// mergedTag marks every fused entity ID so merged items are
	// recognizable downstream.
	mergedTag = "merged"
	// slugMaxLen bounds the title-derived part of an entity ID.
	slugMaxLen = 48
	// descriptionMax is the display budget for fused descriptions.
	descriptionMax = 300
)

// Fuse reduces one cluster to a single canonical entity. The first article
// is the primary: its cleaned title and description, its URL, and its
// category carry over. Remaining members contribute source attribution, an
// image fallback, and an earlier publish date when they have one. Fusion
// never fails; missing fields degrade to fallbacks instead of rejecting the
// cluster.
func Fuse(c *cluster.ArticleCluster) models.FusedNewsEntity {
	if c == nil || len(c.Articles) == 0 {
		return models.FusedNewsEntity{}
	}

	primary := c.Articles[0]
	title := processing.CleanTitle(primary.Title, primary.SourceName)

	return models.FusedNewsEntity{
		ID:          processing.Slug(title, slugMaxLen) + "-" + mergedTag,
		Title:       title,
		Description: processing.Truncate(processing.StripHTML(primary.Description), descriptionMax),
		URL:         primary.URL,
		ImageURL:    firstImage(c.Articles),
		PublishedAt: earliestDate(c.Articles),
		Category:    primary.Category,
		Sources:     collectSources(c.Articles),
	}
}

// All reduces every cluster in order.
func All(clusters []*cluster.ArticleCluster) []models.FusedNewsEntity {
	entities := make([]models.FusedNewsEntity, 0, len(clusters))
	for _, c := range clusters {
		entities = append(entities, Fuse(c))
	}
	return entities
}

// collectSources maps members to source attributions, deduplicated by name
// with first occurrence winning.
func collectSources(articles []models.RawArticle) []models.Source {
	seen := make(map[string]struct{}, len(articles))
	sources := make([]models.Source, 0, len(articles))
	for _, a := range articles {
		if _, ok := seen[a.SourceName]; ok {
			continue
		}
		seen[a.SourceName] = struct{}{}
		sources = append(sources, models.Source{Name: a.SourceName, URL: a.URL})
	}
	return sources
}

// firstImage returns the first non-empty image URL scanning members in
// order, or "" when no member has one.
func firstImage(articles []models.RawArticle) string {
	for _, a := range articles {
		if a.ImageURL != "" {
			return a.ImageURL
		}
	}
	return ""
}

// earliestDate picks the oldest valid publish date among members. The
// earliest timestamp approximates when the story broke. Clusters without a
// single valid date fall back to the fusion time.
func earliestDate(articles []models.RawArticle) time.Time {
	var earliest time.Time
	for _, a := range articles {
		if a.PublishedAt.IsZero() {
			continue
		}
		if earliest.IsZero() || a.PublishedAt.Before(earliest) {
			earliest = a.PublishedAt
		}
	}
	if earliest.IsZero() {
		return time.Now()
	}
	return earliest
}
