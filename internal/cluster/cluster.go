package cluster

import (
	"github.com/google/uuid"

	"github.com/mkoval/newsfuse/internal/models"
	"github.com/mkoval/newsfuse/internal/processing"
)

const (
	// DefaultSimilarityThreshold is the minimum token overlap for an
	// article to join an existing cluster.
	DefaultSimilarityThreshold = 0.5
	// DefaultMinTokenLength drops title words of this many runes or fewer
	// before comparison.
	DefaultMinTokenLength = 3
)

// Config tunes how aggressively headlines are grouped. Zero fields fall
// back to the defaults above.
type Config struct {
	SimilarityThreshold float64
	MinTokenLength      int
}

// ArticleCluster groups near-duplicate articles describing one event.
// Articles keeps discovery order; the first member is the cluster's
// primary. TitleTokens is the union of every member's title tokens and only
// ever grows.
type ArticleCluster struct {
	ID          string
	Articles    []models.RawArticle
	TitleTokens processing.TokenSet
}

// Build groups articles in a single greedy pass. Each article joins the
// first existing cluster, in creation order, whose accumulated title tokens
// are similar enough; its tokens are then folded into that cluster. An
// article matching nothing starts a new cluster. The pass is
// order-sensitive on purpose: input order decides both membership and each
// cluster's primary article, so callers must hand in a deterministically
// ordered list.
func Build(articles []models.RawArticle, cfg Config) []*ArticleCluster {
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if cfg.MinTokenLength <= 0 {
		cfg.MinTokenLength = DefaultMinTokenLength
	}

	var clusters []*ArticleCluster
	for _, article := range articles {
		tokens := processing.Tokenize(article.Title, cfg.MinTokenLength)

		target := firstMatch(clusters, tokens, cfg.SimilarityThreshold)
		if target == nil {
			clusters = append(clusters, &ArticleCluster{
				ID:          uuid.NewString(),
				Articles:    []models.RawArticle{article},
				TitleTokens: tokens,
			})
			continue
		}

		target.Articles = append(target.Articles, article)
		target.TitleTokens.Union(tokens)
	}
	return clusters
}

// firstMatch scans clusters in creation order and returns the first one the
// token set clears the threshold against. An empty token set scores 0
// against everything and therefore never matches.
func firstMatch(clusters []*ArticleCluster, tokens processing.TokenSet, threshold float64) *ArticleCluster {
	for _, c := range clusters {
		if processing.Similarity(tokens, c.TitleTokens) >= threshold {
			return c
		}
	}
	return nil
}
