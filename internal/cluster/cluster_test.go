package cluster_test

import (
	"testing"

	"github.com/mkoval/newsfuse/internal/cluster"
	"github.com/mkoval/newsfuse/internal/models"
	"github.com/stretchr/testify/require"
)

func article(title, source string) models.RawArticle {
	return models.RawArticle{Title: title, URL: "https://" + source + ".example/a", SourceName: source}
}

func TestBuildGroupsNearDuplicates(t *testing.T) {
	articles := []models.RawArticle{
		article("PM announces new policy on trade", "Source A"),
		article("Prime Minister unveils trade policy reform", "Source B"),
		article("Stock markets rally amid earnings season", "Source C"),
	}

	clusters := cluster.Build(articles, cluster.Config{})
	require.Len(t, clusters, 2)

	require.Len(t, clusters[0].Articles, 2)
	require.Equal(t, "Source A", clusters[0].Articles[0].SourceName)
	require.Equal(t, "Source B", clusters[0].Articles[1].SourceName)

	require.Len(t, clusters[1].Articles, 1)
	require.Equal(t, "Source C", clusters[1].Articles[0].SourceName)
}

func TestBuildEveryArticleInExactlyOneCluster(t *testing.T) {
	articles := []models.RawArticle{
		article("PM announces new policy on trade", "Source A"),
		article("Prime Minister unveils trade policy reform", "Source B"),
		article("Stock markets rally amid earnings season", "Source C"),
		article("Heavy rains flood coastal towns overnight", "Source D"),
		article("Trade policy announcement expected today", "Source E"),
	}

	clusters := cluster.Build(articles, cluster.Config{})

	total := 0
	seen := make(map[string]int)
	for _, c := range clusters {
		total += len(c.Articles)
		for _, a := range c.Articles {
			seen[a.URL]++
		}
	}
	require.Equal(t, len(articles), total)
	for url, count := range seen {
		require.Equalf(t, 1, count, "article %s appears %d times", url, count)
	}
}

func TestBuildEmptyTokenTitlesStaySingletons(t *testing.T) {
	// Titles made of short words produce empty token sets, which never
	// match anything, not even each other.
	articles := []models.RawArticle{
		article("it is so far", "Source A"),
		article("it is so far", "Source B"),
	}

	clusters := cluster.Build(articles, cluster.Config{})
	require.Len(t, clusters, 2)
}

func TestBuildFirstMatchWins(t *testing.T) {
	articles := []models.RawArticle{
		article("alpha bravo charlie delta", "Source A"),
		article("echo foxtrot golf hotel", "Source B"),
		// Scores exactly 0.5 against both clusters; creation order must
		// decide.
		article("alpha bravo echo foxtrot", "Source C"),
	}

	clusters := cluster.Build(articles, cluster.Config{})
	require.Len(t, clusters, 2)
	require.Len(t, clusters[0].Articles, 2)
	require.Equal(t, "Source C", clusters[0].Articles[1].SourceName)
	require.Len(t, clusters[1].Articles, 1)
}

func TestBuildClusterDrift(t *testing.T) {
	// The third headline shares nothing with the first, but the cluster's
	// token set has grown to cover it.
	articles := []models.RawArticle{
		article("alpha bravo charlie delta", "Source A"),
		article("charlie delta echo foxtrot", "Source B"),
		article("echo foxtrot golf hotel", "Source C"),
	}

	clusters := cluster.Build(articles, cluster.Config{})
	require.Len(t, clusters, 1)
	require.Len(t, clusters[0].Articles, 3)
}

func TestBuildDeterministic(t *testing.T) {
	articles := []models.RawArticle{
		article("PM announces new policy on trade", "Source A"),
		article("Prime Minister unveils trade policy reform", "Source B"),
		article("Stock markets rally amid earnings season", "Source C"),
		article("Trade policy announcement expected today", "Source D"),
	}

	shape := func(clusters []*cluster.ArticleCluster) [][]string {
		var out [][]string
		for _, c := range clusters {
			var urls []string
			for _, a := range c.Articles {
				urls = append(urls, a.URL)
			}
			out = append(out, urls)
		}
		return out
	}

	first := cluster.Build(articles, cluster.Config{})
	second := cluster.Build(articles, cluster.Config{})
	require.Equal(t, shape(first), shape(second))
}

func TestBuildEmptyInput(t *testing.T) {
	require.Empty(t, cluster.Build(nil, cluster.Config{}))
}

func TestBuildAssignsClusterIDs(t *testing.T) {
	clusters := cluster.Build([]models.RawArticle{
		article("PM announces new policy on trade", "Source A"),
		article("Stock markets rally amid earnings season", "Source B"),
	}, cluster.Config{})

	require.Len(t, clusters, 2)
	require.NotEmpty(t, clusters[0].ID)
	require.NotEmpty(t, clusters[1].ID)
	require.NotEqual(t, clusters[0].ID, clusters[1].ID)
}
