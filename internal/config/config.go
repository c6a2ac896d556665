package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Common holds the pipeline parameters shared by every binary.
type Common struct {
	SourcesPath         string
	CachePath           string
	CacheTTL            time.Duration
	FetchTimeout        time.Duration
	SimilarityThreshold float64
	MinTokenLength      int
	FeedLimit           int
}

// API describes HTTP-layer configuration.
type API struct {
	Common
	BindAddr string
	MaxLimit int
}

// Refresh configures the one-shot cache warmer. DryRun assembles the feed
// without touching the snapshot database.
type Refresh struct {
	Common
	DryRun bool
}

// LoadAPI builds an API config from environment variables.
func LoadAPI() (*API, error) {
	common, err := loadCommon()
	if err != nil {
		return nil, err
	}

	c := &API{
		Common:   common,
		BindAddr: getEnv("API_BIND_ADDR", "0.0.0.0:8080"),
		MaxLimit: getInt("API_MAX_LIMIT", 100),
	}

	if c.MaxLimit <= 0 {
		return nil, fmt.Errorf("API_MAX_LIMIT must be positive")
	}
	if c.FeedLimit > c.MaxLimit {
		return nil, fmt.Errorf("FEED_LIMIT cannot exceed API_MAX_LIMIT")
	}

	return c, nil
}

// LoadRefresh builds a Refresh config from environment variables.
func LoadRefresh() (*Refresh, error) {
	common, err := loadCommon()
	if err != nil {
		return nil, err
	}
	return &Refresh{
		Common: common,
		DryRun: getBool("REFRESH_DRY_RUN", false),
	}, nil
}

func loadCommon() (Common, error) {
	c := Common{
		SourcesPath:         getEnv("SOURCES_CONFIG", "sources.yml"),
		CachePath:           getEnv("FEED_CACHE_PATH", "newsfuse.db"),
		CacheTTL:            getDuration("FEED_CACHE_TTL", "30m"),
		FetchTimeout:        getDuration("FETCH_TIMEOUT", "10s"),
		SimilarityThreshold: getFloat("SIMILARITY_THRESHOLD", 0.5),
		MinTokenLength:      getInt("MIN_TOKEN_LENGTH", 3),
		FeedLimit:           getInt("FEED_LIMIT", 20),
	}

	if c.CacheTTL <= 0 {
		return c, fmt.Errorf("FEED_CACHE_TTL must be positive")
	}
	if c.FetchTimeout <= 0 {
		return c, fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return c, fmt.Errorf("SIMILARITY_THRESHOLD must be in (0, 1]")
	}
	if c.MinTokenLength < 1 {
		return c, fmt.Errorf("MIN_TOKEN_LENGTH must be positive")
	}
	if c.FeedLimit <= 0 {
		return c, fmt.Errorf("FEED_LIMIT must be positive")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}
