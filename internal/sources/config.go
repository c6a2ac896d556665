package sources

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultRank = 100

// Provider describes one configured news source.
type Provider struct {
	Name      string    `yaml:"name"`
	Type      string    `yaml:"type"`
	URL       string    `yaml:"url"`
	Category  string    `yaml:"category"`
	APIKeyEnv string    `yaml:"apiKeyEnv"`
	Selectors Selectors `yaml:"selectors"`
}

// Selectors pick headline fragments out of scraped pages. Only html
// providers use them.
type Selectors struct {
	Item  string `yaml:"item"`
	Title string `yaml:"title"`
	Link  string `yaml:"link"`
	Image string `yaml:"image"`
}

// Config is the providers file. Provider order in the file is the fan-out
// priority order of the feed, so it must stay stable across loads.
type Config struct {
	Providers     []Provider     `yaml:"providers"`
	CategoryRanks map[string]int `yaml:"categoryRanks"`
	DefaultRank   int            `yaml:"defaultRank"`
}

// LoadConfig reads and validates the providers file.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sources config: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode sources config: %w", err)
	}

	if len(cfg.Providers) == 0 {
		return nil, fmt.Errorf("sources config %s lists no providers", path)
	}

	seen := make(map[string]struct{}, len(cfg.Providers))
	for i, p := range cfg.Providers {
		if p.Name == "" {
			return nil, fmt.Errorf("provider #%d has no name", i+1)
		}
		if p.Type == "" {
			return nil, fmt.Errorf("provider %s has no type", p.Name)
		}
		if p.URL == "" {
			return nil, fmt.Errorf("provider %s has no url", p.Name)
		}
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("provider name %s is duplicated", p.Name)
		}
		seen[p.Name] = struct{}{}
	}

	if cfg.DefaultRank <= 0 {
		cfg.DefaultRank = defaultRank
	}

	return &cfg, nil
}

// Rank resolves a category to its feed rank. Lower ranks sort earlier;
// unknown categories get the default.
func (c *Config) Rank(category string) int {
	if rank, ok := c.CategoryRanks[category]; ok {
		return rank
	}
	return c.DefaultRank
}
