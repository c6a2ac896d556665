package sources

import (
	"fmt"
	"net/http"
)

// Provider types understood by the default registry.
const (
	TypeRSS       = "rss"
	TypeNewsAPI   = "newsapi"
	TypeHeadlines = "html"
)

// BuilderFunc constructs an adapter for one provider entry.
type BuilderFunc func(p Provider, client *http.Client) (Adapter, error)

// Registry maps provider types to adapter constructors.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry builds a registry with the built-in provider types.
func NewRegistry() *Registry {
	r := &Registry{builders: map[string]BuilderFunc{}}
	r.Register(TypeRSS, func(p Provider, client *http.Client) (Adapter, error) {
		return NewRSSAdapter(p, client), nil
	})
	r.Register(TypeNewsAPI, func(p Provider, client *http.Client) (Adapter, error) {
		return NewNewsAPIAdapter(p, client), nil
	})
	r.Register(TypeHeadlines, func(p Provider, client *http.Client) (Adapter, error) {
		return NewHeadlinesAdapter(p, client)
	})
	return r
}

// Register adds or replaces a builder for a provider type.
func (r *Registry) Register(typ string, build BuilderFunc) {
	if r.builders == nil {
		r.builders = map[string]BuilderFunc{}
	}
	r.builders[typ] = build
}

// Build constructs adapters for every configured provider, keeping the
// config order. The feed concatenates fan-out results in this order, so it
// must not be shuffled.
func (r *Registry) Build(cfg *Config, client *http.Client) ([]Adapter, error) {
	adapters := make([]Adapter, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		build, ok := r.builders[p.Type]
		if !ok {
			return nil, fmt.Errorf("provider %s: unknown type %q", p.Name, p.Type)
		}
		adapter, err := build(p, client)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", p.Name, err)
		}
		adapters = append(adapters, adapter)
	}
	return adapters, nil
}
