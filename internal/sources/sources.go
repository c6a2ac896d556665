// Package sources turns configured news providers into adapters that all
// yield the same canonical article shape. Provider quirks (feed formats,
// API envelopes, page markup) stay behind the Adapter boundary.
package sources

import (
	"context"

	"github.com/mkoval/newsfuse/internal/models"
)

// Adapter fetches one provider's current articles. Implementations return
// an error instead of panicking; callers decide whether a failed provider
// is fatal.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context) ([]models.RawArticle, error)
}
