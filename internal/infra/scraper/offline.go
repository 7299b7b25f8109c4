package scraper

import (
	"context"
	"time"

	"github.com/bryanwahyu/ph-daily/internal/domain/products"
)

// Offline is a products.Source that never touches the network.
type Offline struct {
	BaseURL string
}

func (o Offline) Fetch(ctx context.Context, date time.Time) (products.Listing, error) {
	if err := ctx.Err(); err != nil {
		return products.Listing{}, err
	}
	return products.Listing{
		URL:      products.DailyURL(o.BaseURL, date),
		Source:   products.SourceFallback,
		Products: products.Fallback(),
	}, nil
}
