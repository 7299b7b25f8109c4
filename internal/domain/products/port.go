package products

import (
	"context"
	"time"
)

// Source fetches the leaderboard for the day before date.
type Source interface {
	Fetch(ctx context.Context, date time.Time) (Listing, error)
}

// Repository port (run history)
type Repository interface {
	Save(ctx context.Context, r *Run, items []Product) error
	Get(ctx context.Context, id RunID) (*Run, []Product, error)
	Latest(ctx context.Context, limit int) ([]*Run, error)
}

// ReportStore publishes a rendered report and returns where it can be read.
type ReportStore interface {
	Upload(ctx context.Context, localPath, key string) (string, error)
}

// Publisher announces finished runs.
type Publisher interface {
	Publish(ctx context.Context, r *Run) error
}
