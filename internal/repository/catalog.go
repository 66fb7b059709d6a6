package repository

import (
	"context"

	"trufi/internal/domain"
)

// CatalogRepository defines the optional durable store behind the
// in-memory catalog. The catalog itself stays authoritative; the
// repository only loads the seed at startup and absorbs write-through
// saves after edits.
type CatalogRepository interface {
	// LoadLines retrieves every line with its stops in stop order.
	LoadLines(ctx context.Context) ([]domain.Line, error)

	// SaveLine upserts a line and replaces its stop sequence atomically.
	SaveLine(ctx context.Context, line domain.Line) error
}
