package postgres

import (
	"context"
	"database/sql"

	"trufi/internal/domain"
)

// CatalogRepository is a PostgreSQL implementation of
// repository.CatalogRepository. Lines live in the lines table; their stops
// in line_stops, keyed by (line_id, position) so the travel-direction
// ordering survives the round trip.
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new PostgreSQL catalog repository.
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// LoadLines retrieves all lines and their stops ordered by position.
func (r *CatalogRepository) LoadLines(ctx context.Context) ([]domain.Line, error) {
	lineQuery := `
		SELECT id, name, category, color, rate_per_km
		FROM lines ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, lineQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.Line
	byID := make(map[string]int)

	for rows.Next() {
		var line domain.Line
		var category, color sql.NullString
		if err := rows.Scan(&line.ID, &line.Name, &category, &color, &line.RatePerKm); err != nil {
			return nil, err
		}
		line.Category = category.String
		line.Color = color.String
		line.Stops = []domain.Stop{}

		byID[line.ID] = len(lines)
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stopQuery := `
		SELECT line_id, name, lat, lng
		FROM line_stops ORDER BY line_id, position
	`

	stopRows, err := r.db.QueryContext(ctx, stopQuery)
	if err != nil {
		return nil, err
	}
	defer stopRows.Close()

	for stopRows.Next() {
		var lineID string
		var stop domain.Stop
		if err := stopRows.Scan(&lineID, &stop.Name, &stop.Lat, &stop.Lng); err != nil {
			return nil, err
		}
		if idx, ok := byID[lineID]; ok {
			lines[idx].Stops = append(lines[idx].Stops, stop)
		}
	}
	if err := stopRows.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// SaveLine upserts the line row and replaces its stop sequence in a single
// transaction, so a crash mid-save cannot leave a line with a partial stop
// list.
func (r *CatalogRepository) SaveLine(ctx context.Context, line domain.Line) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	upsert := `
		INSERT INTO lines (id, name, category, color, rate_per_km, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    category = EXCLUDED.category,
		    color = EXCLUDED.color,
		    rate_per_km = EXCLUDED.rate_per_km
	`

	var category, color sql.NullString
	if line.Category != "" {
		category = sql.NullString{String: line.Category, Valid: true}
	}
	if line.Color != "" {
		color = sql.NullString{String: line.Color, Valid: true}
	}

	if _, err = tx.ExecContext(ctx, upsert, line.ID, line.Name, category, color, line.RatePerKm); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM line_stops WHERE line_id = $1`, line.ID); err != nil {
		return err
	}

	insertStop := `
		INSERT INTO line_stops (line_id, position, name, lat, lng)
		VALUES ($1, $2, $3, $4, $5)
	`
	for i, stop := range line.Stops {
		if _, err = tx.ExecContext(ctx, insertStop, line.ID, i, stop.Name, stop.Lat, stop.Lng); err != nil {
			return err
		}
	}

	return tx.Commit()
}
