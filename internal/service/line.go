package service

import (
	"context"
	"log"

	"trufi/internal/catalog"
	"trufi/internal/domain"
	"trufi/internal/repository"
)

// LineService wraps catalog edits with optional write-through persistence.
// The in-memory catalog stays authoritative: a failed save is logged and
// the edit stands, matching the permissive editing workflow.
type LineService struct {
	catalog     *catalog.Catalog
	repo        repository.CatalogRepository // nil means memory-only
	defaultRate float64
}

// NewLineService creates a new LineService. repo may be nil; a
// non-positive defaultRate falls back to the catalog default.
func NewLineService(cat *catalog.Catalog, repo repository.CatalogRepository, defaultRate float64) *LineService {
	if defaultRate <= 0 {
		defaultRate = catalog.DefaultRatePerKm
	}
	return &LineService{
		catalog:     cat,
		repo:        repo,
		defaultRate: defaultRate,
	}
}

// CreateLine adds a new empty line to the catalog. A non-positive rate
// selects the configured default.
func (s *LineService) CreateLine(ctx context.Context, name string, ratePerKm float64) domain.Line {
	if ratePerKm <= 0 {
		ratePerKm = s.defaultRate
	}
	line := s.catalog.AddLine(name, ratePerKm)
	s.persist(ctx, line.ID)
	return line
}

// UpdateLine applies a partial update to a line's editable fields.
func (s *LineService) UpdateLine(ctx context.Context, id string, upd catalog.LineUpdate) (domain.Line, error) {
	line, err := s.catalog.UpdateLine(id, upd)
	if err != nil {
		return domain.Line{}, err
	}
	s.persist(ctx, line.ID)
	return line, nil
}

// AddStop appends a stop to a line and returns the updated line along with
// the new stop's index.
func (s *LineService) AddStop(ctx context.Context, lineID, name string, lat, lng float64) (domain.Line, int, error) {
	index, err := s.catalog.AddStop(lineID, name, lat, lng)
	if err != nil {
		return domain.Line{}, 0, err
	}
	s.persist(ctx, lineID)

	line, err := s.catalog.Get(lineID)
	if err != nil {
		return domain.Line{}, 0, err
	}
	return line, index, nil
}

// RenameStop renames the stop at the given position.
func (s *LineService) RenameStop(ctx context.Context, lineID string, index int, newName string) (domain.Line, error) {
	if err := s.catalog.RenameStop(lineID, index, newName); err != nil {
		return domain.Line{}, err
	}
	s.persist(ctx, lineID)
	return s.catalog.Get(lineID)
}

// RemoveStop deletes the stop at the given position. Later stop indices
// shift down; any cached match results against this line are stale.
func (s *LineService) RemoveStop(ctx context.Context, lineID string, index int) (domain.Line, error) {
	if err := s.catalog.RemoveStop(lineID, index); err != nil {
		return domain.Line{}, err
	}
	s.persist(ctx, lineID)
	return s.catalog.Get(lineID)
}

// GetLine returns a copy of a single line.
func (s *LineService) GetLine(ctx context.Context, id string) (domain.Line, error) {
	return s.catalog.Get(id)
}

// ListLines returns a snapshot of the whole catalog.
func (s *LineService) ListLines(ctx context.Context) []domain.Line {
	return s.catalog.Lines()
}

// persist writes the current state of a line through to the repository.
func (s *LineService) persist(ctx context.Context, lineID string) {
	if s.repo == nil {
		return
	}
	line, err := s.catalog.Get(lineID)
	if err != nil {
		return
	}
	if err := s.repo.SaveLine(ctx, line); err != nil {
		log.Printf("failed to persist line %s: %v", lineID, err)
	}
}
