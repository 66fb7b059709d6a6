// Package catalog holds the editable collection of trufi lines. The
// catalog is an explicitly owned instance (no package-level state),
// constructed once at startup with seed data and passed to whoever needs
// to read or edit it.
package catalog

import (
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"

	"trufi/internal/domain"
)

// DefaultRatePerKm is applied to new lines until an operator sets a rate.
const DefaultRatePerKm = 1.8

// Catalog is a mutex-guarded, in-memory line collection. Reads hand out
// deep-copied snapshots, so a matching pass never observes a line while an
// operator is halfway through editing it.
type Catalog struct {
	mu    sync.RWMutex
	lines []*domain.Line
	byID  map[string]*domain.Line
}

// New creates a catalog seeded with the given lines. Seed entries without
// an ID get a generated one; seed entries with a non-positive rate fall
// back to DefaultRatePerKm.
func New(seed []domain.Line) *Catalog {
	c := &Catalog{
		byID: make(map[string]*domain.Line, len(seed)),
	}
	for i := range seed {
		line := seed[i].Clone()
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		if !validRate(line.RatePerKm) {
			line.RatePerKm = DefaultRatePerKm
		}
		if _, exists := c.byID[line.ID]; exists {
			// Duplicate seed IDs would break the uniqueness invariant.
			line.ID = uuid.New().String()
		}
		c.lines = append(c.lines, &line)
		c.byID[line.ID] = &line
	}
	return c
}

// AddLine creates a new empty line, appends it to the catalog and returns a
// copy. An empty name gets a placeholder, a non-positive rate falls back to
// the default. AddLine never fails.
func (c *Catalog) AddLine(name string, ratePerKm float64) domain.Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !validRate(ratePerKm) {
		ratePerKm = DefaultRatePerKm
	}
	if name == "" {
		name = fmt.Sprintf("Trufi %d", len(c.lines)+1)
	}

	line := &domain.Line{
		ID:        uuid.New().String(),
		Name:      name,
		Category:  "Trufi",
		Color:     "#3f51b5",
		RatePerKm: ratePerKm,
		Stops:     []domain.Stop{},
	}
	c.lines = append(c.lines, line)
	c.byID[line.ID] = line

	return line.Clone()
}

// LineUpdate is a partial update of a line's editable fields. Nil fields
// are left untouched.
type LineUpdate struct {
	Name      *string
	Category  *string
	Color     *string
	RatePerKm *float64
}

// UpdateLine applies a partial update to a line. An invalid rate (zero,
// negative or non-finite) is ignored and the previous value retained; the
// editing UX is deliberately permissive. Returns ErrLineNotFound when the
// id is unknown, in which case nothing is applied.
func (c *Catalog) UpdateLine(id string, upd LineUpdate) (domain.Line, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	line, ok := c.byID[id]
	if !ok {
		return domain.Line{}, ErrLineNotFound
	}

	if upd.Name != nil && *upd.Name != "" {
		line.Name = *upd.Name
	}
	if upd.Category != nil && *upd.Category != "" {
		line.Category = *upd.Category
	}
	if upd.Color != nil && *upd.Color != "" {
		line.Color = *upd.Color
	}
	if upd.RatePerKm != nil && validRate(*upd.RatePerKm) {
		line.RatePerKm = *upd.RatePerKm
	}

	return line.Clone(), nil
}

// AddStop appends a stop to the end of a line's sequence and returns its
// index. Coordinates must be finite.
func (c *Catalog) AddStop(lineID, name string, lat, lng float64) (int, error) {
	if !finite(lat) || !finite(lng) {
		return 0, ErrInvalidCoordinates
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	line, ok := c.byID[lineID]
	if !ok {
		return 0, ErrLineNotFound
	}

	if name == "" {
		name = fmt.Sprintf("Parada %d", len(line.Stops)+1)
	}

	line.Stops = append(line.Stops, domain.Stop{Name: name, Lat: lat, Lng: lng})
	return len(line.Stops) - 1, nil
}

// RenameStop changes the name of the stop at the given position.
func (c *Catalog) RenameStop(lineID string, index int, newName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	line, ok := c.byID[lineID]
	if !ok {
		return ErrLineNotFound
	}
	if index < 0 || index >= len(line.Stops) {
		return ErrStopIndexOutOfRange
	}

	line.Stops[index].Name = newName
	return nil
}

// RemoveStop deletes the stop at the given position. Every later stop
// shifts down by one, so any match result computed against this line
// before the removal holds stale indices and must be recomputed.
func (c *Catalog) RemoveStop(lineID string, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	line, ok := c.byID[lineID]
	if !ok {
		return ErrLineNotFound
	}
	if index < 0 || index >= len(line.Stops) {
		return ErrStopIndexOutOfRange
	}

	line.Stops = append(line.Stops[:index], line.Stops[index+1:]...)
	return nil
}

// Get returns a copy of a single line.
func (c *Catalog) Get(id string) (domain.Line, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	line, ok := c.byID[id]
	if !ok {
		return domain.Line{}, ErrLineNotFound
	}
	return line.Clone(), nil
}

// Lines returns a deep-copied snapshot of the catalog in insertion order.
// Mutating the returned slice has no effect on the catalog.
func (c *Catalog) Lines() []domain.Line {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Line, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, l.Clone())
	}
	return out
}

// Len returns the number of lines in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lines)
}

func validRate(rate float64) bool {
	return finite(rate) && rate > 0
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
