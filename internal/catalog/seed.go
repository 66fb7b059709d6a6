package catalog

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"trufi/internal/domain"
)

// DefaultSeed returns the built-in starter catalog: two urban trufi lines
// connecting El Alto with central La Paz.
func DefaultSeed() []domain.Line {
	return []domain.Line{
		{
			ID:        "T1",
			Name:      "T1 Ceja – Plaza San Francisco",
			Category:  "Trufi urbano",
			Color:     "#00bcd4",
			RatePerKm: 1.8,
			Stops: []domain.Stop{
				{Name: "Ceja El Alto", Lat: -16.4989, Lng: -68.1616},
				{Name: "Puente Víacha", Lat: -16.5085, Lng: -68.1535},
				{Name: "Cementerio", Lat: -16.5054, Lng: -68.144},
				{Name: "Plaza San Francisco", Lat: -16.4958, Lng: -68.1342},
			},
		},
		{
			ID:        "T2",
			Name:      "T2 Villa Adela – Ceja – Centro La Paz",
			Category:  "Trufi urbano",
			Color:     "#ff9800",
			RatePerKm: 2.0,
			Stops: []domain.Stop{
				{Name: "Villa Adela", Lat: -16.5342, Lng: -68.1835},
				{Name: "12 de Octubre", Lat: -16.5105, Lng: -68.172},
				{Name: "Ceja El Alto", Lat: -16.4989, Lng: -68.1616},
				{Name: "Plaza del Estudiante", Lat: -16.505, Lng: -68.125},
			},
		},
	}
}

// seedLine is the YAML shape of one catalog entry.
type seedLine struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name" validate:"required"`
	Category  string     `yaml:"category"`
	Color     string     `yaml:"color"`
	RatePerKm float64    `yaml:"rate_per_km" validate:"gt=0"`
	Stops     []seedStop `yaml:"stops" validate:"dive"`
}

type seedStop struct {
	Name string  `yaml:"name" validate:"required"`
	Lat  float64 `yaml:"lat" validate:"gte=-90,lte=90"`
	Lng  float64 `yaml:"lng" validate:"gte=-180,lte=180"`
}

// LoadSeedFile reads a YAML seed catalog and validates each entry
// (required names, positive rate, coordinates within WGS 84 bounds).
func LoadSeedFile(path string) ([]domain.Line, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []seedLine
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse seed catalog: %w", err)
	}

	v := validator.New()
	lines := make([]domain.Line, 0, len(entries))
	for i, e := range entries {
		if err := v.Struct(e); err != nil {
			return nil, fmt.Errorf("seed catalog entry %d: %w", i, err)
		}

		line := domain.Line{
			ID:        e.ID,
			Name:      e.Name,
			Category:  e.Category,
			Color:     e.Color,
			RatePerKm: e.RatePerKm,
			Stops:     make([]domain.Stop, 0, len(e.Stops)),
		}
		for _, s := range e.Stops {
			line.Stops = append(line.Stops, domain.Stop{Name: s.Name, Lat: s.Lat, Lng: s.Lng})
		}
		lines = append(lines, line)
	}

	return lines, nil
}
