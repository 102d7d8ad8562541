// Package data loads authored wave and archetype configuration from YAML
// files and validates it before orchestration starts. Configuration errors
// surface here, synchronously, never mid-tick.
package data

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nethrin/wavegate/internal/model"
)

var (
	ErrDuplicateArchetype = errors.New("duplicate archetype id")
	ErrEmptyArchetypeID   = errors.New("archetype id is empty")
	ErrBadArchetypeStats  = errors.New("archetype health and damage must be > 0")
)

// ArchetypeLibrary is the read-only set of enemy archetypes referenced by
// spawn groups.
type ArchetypeLibrary struct {
	byID  map[string]*model.EnemyArchetype
	order []string
}

// NewArchetypeLibrary builds a library from the given archetypes.
// Used by tests and in-memory hosts; file-based hosts use LoadArchetypes.
func NewArchetypeLibrary(archetypes ...*model.EnemyArchetype) (*ArchetypeLibrary, error) {
	lib := &ArchetypeLibrary{byID: make(map[string]*model.EnemyArchetype, len(archetypes))}
	for _, a := range archetypes {
		if a.ID() == "" {
			return nil, ErrEmptyArchetypeID
		}
		if _, ok := lib.byID[a.ID()]; ok {
			return nil, fmt.Errorf("%s: %w", a.ID(), ErrDuplicateArchetype)
		}
		lib.byID[a.ID()] = a
		lib.order = append(lib.order, a.ID())
	}
	return lib, nil
}

// Get returns the archetype for id.
func (l *ArchetypeLibrary) Get(id string) (*model.EnemyArchetype, bool) {
	a, ok := l.byID[id]
	return a, ok
}

// Count returns the number of archetypes in the library.
func (l *ArchetypeLibrary) Count() int {
	return len(l.byID)
}

// IDs returns archetype ids in declaration order.
func (l *ArchetypeLibrary) IDs() []string {
	ids := make([]string, len(l.order))
	copy(ids, l.order)
	return ids
}

type archetypeRow struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	Health     float64 `yaml:"health"`
	Damage     float64 `yaml:"damage"`
	MoveSpeed  float64 `yaml:"move_speed"`
	Experience int64   `yaml:"experience"`
	Boss       bool    `yaml:"boss"`
}

type archetypeFile struct {
	Archetypes []archetypeRow `yaml:"archetypes"`
}

// LoadArchetypes reads an archetype library from a YAML file.
func LoadArchetypes(path string) (*ArchetypeLibrary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading archetypes %s: %w", path, err)
	}

	var file archetypeFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing archetypes %s: %w", path, err)
	}

	archetypes := make([]*model.EnemyArchetype, 0, len(file.Archetypes))
	for _, row := range file.Archetypes {
		if row.Health <= 0 || row.Damage <= 0 {
			return nil, fmt.Errorf("archetype %s: %w", row.ID, ErrBadArchetypeStats)
		}
		name := row.Name
		if name == "" {
			name = row.ID
		}
		archetypes = append(archetypes, model.NewEnemyArchetype(
			row.ID, name,
			row.Health, row.Damage, row.MoveSpeed,
			row.Experience, row.Boss,
		))
	}

	lib, err := NewArchetypeLibrary(archetypes...)
	if err != nil {
		return nil, fmt.Errorf("archetypes %s: %w", path, err)
	}
	return lib, nil
}
