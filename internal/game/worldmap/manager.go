package worldmap

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"thornvale/internal/game/scene"
)

// yamlMap is the on-disk map schema. Decoding is strict.
type yamlMap struct {
	ID         ID                                    `yaml:"id"`
	Music      string                                `yaml:"music"`
	Layers     Layers                                `yaml:"layers"`
	Characters map[scene.CharacterID]scene.Character `yaml:"characters"`
	Vendors    *yaml.Node                            `yaml:"vendors"`
	Quests     *yaml.Node                            `yaml:"quests"`
	// PlayerPos is an accepted alias for PlayerPosition.
	PlayerPosition *Position `yaml:"player-position"`
	PlayerPos      *Position `yaml:"player-pos"`
	Actions        []Action  `yaml:"actions"`
}

// Manager owns the loaded map catalog. Not safe for concurrent use.
type Manager struct {
	log  *zap.Logger
	maps map[ID]*Map
}

// NewManager creates an empty manager.
func NewManager(log *zap.Logger) *Manager {
	return &Manager{log: log, maps: make(map[ID]*Map)}
}

// LoadBytes parses, validates, and registers one map document. The map is
// keyed by its declared id; reloading an id replaces the previous map.
func (m *Manager) LoadBytes(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var raw yamlMap
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("map: empty document")
		}
		return fmt.Errorf("map: %w", err)
	}
	if raw.PlayerPosition != nil && raw.PlayerPos != nil {
		return fmt.Errorf("map %q: player-position and player-pos are aliases, set only one", raw.ID)
	}
	pos := raw.PlayerPosition
	if pos == nil {
		pos = raw.PlayerPos
	}
	wm := &Map{
		ID:         raw.ID,
		Music:      raw.Music,
		Layers:     raw.Layers,
		Characters: raw.Characters,
		Actions:    raw.Actions,
	}
	if pos != nil {
		wm.PlayerPosition = *pos
	}
	if err := wm.Validate(); err != nil {
		return err
	}
	m.maps[wm.ID] = wm
	return nil
}

// LoadFile loads one map file.
func (m *Manager) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading map file %s: %w", path, err)
	}
	if err := m.LoadBytes(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// LoadDir loads every .yaml/.yml file in dir. Files that fail to load are
// skipped and logged.
//
// Postcondition: returns the number of maps loaded, or an error only if the
// directory itself cannot be read.
func (m *Manager) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading map directory %s: %w", dir, err)
	}
	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := m.LoadFile(path); err != nil {
			m.log.Warn("skipping map file", zap.String("path", path), zap.Error(err))
			continue
		}
		loaded++
	}
	m.log.Info("loaded maps", zap.String("dir", dir), zap.Int("count", loaded))
	return loaded, nil
}

// Get returns a loaded map by id.
func (m *Manager) Get(id ID) (*Map, bool) {
	wm, ok := m.maps[id]
	return wm, ok
}

// Len returns the number of loaded maps.
func (m *Manager) Len() int { return len(m.maps) }

// IDs returns the loaded map ids in sorted order.
func (m *Manager) IDs() []ID {
	ids := make([]ID, 0, len(m.maps))
	for id := range m.maps {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
