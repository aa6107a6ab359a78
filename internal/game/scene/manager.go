package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// DefaultEntrySection is where a played scene starts when no entry override
// has been recorded for it.
const DefaultEntrySection SectionID = "start"

// Manager owns the loaded scene catalog and the story state that outlives
// any single scene: variables and per-scene entry overrides. It is the
// VarSource for condition evaluation. Not safe for concurrent use; the
// engine runs it from a single goroutine.
type Manager struct {
	log       *zap.Logger
	scenes    map[ID]*Scene
	variables map[string]string
	entries   map[ID]SectionID
}

// NewManager creates an empty manager.
func NewManager(log *zap.Logger) *Manager {
	return &Manager{
		log:       log,
		scenes:    make(map[ID]*Scene),
		variables: make(map[string]string),
		entries:   make(map[ID]SectionID),
	}
}

// LoadBytes parses, validates, and registers a scene document under the
// given id. Reloading an id replaces the previous scene; story state for it
// (variables, entry overrides) is untouched.
func (m *Manager) LoadBytes(id ID, data []byte) error {
	s, err := decodeScene(id, data)
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	m.scenes[id] = s
	return nil
}

// LoadFile loads one scene file. The scene id is the file name without its
// extension.
func (m *Manager) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading scene file %s: %w", path, err)
	}
	base := filepath.Base(path)
	id := ID(strings.TrimSuffix(base, filepath.Ext(base)))
	return m.LoadBytes(id, data)
}

// LoadDir loads every .yaml/.yml file in dir. Files that fail to load are
// skipped and logged; the rest of the directory still loads.
//
// Postcondition: returns the number of scenes loaded, or an error only if
// the directory itself cannot be read.
func (m *Manager) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading scene directory %s: %w", dir, err)
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
			m.log.Warn("skipping scene file", zap.String("path", path), zap.Error(err))
			continue
		}
		loaded++
	}
	m.log.Info("loaded scenes", zap.String("dir", dir), zap.Int("count", loaded))
	return loaded, nil
}

// Get returns a loaded scene by id.
func (m *Manager) Get(id ID) (*Scene, bool) {
	s, ok := m.scenes[id]
	return s, ok
}

// Len returns the number of loaded scenes.
func (m *Manager) Len() int { return len(m.scenes) }

// IDs returns the loaded scene ids in sorted order.
func (m *Manager) IDs() []ID {
	ids := make([]ID, 0, len(m.scenes))
	for id := range m.scenes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Var implements VarSource.
func (m *Manager) Var(name string) (string, bool) {
	value, ok := m.variables[name]
	return value, ok
}

// UpdateVariables merges the given variables into story state,
// last-write-wins.
func (m *Manager) UpdateVariables(vars map[string]string) {
	for name, value := range vars {
		m.variables[name] = value
	}
}

// UpdateEntry records where the named scene starts the next time it is
// played. Overrides persist until overwritten; playing the scene does not
// consume them.
func (m *Manager) UpdateEntry(scene ID, section SectionID) {
	m.entries[scene] = section
}

// Entry returns the entry section for a scene: the recorded override if
// one exists, the default otherwise.
func (m *Manager) Entry(scene ID) SectionID {
	if section, ok := m.entries[scene]; ok {
		return section
	}
	return DefaultEntrySection
}

// Play starts a scene: spawns its embedded characters through the sink and
// returns a fresh player positioned at the entry section.
//
// Precondition: the scene is loaded and its entry section exists.
func (m *Manager) Play(id ID, sink Sink) (*Player, error) {
	s, ok := m.scenes[id]
	if !ok {
		return nil, fmt.Errorf("cannot play unknown scene %q", id)
	}
	entry := m.Entry(id)
	if _, ok := s.Dialogue[entry]; !ok {
		return nil, fmt.Errorf("scene %q has no entry section %q", id, entry)
	}
	defs := Definitions{Characters: s.Characters}
	defs.Spawn(sink)
	m.log.Info("playing scene",
		zap.String("scene", string(id)),
		zap.String("entry", string(entry)))
	return newPlayer(s, m, entry, m.log), nil
}
