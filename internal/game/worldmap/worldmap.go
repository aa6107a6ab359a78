// Package worldmap provides the tile map model: layers, the player start
// position, and trigger actions bound to tiles or tile ranges.
package worldmap

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"thornvale/internal/game/scene"
)

// ID identifies a loaded map.
type ID string

// Position is a tile coordinate.
type Position struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Add returns the component-wise sum.
func (p Position) Add(other Position) Position {
	return Position{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the component-wise difference.
func (p Position) Sub(other Position) Position {
	return Position{X: p.X - other.X, Y: p.Y - other.Y}
}

// Mul returns the position scaled by a factor.
func (p Position) Mul(factor int) Position {
	return Position{X: p.X * factor, Y: p.Y * factor}
}

// String renders the position for logs.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Range is an inclusive rectangle of tiles.
type Range struct {
	Start Position `yaml:"start"`
	End   Position `yaml:"end"`
}

// Contains reports whether the position lies inside the rectangle,
// inclusive on all edges.
func (r Range) Contains(p Position) bool {
	return p.X >= r.Start.X && p.X <= r.End.X && p.Y >= r.Start.Y && p.Y <= r.End.Y
}

// Layers are the map's tile sheet paths. Sky is optional.
type Layers struct {
	Ground string `yaml:"ground"`
	Base   string `yaml:"base"`
	Sky    string `yaml:"sky"`
}

// Action is a trigger bound to a tile or tile range. Stepping on a
// triggering tile dispatches the action's commands.
type Action struct {
	// Name identifies the action for at-most-once tracking and logs.
	Name string `yaml:"name"`
	// At binds the action to a single tile. Pos is an accepted alias.
	At  *Position `yaml:"at"`
	Pos *Position `yaml:"pos"`
	// Range binds the action to an inclusive tile rectangle. PosRange is an
	// accepted alias.
	Range    *Range `yaml:"range"`
	PosRange *Range `yaml:"pos-range"`
	// Condition is reserved: it parses but does not gate the action yet.
	// Cond is an accepted alias.
	Condition *yaml.Node `yaml:"condition"`
	Cond      *yaml.Node `yaml:"cond"`
	// Commands are dispatched when the action triggers.
	Commands *scene.Commands `yaml:"commands"`
}

// Validate checks the action's invariants.
func (a *Action) Validate() error {
	if a.Name == "" {
		return errors.New("action name must not be empty")
	}
	if a.At != nil && a.Pos != nil {
		return fmt.Errorf("action %q: at and pos are aliases, set only one", a.Name)
	}
	if a.Range != nil && a.PosRange != nil {
		return fmt.Errorf("action %q: range and pos-range are aliases, set only one", a.Name)
	}
	if a.Condition != nil && a.Cond != nil {
		return fmt.Errorf("action %q: condition and cond are aliases, set only one", a.Name)
	}
	at := a.at()
	rng := a.area()
	if (at == nil) == (rng == nil) {
		return fmt.Errorf("action %q: exactly one of at and range must be set", a.Name)
	}
	if rng != nil && (rng.End.X < rng.Start.X || rng.End.Y < rng.Start.Y) {
		return fmt.Errorf("action %q: range end must not precede start", a.Name)
	}
	if a.Commands != nil {
		if err := a.Commands.Validate(); err != nil {
			return fmt.Errorf("action %q: commands: %w", a.Name, err)
		}
	}
	return nil
}

func (a *Action) at() *Position {
	if a.At != nil {
		return a.At
	}
	return a.Pos
}

func (a *Action) area() *Range {
	if a.Range != nil {
		return a.Range
	}
	return a.PosRange
}

// Triggers reports whether the action covers the given tile.
func (a *Action) Triggers(p Position) bool {
	if at := a.at(); at != nil {
		return *at == p
	}
	if rng := a.area(); rng != nil {
		return rng.Contains(p)
	}
	return false
}

// Map is an immutable, deserialized tile map.
type Map struct {
	ID             ID
	Music          string
	Layers         Layers
	Characters     map[scene.CharacterID]scene.Character
	PlayerPosition Position
	Actions        []Action
}

// ActionsAt returns the actions covering the given tile, in declaration
// order.
func (m *Map) ActionsAt(p Position) []Action {
	var out []Action
	for _, a := range m.Actions {
		if a.Triggers(p) {
			out = append(out, a)
		}
	}
	return out
}

// Validate checks map invariants.
//
// Postcondition: returns nil if valid, or an error describing the first violation.
func (m *Map) Validate() error {
	if m.ID == "" {
		return errors.New("map id must not be empty")
	}
	if m.Layers.Ground == "" {
		return fmt.Errorf("map %q: ground layer must not be empty", m.ID)
	}
	if m.Layers.Base == "" {
		return fmt.Errorf("map %q: base layer must not be empty", m.ID)
	}
	names := make(map[string]bool, len(m.Actions))
	for i := range m.Actions {
		a := &m.Actions[i]
		if err := a.Validate(); err != nil {
			return fmt.Errorf("map %q: %w", m.ID, err)
		}
		if names[a.Name] {
			return fmt.Errorf("map %q: duplicate action name %q", m.ID, a.Name)
		}
		names[a.Name] = true
	}
	return nil
}
