package worldmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const townMap = `
id: town
layers:
  ground: tiles/ground.png
  base: tiles/base.png
player-pos:
  x: 12
  y: 8
actions:
  - name: tavern-door
    at:
      x: 14
      y: 8
    commands:
      variables:
        visited-tavern: "true"
  - name: market-square
    pos-range:
      start:
        x: 4
        y: 2
      end:
        x: 9
        y: 6
`

func TestLoadBytes(t *testing.T) {
	mgr := NewManager(zap.NewNop())
	require.NoError(t, mgr.LoadBytes([]byte(townMap)))

	m, ok := mgr.Get("town")
	require.True(t, ok)
	assert.Equal(t, Position{X: 12, Y: 8}, m.PlayerPosition)
	assert.Equal(t, "tiles/ground.png", m.Layers.Ground)
	require.Len(t, m.Actions, 2)
}

func TestActionsAt(t *testing.T) {
	mgr := NewManager(zap.NewNop())
	require.NoError(t, mgr.LoadBytes([]byte(townMap)))
	m, ok := mgr.Get("town")
	require.True(t, ok)

	hits := m.ActionsAt(Position{X: 14, Y: 8})
	require.Len(t, hits, 1)
	assert.Equal(t, "tavern-door", hits[0].Name)

	// Range edges are inclusive.
	for _, p := range []Position{{4, 2}, {9, 6}, {6, 4}} {
		hits = m.ActionsAt(p)
		require.Len(t, hits, 1, "position %v", p)
		assert.Equal(t, "market-square", hits[0].Name)
	}

	assert.Empty(t, m.ActionsAt(Position{X: 10, Y: 6}))
	assert.Empty(t, m.ActionsAt(Position{X: 0, Y: 0}))
}

func TestValidateRejections(t *testing.T) {
	mgr := NewManager(zap.NewNop())

	err := mgr.LoadBytes([]byte(`
id: bad
layers:
  ground: g.png
  base: b.png
actions:
  - name: both
    at: {x: 1, y: 1}
    range:
      start: {x: 0, y: 0}
      end: {x: 2, y: 2}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one")

	err = mgr.LoadBytes([]byte(`
id: bad
layers:
  ground: g.png
  base: b.png
actions:
  - name: inverted
    range:
      start: {x: 5, y: 5}
      end: {x: 1, y: 1}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "precede")

	err = mgr.LoadBytes([]byte(`
id: bad
layers:
  ground: g.png
  base: b.png
actions:
  - name: dup
    at: {x: 1, y: 1}
  - name: dup
    at: {x: 2, y: 2}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate action")
}

func TestStrictSchema(t *testing.T) {
	mgr := NewManager(zap.NewNop())
	err := mgr.LoadBytes([]byte(`
id: bad
layers:
  ground: g.png
  base: b.png
weather: rainy
`))
	require.Error(t, err)

	err = mgr.LoadBytes([]byte(`
id: bad
layers:
  ground: g.png
  base: b.png
player-position: {x: 1, y: 1}
player-pos: {x: 2, y: 2}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aliases")
}

func TestPositionArithmetic(t *testing.T) {
	a := Position{X: 3, Y: 4}
	b := Position{X: 1, Y: 2}

	assert.Equal(t, Position{X: 4, Y: 6}, a.Add(b))
	assert.Equal(t, Position{X: 2, Y: 2}, a.Sub(b))
	assert.Equal(t, Position{X: 6, Y: 8}, a.Mul(2))
	assert.Equal(t, "(3,4)", a.String())
}
