package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(zap.NewNop())
}

func TestLoadBytesFullScene(t *testing.T) {
	mgr := newTestManager(t)
	require.NoError(t, mgr.LoadBytes("mike", []byte(`
music: tavern-theme
characters:
  mike:
    name: Mike
    image: portraits/mike.png
    voice: voices/mike
dialogue:
  start:
    lines:
      - from: mike
        text: Hello there.
    responses:
      - text: Goodbye.
  other:
    lines:
      - from: mike
        text: Still here?
`)))

	s, ok := mgr.Get("mike")
	require.True(t, ok)
	assert.Equal(t, "tavern-theme", s.Music)
	assert.Equal(t, []CharacterID{"mike"}, s.CharacterIDs())
	require.Len(t, s.Dialogue["start"].Lines, 1)
	assert.Equal(t, CharacterID("mike"), s.Dialogue["start"].Lines[0].From)
	assert.Equal(t, "Hello there.", s.Dialogue["start"].Lines[0].Text)
}

func TestLoadBytesAliases(t *testing.T) {
	mgr := newTestManager(t)
	require.NoError(t, mgr.LoadBytes("aliased", []byte(`
dialogue:
  start:
    lines:
      - from: mike
        txt: Short form.
    resp:
      - txt: Me too.
        lnk: next
  next:
    lines:
      - from: mike
        text: Long form.
`)))

	s, ok := mgr.Get("aliased")
	require.True(t, ok)
	d := s.Dialogue["start"]
	assert.Equal(t, "Short form.", d.Lines[0].Text)
	require.Len(t, d.Responses, 1)
	assert.Equal(t, "Me too.", d.Responses[0].Text)
	assert.Equal(t, SectionID("next"), d.Responses[0].Link)
}

func TestLoadBytesAliasConflicts(t *testing.T) {
	mgr := newTestManager(t)

	err := mgr.LoadBytes("bad", []byte(`
dialogue:
  start:
    lines:
      - from: mike
        text: one
        txt: two
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text and txt")

	err = mgr.LoadBytes("bad", []byte(`
dialogue:
  start:
    lines:
      - from: mike
        text: hi
    responses:
      - text: bye
    resp:
      - text: bye
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "responses and resp")
}

func TestLoadBytesRejectsUnknownFields(t *testing.T) {
	mgr := newTestManager(t)
	err := mgr.LoadBytes("bad", []byte(`
dialogue:
  start:
    lines:
      - from: mike
        text: hi
        mood: cheerful
`))
	require.Error(t, err)
	_, ok := mgr.Get("bad")
	assert.False(t, ok)
}

func TestValidateRejectsDanglingLinks(t *testing.T) {
	mgr := newTestManager(t)

	err := mgr.LoadBytes("bad", []byte(`
dialogue:
  start:
    lines:
      - from: mike
        text: hi
    responses:
      - text: bye
        link: nowhere
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown section")

	err = mgr.LoadBytes("bad", []byte(`
dialogue:
  start:
    lines:
      - from: mike
        text: hi
    continue-to: nowhere
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "continue-to")
}

func TestValidateSkillCheck(t *testing.T) {
	mgr := newTestManager(t)
	require.NoError(t, mgr.LoadBytes("checked", []byte(`
dialogue:
  start:
    lines:
      - from: mike
        text: Convince me.
    responses:
      - text: Trust me.
        link: win
        skill-check:
          check: charisma
          modifier: -1
          link-fail: lose
  win:
    lines:
      - from: mike
        text: Deal.
  lose:
    lines:
      - from: mike
        text: No deal.
`)))

	err := mgr.LoadBytes("bad", []byte(`
dialogue:
  start:
    lines:
      - from: mike
        text: Convince me.
    responses:
      - text: Trust me.
        skill-check:
          check: swagger
          link-fail: start
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown skill")
}

func TestLoadBytesReplacesScene(t *testing.T) {
	mgr := newTestManager(t)
	require.NoError(t, mgr.LoadBytes("mike", []byte(`
dialogue:
  start:
    lines:
      - from: mike
        text: First draft.
`)))
	mgr.UpdateVariables(map[string]string{"met-mike": "true"})

	require.NoError(t, mgr.LoadBytes("mike", []byte(`
dialogue:
  start:
    lines:
      - from: mike
        text: Second draft.
`)))

	s, ok := mgr.Get("mike")
	require.True(t, ok)
	assert.Equal(t, "Second draft.", s.Dialogue["start"].Lines[0].Text)
	assert.Equal(t, 1, mgr.Len())

	// Story state survives content reloads.
	v, ok := mgr.Var("met-mike")
	require.True(t, ok)
	assert.Equal(t, "true", v)
}
