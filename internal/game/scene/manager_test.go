package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoEntryScene = `
characters:
  mike:
    name: Mike
  barkeep:
    name: Old Tom
dialogue:
  start:
    lines:
      - from: mike
        text: From the top.
  cellar:
    lines:
      - from: mike
        text: Straight to business.
`

func TestPlaySpawnsCharactersInOrder(t *testing.T) {
	mgr := newTestManager(t)
	require.NoError(t, mgr.LoadBytes("mike", []byte(twoEntryScene)))

	sink := &recordingSink{}
	p, err := mgr.Play("mike", sink)
	require.NoError(t, err)

	assert.Equal(t, []CharacterID{"barkeep", "mike"}, sink.spawned)
	assert.Equal(t, ID("mike"), p.SceneID())
	assert.Equal(t, DefaultEntrySection, p.Section())
}

func TestPlayUnknownScene(t *testing.T) {
	mgr := newTestManager(t)
	_, err := mgr.Play("ghost", &recordingSink{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown scene")
}

func TestEntryOverridePersists(t *testing.T) {
	mgr := newTestManager(t)
	require.NoError(t, mgr.LoadBytes("mike", []byte(twoEntryScene)))

	assert.Equal(t, DefaultEntrySection, mgr.Entry("mike"))
	mgr.UpdateEntry("mike", "cellar")
	assert.Equal(t, SectionID("cellar"), mgr.Entry("mike"))

	p, err := mgr.Play("mike", &recordingSink{})
	require.NoError(t, err)
	assert.Equal(t, SectionID("cellar"), p.Section())

	// Playing does not consume the override.
	p, err = mgr.Play("mike", &recordingSink{})
	require.NoError(t, err)
	assert.Equal(t, SectionID("cellar"), p.Section())
}

func TestSceneEntryCommandRedirectsNextPlay(t *testing.T) {
	mgr := newTestManager(t)
	require.NoError(t, mgr.LoadBytes("mike", []byte(twoEntryScene)))

	cmds := &Commands{SceneEntry: map[ID]SectionID{"mike": "cellar"}}
	require.NoError(t, cmds.Validate())
	cmds.Execute(mgr, &recordingSink{}, mgr.log)

	p, err := mgr.Play("mike", &recordingSink{})
	require.NoError(t, err)
	assert.Equal(t, SectionID("cellar"), p.Section())
}

func TestUpdateVariablesLastWriteWins(t *testing.T) {
	mgr := newTestManager(t)
	mgr.UpdateVariables(map[string]string{"door": "closed", "lamp": "lit"})
	mgr.UpdateVariables(map[string]string{"door": "open"})

	v, ok := mgr.Var("door")
	require.True(t, ok)
	assert.Equal(t, "open", v)
	v, ok = mgr.Var("lamp")
	require.True(t, ok)
	assert.Equal(t, "lit", v)

	_, ok = mgr.Var("window")
	assert.False(t, ok)
}

func TestCommandsAliasConflict(t *testing.T) {
	cmds := &Commands{
		Variables: map[string]string{"a": "1"},
		Vars:      map[string]string{"a": "1"},
	}
	err := cmds.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "variables and vars")
}

func TestCommandsUpdateCharactersDeterministicOrder(t *testing.T) {
	mgr := newTestManager(t)
	name := "Renamed"
	cmds := &Commands{UpdateCharacters: map[CharacterID]CharacterUpdate{
		"zed":  {Name: &name},
		"anna": {Name: &name},
		"mike": {Name: &name},
	}}

	sink := &recordingSink{}
	cmds.Execute(mgr, sink, mgr.log)
	assert.Equal(t, []CharacterID{"anna", "mike", "zed"}, sink.updated)
}
