package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"thornvale/internal/config"
	"thornvale/internal/game/entity"
	"thornvale/internal/game/event"
	"thornvale/internal/game/item"
	"thornvale/internal/game/mode"
	"thornvale/internal/game/scene"
)

const testScene = `
characters:
  mike:
    name: Mike
  cellar-rat:
    name: Cellar Rat
dialogue:
  start:
    lines:
      - from: mike
        text: Ready?
    responses:
      - text: Open the hatch.
        commands:
          battle: cellar-rat
      - text: Pay me first.
        link: payment
  payment:
    lines:
      - from: mike
        text: Half now.
        commands:
          reward-gold:
            amount: 20
            from: mike
    continue-to: start
`

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	log := zap.NewNop()

	catalog := item.NewCatalog(log)
	require.NoError(t, catalog.LoadBytes([]byte(`
weapon:
  - id: dragonbone-sword
    name: Dragonbone Sword
    damage: 7
`)))

	scenes := scene.NewManager(log)
	require.NoError(t, scenes.LoadBytes("mike", []byte(testScene)))

	player := entity.New("Jake")
	if sword, ok := catalog.Spawn("dragonbone-sword"); ok {
		player.Inventory().Insert(sword)
		require.NoError(t, player.Equip(sword.InstanceID()))
	}

	cfg := config.GameConfig{UnarmedDamage: 1.0}
	return New(log, cfg, NewWorld(player), catalog, scenes)
}

func currentMode(t *testing.T, e *Engine) mode.Mode {
	t.Helper()
	m, err := e.Modes().Current()
	require.NoError(t, err)
	return m
}

func TestPlaySceneEntersDialogueMode(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, mode.Map, currentMode(t, e))

	e.Emit(event.PlayScene{Scene: "mike"})
	e.Tick()

	assert.Equal(t, mode.Dialogue, currentMode(t, e))
	_, ok := e.Dialogue()
	assert.True(t, ok)

	// Playing the scene spawned its embedded characters.
	_, ok = e.World().NPC("mike")
	assert.True(t, ok)
	_, ok = e.World().NPC("cellar-rat")
	assert.True(t, ok)

	view, err := e.DialogueView()
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, "Ready?", view.Line.Text)
}

func TestSceneEndingResponseStartsBattleSameTick(t *testing.T) {
	e := newTestEngine(t)
	e.Emit(event.PlayScene{Scene: "mike"})
	e.Tick()

	// Selecting "Open the hatch" ends the scene and starts the battle in
	// one tick: the dialogue mode pops before the battle mode pushes.
	e.Emit(event.DialogueInput{Kind: event.InputSelect})
	e.Tick()

	_, ok := e.Dialogue()
	assert.False(t, ok)
	battle, ok := e.Battle()
	require.True(t, ok)
	assert.Equal(t, scene.CharacterID("cellar-rat"), battle.Opponent)
	assert.Equal(t, mode.Battle, currentMode(t, e))
	assert.Equal(t, 2, e.Modes().Depth())
}

func TestRewardGoldCreditsPlayer(t *testing.T) {
	e := newTestEngine(t)
	e.Emit(event.PlayScene{Scene: "mike"})
	e.Tick()

	// Hover to the second response and click it: jump to payment.
	e.Emit(event.DialogueInput{Kind: event.InputClick, Index: 1})
	e.Tick()

	dlg, ok := e.Dialogue()
	require.True(t, ok)
	assert.Equal(t, scene.SectionID("payment"), dlg.Section())

	// Selecting past the payment line fires its reward once.
	e.Emit(event.DialogueInput{Kind: event.InputSelect})
	e.Tick()
	assert.Equal(t, 20, e.World().Player().Gold())
	assert.Equal(t, scene.SectionID("start"), dlg.Section())

	// Loop back through payment: the bookmark blocks a second reward.
	e.Emit(event.DialogueInput{Kind: event.InputClick, Index: 1})
	e.Tick()
	e.Emit(event.DialogueInput{Kind: event.InputSelect})
	e.Tick()
	assert.Equal(t, 20, e.World().Player().Gold())
}

func TestAttackResolvesThroughEquipment(t *testing.T) {
	e := newTestEngine(t)
	e.World().SpawnNPC("cellar-rat", scene.Character{Name: "Cellar Rat"})

	e.Emit(event.Attack{Attacker: event.Player(), Target: event.NPC("cellar-rat")})
	e.Tick()

	rat, ok := e.World().NPC("cellar-rat")
	require.True(t, ok)
	assert.Equal(t, 13.0, rat.Entity.Health())
}

func TestDeathEndsBattleAndDespawns(t *testing.T) {
	e := newTestEngine(t)
	e.World().SpawnNPC("cellar-rat", scene.Character{Name: "Cellar Rat"})
	e.Emit(event.StartBattle{Opponent: "cellar-rat"})
	e.Tick()
	assert.Equal(t, mode.Battle, currentMode(t, e))

	// Three sword hits at 7 damage kill a 20-health rat.
	for i := 0; i < 3; i++ {
		e.Emit(event.Attack{Attacker: event.Player(), Target: event.NPC("cellar-rat")})
		e.Tick()
	}

	_, ok := e.World().NPC("cellar-rat")
	assert.False(t, ok)
	_, ok = e.Battle()
	assert.False(t, ok)
	assert.Equal(t, mode.Map, currentMode(t, e))
	assert.False(t, e.GameOver())
}

func TestPlayerDeathIsGameOver(t *testing.T) {
	e := newTestEngine(t)
	e.Emit(event.Damage{Target: event.Player(), Amount: 50})
	e.Tick()

	assert.True(t, e.GameOver())
	assert.True(t, e.World().Player().IsDead())
}

func TestSingletonEventsKeepLast(t *testing.T) {
	e := newTestEngine(t)
	e.World().SpawnNPC("cellar-rat", scene.Character{Name: "Cellar Rat"})
	e.World().SpawnNPC("mike", scene.Character{Name: "Mike"})

	e.Emit(event.StartBattle{Opponent: "mike"})
	e.Emit(event.StartBattle{Opponent: "cellar-rat"})
	e.Tick()

	battle, ok := e.Battle()
	require.True(t, ok)
	assert.Equal(t, scene.CharacterID("cellar-rat"), battle.Opponent)
	assert.Equal(t, 2, e.Modes().Depth())
}

func TestDanglingReferencesAreDropped(t *testing.T) {
	e := newTestEngine(t)

	// None of these may panic or corrupt state.
	e.Emit(event.Attack{Attacker: event.NPC("ghost"), Target: event.Player()})
	e.Emit(event.Damage{Target: event.NPC("ghost"), Amount: 5})
	e.Emit(event.UpdateNPC{ID: "ghost"})
	e.Emit(event.StartBattle{Opponent: "ghost"})
	e.Emit(event.DialogueInput{Kind: event.InputSelect})
	e.Tick()

	assert.Equal(t, mode.Map, currentMode(t, e))
	_, ok := e.Battle()
	assert.False(t, ok)
	assert.Equal(t, float64(entity.MaxHealth), e.World().Player().Health())
}

func TestAttackFromDeadEntityIsDropped(t *testing.T) {
	e := newTestEngine(t)
	e.World().SpawnNPC("cellar-rat", scene.Character{Name: "Cellar Rat"})

	rat, ok := e.World().NPC("cellar-rat")
	require.True(t, ok)
	rat.Entity.ApplyDamage(50)

	e.Emit(event.Attack{Attacker: event.NPC("cellar-rat"), Target: event.Player()})
	e.Tick()
	assert.Equal(t, float64(entity.MaxHealth), e.World().Player().Health())
}

func TestSpawnIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	require.True(t, e.World().SpawnNPC("cellar-rat", scene.Character{Name: "Cellar Rat"}))

	rat, ok := e.World().NPC("cellar-rat")
	require.True(t, ok)
	rat.Entity.ApplyDamage(5)

	// Replaying a spawn must not reset combat state.
	assert.False(t, e.World().SpawnNPC("cellar-rat", scene.Character{Name: "Cellar Rat"}))
	rat, ok = e.World().NPC("cellar-rat")
	require.True(t, ok)
	assert.Equal(t, 15.0, rat.Entity.Health())
}

func TestUpdateNPCPartial(t *testing.T) {
	e := newTestEngine(t)
	e.World().SpawnNPC("mike", scene.Character{Name: "Mike", Image: "old.png"})

	name := "Michael"
	e.Emit(event.UpdateNPC{ID: "mike", Update: scene.CharacterUpdate{Name: &name}})
	e.Tick()

	npc, ok := e.World().NPC("mike")
	require.True(t, ok)
	assert.Equal(t, "Michael", npc.Name)
	assert.Equal(t, "old.png", npc.Image)
	assert.Equal(t, "Michael", npc.Entity.Name())
}
