// Package engine runs the single-threaded game tick: it drains queued
// events into per-type buckets and processes them in a fixed pipeline
// order, so one tick's combat, dialogue, and scene transitions always
// resolve the same way regardless of emission order.
package engine

import (
	"go.uber.org/zap"

	"thornvale/internal/config"
	"thornvale/internal/game/entity"
	"thornvale/internal/game/event"
	"thornvale/internal/game/item"
	"thornvale/internal/game/mode"
	"thornvale/internal/game/scene"
)

// Battle is the active battle state.
type Battle struct {
	Opponent scene.CharacterID
}

// buckets hold one tick's events, grouped by type. Repeatable events keep
// their emission order within a bucket; singleton events keep only the last
// emission.
type buckets struct {
	attacks     []event.Attack
	damage      []event.Damage
	deaths      []event.Death
	inputs      []event.DialogueInput
	commands    []event.ExecuteCommands
	spawns      []event.SpawnNPC
	updates     []event.UpdateNPC
	rewards     []event.RewardGold
	endBattle   bool
	endScene    bool
	playScene   *event.PlayScene
	startBattle *event.StartBattle
}

// Engine owns the world, the interaction mode stack, the active dialogue
// player and battle, and the event queue. All methods must be called from
// one goroutine.
type Engine struct {
	log      *zap.Logger
	cfg      config.GameConfig
	world    *World
	catalog  *item.Catalog
	scenes   *scene.Manager
	modes    *mode.Stack
	queue    []event.Event
	tick     *buckets
	dialogue *scene.Player
	battle   *Battle
	gameOver bool
}

// New creates an engine in map mode.
func New(log *zap.Logger, cfg config.GameConfig, world *World, catalog *item.Catalog, scenes *scene.Manager) *Engine {
	return &Engine{
		log:     log,
		cfg:     cfg,
		world:   world,
		catalog: catalog,
		scenes:  scenes,
		modes:   mode.NewStack(mode.Map),
	}
}

// World returns the engine's world.
func (e *Engine) World() *World { return e.world }

// Modes returns the interaction mode stack.
func (e *Engine) Modes() *mode.Stack { return e.modes }

// Battle returns the active battle, if any.
func (e *Engine) Battle() (*Battle, bool) { return e.battle, e.battle != nil }

// Dialogue returns the active scene player, if any.
func (e *Engine) Dialogue() (*scene.Player, bool) { return e.dialogue, e.dialogue != nil }

// GameOver reports whether the player has died.
func (e *Engine) GameOver() bool { return e.gameOver }

// Emit queues an event for the next tick.
func (e *Engine) Emit(ev event.Event) {
	e.queue = append(e.queue, ev)
}

// DialogueView returns the render view of the active dialogue, if any.
func (e *Engine) DialogueView() (*scene.View, error) {
	if e.dialogue == nil {
		return nil, nil
	}
	return e.dialogue.Current(e.sink())
}

// Tick drains the queue and processes the batch. Events emitted by handlers
// during the tick land in the same batch when their pipeline stage has not
// run yet, otherwise they wait for the next tick.
func (e *Engine) Tick() {
	e.tick = &buckets{}
	drained := e.queue
	e.queue = nil
	for _, ev := range drained {
		e.bucket(ev)
	}

	b := e.tick
	for i := 0; i < len(b.attacks); i++ {
		e.handleAttack(b.attacks[i])
	}
	for i := 0; i < len(b.damage); i++ {
		e.handleDamage(b.damage[i])
	}
	for i := 0; i < len(b.deaths); i++ {
		e.handleDeath(b.deaths[i])
	}
	for i := 0; i < len(b.inputs); i++ {
		e.handleInput(b.inputs[i])
	}
	for i := 0; i < len(b.commands); i++ {
		e.handleCommands(b.commands[i])
	}
	for i := 0; i < len(b.spawns); i++ {
		e.world.SpawnNPC(b.spawns[i].ID, b.spawns[i].Character)
	}
	for i := 0; i < len(b.updates); i++ {
		if !e.world.UpdateNPC(b.updates[i].ID, b.updates[i].Update) {
			e.log.Warn("update for unspawned npc dropped", zap.String("npc", string(b.updates[i].ID)))
		}
	}
	for i := 0; i < len(b.rewards); i++ {
		e.handleReward(b.rewards[i])
	}
	if b.endBattle {
		e.handleEndBattle()
	}
	if b.endScene {
		e.handleEndScene()
	}
	if b.playScene != nil {
		e.handlePlayScene(*b.playScene)
	}
	if b.startBattle != nil {
		e.handleStartBattle(*b.startBattle)
	}
	e.tick = nil

	if e.cfg.Debug {
		e.logState()
	}
}

// bucket routes one event into the current batch, enforcing singleton
// multiplicity where it applies.
func (e *Engine) bucket(ev event.Event) {
	b := e.tick
	switch ev := ev.(type) {
	case event.Attack:
		b.attacks = append(b.attacks, ev)
	case event.Damage:
		b.damage = append(b.damage, ev)
	case event.Death:
		b.deaths = append(b.deaths, ev)
	case event.DialogueInput:
		b.inputs = append(b.inputs, ev)
	case event.ExecuteCommands:
		b.commands = append(b.commands, ev)
	case event.SpawnNPC:
		b.spawns = append(b.spawns, ev)
	case event.UpdateNPC:
		b.updates = append(b.updates, ev)
	case event.RewardGold:
		b.rewards = append(b.rewards, ev)
	case event.PlayScene:
		if b.playScene != nil {
			e.log.Warn("play-scene superseded in same tick",
				zap.String("dropped", string(b.playScene.Scene)),
				zap.String("kept", string(ev.Scene)))
		}
		b.playScene = &ev
	case event.StartBattle:
		if b.startBattle != nil {
			e.log.Warn("start-battle superseded in same tick",
				zap.String("dropped", string(b.startBattle.Opponent)),
				zap.String("kept", string(ev.Opponent)))
		}
		b.startBattle = &ev
	case event.EndBattle:
		b.endBattle = true
	case event.EndScene:
		b.endScene = true
	default:
		e.log.Warn("unknown event dropped", zap.Any("event", ev))
	}
}

func (e *Engine) handleAttack(ev event.Attack) {
	attacker, err := e.world.Resolve(ev.Attacker)
	if err != nil {
		e.log.Warn("attack dropped", zap.Error(err))
		return
	}
	if attacker.IsDead() {
		e.log.Debug("attack from dead entity dropped", zap.Stringer("attacker", ev.Attacker))
		return
	}
	amount := attacker.AttackDamage(e.catalog, e.cfg.UnarmedDamage)
	e.log.Debug("attack resolved",
		zap.Stringer("attacker", ev.Attacker),
		zap.Stringer("target", ev.Target),
		zap.Float64("damage", amount))
	e.tick.damage = append(e.tick.damage, event.Damage{Target: ev.Target, Amount: amount})
}

func (e *Engine) handleDamage(ev event.Damage) {
	target, err := e.world.Resolve(ev.Target)
	if err != nil {
		e.log.Warn("damage dropped", zap.Error(err))
		return
	}
	wasAlive := target.IsAlive()
	reduced, status := target.ApplyDamage(ev.Amount)
	e.log.Info("damage applied",
		zap.Stringer("target", ev.Target),
		zap.Float64("raw", ev.Amount),
		zap.Float64("reduced", reduced),
		zap.Float64("health", target.Health()))
	if wasAlive && status == entity.Dead {
		e.tick.deaths = append(e.tick.deaths, event.Death{Target: ev.Target})
	}
}

func (e *Engine) handleDeath(ev event.Death) {
	e.log.Info("entity died", zap.Stringer("target", ev.Target))
	if ev.Target.IsPlayer {
		e.gameOver = true
		return
	}
	e.world.RemoveNPC(ev.Target.NPC)
	if e.battle != nil && e.battle.Opponent == ev.Target.NPC {
		e.tick.endBattle = true
	}
}

func (e *Engine) handleInput(ev event.DialogueInput) {
	if e.dialogue == nil {
		e.log.Warn("dialogue input with no active scene dropped")
		return
	}
	current, err := e.modes.Current()
	if err != nil || current != mode.Dialogue {
		e.log.Debug("dialogue input outside dialogue mode dropped")
		return
	}
	sink := e.sink()
	switch ev.Kind {
	case event.InputUp:
		err = e.dialogue.MoveUp()
	case event.InputDown:
		err = e.dialogue.MoveDown()
	case event.InputHover:
		err = e.dialogue.MoveTo(ev.Index)
	case event.InputClick:
		err = e.dialogue.Select(ev.Index, sink)
	case event.InputSelect:
		err = e.dialogue.SelectCurrent(sink)
	default:
		e.log.Warn("unknown dialogue input dropped", zap.Int("kind", int(ev.Kind)))
		return
	}
	if err != nil {
		e.log.Error("dialogue input failed", zap.Error(err))
		return
	}
	e.refreshDialogue()
}

func (e *Engine) handleCommands(ev event.ExecuteCommands) {
	if ev.Commands == nil {
		return
	}
	ev.Commands.Execute(e.scenes, e.sink(), e.log)
}

func (e *Engine) handleReward(ev event.RewardGold) {
	e.world.Player().AddGold(ev.Amount)
	e.log.Info("gold rewarded",
		zap.Int("amount", ev.Amount),
		zap.String("from", string(ev.From)),
		zap.Int("balance", e.world.Player().Gold()))
}

func (e *Engine) handleEndBattle() {
	if e.battle == nil {
		e.log.Warn("end-battle with no active battle dropped")
		return
	}
	if err := e.modes.Pop(mode.Battle); err != nil {
		e.log.Error("ending battle", zap.Error(err))
		return
	}
	e.log.Info("battle ended", zap.String("opponent", string(e.battle.Opponent)))
	e.battle = nil
}

func (e *Engine) handleEndScene() {
	if e.dialogue == nil {
		e.log.Warn("end-scene with no active scene dropped")
		return
	}
	if err := e.modes.Pop(mode.Dialogue); err != nil {
		e.log.Error("ending scene", zap.Error(err))
		return
	}
	e.log.Info("scene ended", zap.String("scene", string(e.dialogue.SceneID())))
	e.dialogue = nil
}

func (e *Engine) handlePlayScene(ev event.PlayScene) {
	if e.dialogue != nil {
		e.log.Warn("play-scene while a scene is active dropped",
			zap.String("active", string(e.dialogue.SceneID())),
			zap.String("requested", string(ev.Scene)))
		return
	}
	player, err := e.scenes.Play(ev.Scene, e.sink())
	if err != nil {
		e.log.Error("playing scene", zap.Error(err))
		return
	}
	e.modes.Push(mode.Dialogue)
	e.dialogue = player
	e.refreshDialogue()
}

func (e *Engine) handleStartBattle(ev event.StartBattle) {
	if e.battle != nil {
		e.log.Warn("start-battle while a battle is active dropped",
			zap.String("active", string(e.battle.Opponent)),
			zap.String("requested", string(ev.Opponent)))
		return
	}
	if _, ok := e.world.NPC(ev.Opponent); !ok {
		e.log.Error("start-battle against unspawned npc dropped", zap.String("opponent", string(ev.Opponent)))
		return
	}
	e.modes.Push(mode.Battle)
	e.battle = &Battle{Opponent: ev.Opponent}
	e.log.Info("battle started", zap.String("opponent", string(ev.Opponent)))
}

// refreshDialogue resolves the cursor once after an input or scene start.
// A nil view is the commands-only pass-through: the node's commands have
// already been dispatched by Current, and selecting past it ends the scene.
func (e *Engine) refreshDialogue() {
	if e.dialogue == nil {
		return
	}
	sink := e.sink()
	view, err := e.dialogue.Current(sink)
	if err != nil {
		e.log.Error("resolving dialogue cursor", zap.Error(err))
		e.tick.endScene = true
		return
	}
	if view == nil {
		if err := e.dialogue.SelectCurrent(sink); err != nil {
			e.log.Error("advancing past commands-only node", zap.Error(err))
			e.tick.endScene = true
		}
	}
}

func (e *Engine) sink() scene.Sink {
	return engineSink{e: e}
}

func (e *Engine) logState() {
	current, _ := e.modes.Current()
	fields := []zap.Field{
		zap.String("mode", string(current)),
		zap.Int("mode_depth", e.modes.Depth()),
		zap.Float64("player_health", e.world.Player().Health()),
		zap.Int("player_gold", e.world.Player().Gold()),
		zap.Int("npcs", len(e.world.NPCIDs())),
	}
	if e.dialogue != nil {
		fields = append(fields,
			zap.String("scene", string(e.dialogue.SceneID())),
			zap.String("section", string(e.dialogue.Section())),
			zap.Int("line", e.dialogue.LineIndex()),
			zap.Int("highlighted", e.dialogue.Highlighted()))
	}
	if e.battle != nil {
		fields = append(fields, zap.String("battle", string(e.battle.Opponent)))
	}
	e.log.Debug("tick state", fields...)
}

// engineSink routes scene command signals back into the engine. Spawns,
// updates, and rewards apply immediately so a scene's own characters exist
// before its first line renders; battle and scene lifecycle signals are
// deferred to their pipeline stage in the current tick.
type engineSink struct {
	e *Engine
}

func (s engineSink) RewardGold(amount int, from scene.CharacterID) {
	s.e.handleReward(event.RewardGold{Amount: amount, From: from})
}

func (s engineSink) SpawnNPC(id scene.CharacterID, c scene.Character) {
	if !s.e.world.SpawnNPC(id, c) {
		s.e.log.Debug("npc already spawned", zap.String("npc", string(id)))
	}
}

func (s engineSink) UpdateNPC(id scene.CharacterID, update scene.CharacterUpdate) {
	if !s.e.world.UpdateNPC(id, update) {
		s.e.log.Warn("update for unspawned npc dropped", zap.String("npc", string(id)))
	}
}

func (s engineSink) StartBattle(opponent scene.CharacterID) {
	if s.e.tick == nil {
		s.e.Emit(event.StartBattle{Opponent: opponent})
		return
	}
	s.e.bucket(event.StartBattle{Opponent: opponent})
}

func (s engineSink) EndScene() {
	if s.e.tick == nil {
		s.e.Emit(event.EndScene{})
		return
	}
	s.e.tick.endScene = true
}
