// Package event defines the messages that drive the game engine's tick
// pipeline. Events are plain values; the engine owns all ordering and
// multiplicity rules.
package event

import "thornvale/internal/game/scene"

// Event is implemented by every engine event.
type Event interface {
	event()
}

// EntityRef addresses either the player or a spawned NPC.
type EntityRef struct {
	IsPlayer bool
	NPC      scene.CharacterID
}

// Player returns a reference to the player entity.
func Player() EntityRef { return EntityRef{IsPlayer: true} }

// NPC returns a reference to the named NPC.
func NPC(id scene.CharacterID) EntityRef { return EntityRef{NPC: id} }

// String renders the reference for logs.
func (r EntityRef) String() string {
	if r.IsPlayer {
		return "player"
	}
	return string(r.NPC)
}

// Attack is a request for Attacker to strike Target; the engine resolves
// it into a Damage event using the attacker's equipped weapon.
type Attack struct {
	Attacker EntityRef
	Target   EntityRef
}

// Damage applies raw damage to a target. Resistance is applied by the
// target entity when the event is handled.
type Damage struct {
	Target EntityRef
	Amount float64
}

// Death reports that an entity died this tick.
type Death struct {
	Target EntityRef
}

// PlayScene requests that a scene start. Singleton per tick.
type PlayScene struct {
	Scene scene.ID
}

// EndScene requests that the active scene end. Singleton per tick.
type EndScene struct{}

// ExecuteCommands carries a command payload detached from any scene
// bookmark, such as a map action trigger. Commands are executed directly;
// at-most-once tracking is the emitter's concern.
type ExecuteCommands struct {
	Commands *scene.Commands
}

// StartBattle requests a battle against the named NPC. Singleton per tick.
type StartBattle struct {
	Opponent scene.CharacterID
}

// EndBattle requests that the active battle end. Singleton per tick.
type EndBattle struct{}

// SpawnNPC materializes a character definition as an NPC.
type SpawnNPC struct {
	ID        scene.CharacterID
	Character scene.Character
}

// UpdateNPC applies a partial update to a spawned NPC.
type UpdateNPC struct {
	ID     scene.CharacterID
	Update scene.CharacterUpdate
}

// RewardGold credits gold to the player on behalf of a character.
type RewardGold struct {
	Amount int
	From   scene.CharacterID
}

// DialogueInputKind is one dialogue navigation gesture.
type DialogueInputKind int

// The dialogue navigation gestures.
const (
	// InputSelect selects the highlighted response or advances the line.
	InputSelect DialogueInputKind = iota
	// InputUp moves the response highlight up.
	InputUp
	// InputDown moves the response highlight down.
	InputDown
	// InputHover sets the response highlight directly.
	InputHover
	// InputClick sets the highlight and selects in one gesture.
	InputClick
)

// DialogueInput is a player navigation gesture routed to the active scene
// player. Index is meaningful for InputHover and InputClick only.
type DialogueInput struct {
	Kind  DialogueInputKind
	Index int
}

func (Attack) event()          {}
func (Damage) event()          {}
func (Death) event()           {}
func (PlayScene) event()       {}
func (EndScene) event()        {}
func (ExecuteCommands) event() {}
func (StartBattle) event()     {}
func (EndBattle) event()       {}
func (SpawnNPC) event()        {}
func (UpdateNPC) event()       {}
func (RewardGold) event()      {}
func (DialogueInput) event()   {}
