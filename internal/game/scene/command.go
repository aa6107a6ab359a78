package scene

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Sink receives the externally-visible signals this core emits. The
// surrounding event layer translates them into world mutations.
type Sink interface {
	// RewardGold credits gold to the player on behalf of a character.
	RewardGold(amount int, from CharacterID)
	// SpawnNPC materializes a character definition as an NPC.
	SpawnNPC(id CharacterID, c Character)
	// UpdateNPC applies a partial update to a spawned NPC.
	UpdateNPC(id CharacterID, update CharacterUpdate)
	// StartBattle begins a battle against the named NPC.
	StartBattle(opponent CharacterID)
	// EndScene signals that the active scene is over; the owner tears the
	// player down.
	EndScene()
}

// RewardGold grants the player gold on behalf of a character.
type RewardGold struct {
	Amount int         `yaml:"amount"`
	From   CharacterID `yaml:"from"`
}

// Commands is a declarative side-effecting payload attached to scenes,
// lines, responses, and map actions. Reserved fields parse but are no-ops,
// so newer content packs keep loading on older builds.
type Commands struct {
	RewardGold       *RewardGold                     `yaml:"reward-gold"`
	UpdateCharacters map[CharacterID]CharacterUpdate `yaml:"update-characters"`
	SceneEntry       map[ID]SectionID                `yaml:"scene-entry"`
	Variables        map[string]string               `yaml:"variables"`
	// Vars is an accepted alias for Variables in content files.
	Vars   map[string]string `yaml:"vars"`
	Battle *CharacterID      `yaml:"battle"`
	// Reserved commands: accepted by the schema, dispatched as no-ops.
	KillCharacter *yaml.Node `yaml:"kill-character"`
	SetQuestStage *yaml.Node `yaml:"set-quest-stage"`
	CompleteQuest *yaml.Node `yaml:"complete-quest"`
}

// Validate checks the payload invariants.
//
// Postcondition: returns nil iff the payload is well formed.
func (c *Commands) Validate() error {
	if c.Variables != nil && c.Vars != nil {
		return errors.New("variables and vars are aliases, set only one")
	}
	if c.RewardGold != nil {
		if c.RewardGold.Amount < 0 {
			return fmt.Errorf("reward-gold: amount must be >= 0, got %d", c.RewardGold.Amount)
		}
		if c.RewardGold.From == "" {
			return errors.New("reward-gold: from must not be empty")
		}
	}
	if c.Battle != nil && *c.Battle == "" {
		return errors.New("battle: opponent must not be empty")
	}
	return nil
}

// variables returns the variable merge payload regardless of which alias
// the content used.
func (c *Commands) variables() map[string]string {
	if c.Variables != nil {
		return c.Variables
	}
	return c.Vars
}

// Execute interprets the payload against manager state and emits boundary
// signals through the sink. Callers are responsible for at-most-once
// dispatch; Execute itself is not idempotent.
func (c *Commands) Execute(mgr *Manager, sink Sink, log *zap.Logger) {
	if c.RewardGold != nil {
		sink.RewardGold(c.RewardGold.Amount, c.RewardGold.From)
	}
	if len(c.UpdateCharacters) > 0 {
		for _, id := range sortedCharacterIDs(c.UpdateCharacters) {
			sink.UpdateNPC(id, c.UpdateCharacters[id])
		}
	}
	if len(c.SceneEntry) > 0 {
		log.Info("updating scene entry points", zap.Int("count", len(c.SceneEntry)))
		for scene, section := range c.SceneEntry {
			mgr.UpdateEntry(scene, section)
		}
	}
	if vars := c.variables(); len(vars) > 0 {
		log.Info("updating variables", zap.Int("count", len(vars)))
		mgr.UpdateVariables(vars)
	}
	if c.Battle != nil {
		sink.StartBattle(*c.Battle)
	}
	// kill-character, set-quest-stage, complete-quest: reserved, no-ops.
}

// Definitions are entity definitions embedded in scene or map content,
// materialized when the content is entered. Vendors and quests are
// reserved placeholders.
type Definitions struct {
	Characters map[CharacterID]Character `yaml:"characters"`
	Vendors    *yaml.Node                `yaml:"vendors"`
	Quests     *yaml.Node                `yaml:"quests"`
}

// Spawn emits one SpawnNPC signal per defined character, in deterministic
// id order.
func (d *Definitions) Spawn(sink Sink) {
	ids := make([]CharacterID, 0, len(d.Characters))
	for id := range d.Characters {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		sink.SpawnNPC(id, d.Characters[id])
	}
}

func sortedCharacterIDs(m map[CharacterID]CharacterUpdate) []CharacterID {
	ids := make([]CharacterID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
