package engine

import (
	"fmt"
	"sort"

	"thornvale/internal/game/entity"
	"thornvale/internal/game/event"
	"thornvale/internal/game/scene"
)

// NPC is a spawned non-player character: its presentation fields plus a
// combat entity.
type NPC struct {
	ID     scene.CharacterID
	Name   string
	Image  string
	Voice  string
	Entity *entity.Entity
}

// World holds the live actors of a running game: the player entity and the
// spawned NPCs. Not safe for concurrent use; the engine owns it.
type World struct {
	player *entity.Entity
	npcs   map[scene.CharacterID]*NPC
}

// NewWorld creates a world around the given player entity.
func NewWorld(player *entity.Entity) *World {
	return &World{
		player: player,
		npcs:   make(map[scene.CharacterID]*NPC),
	}
}

// Player returns the player entity.
func (w *World) Player() *entity.Entity { return w.player }

// NPC returns a spawned NPC by id.
func (w *World) NPC(id scene.CharacterID) (*NPC, bool) {
	n, ok := w.npcs[id]
	return n, ok
}

// NPCIDs returns the spawned NPC ids in sorted order.
func (w *World) NPCIDs() []scene.CharacterID {
	ids := make([]scene.CharacterID, 0, len(w.npcs))
	for id := range w.npcs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SpawnNPC materializes a character definition. Spawning an id that already
// exists is a no-op so replayed scenes do not reset NPC combat state.
//
// Postcondition: returns false iff the id was already spawned.
func (w *World) SpawnNPC(id scene.CharacterID, c scene.Character) bool {
	if _, ok := w.npcs[id]; ok {
		return false
	}
	name := c.Name
	if name == "" {
		name = string(id)
	}
	w.npcs[id] = &NPC{
		ID:     id,
		Name:   name,
		Image:  c.Image,
		Voice:  c.Voice,
		Entity: entity.New(name),
	}
	return true
}

// UpdateNPC applies a partial update to a spawned NPC. Nil fields are left
// unchanged.
//
// Postcondition: returns false iff the id is not spawned.
func (w *World) UpdateNPC(id scene.CharacterID, update scene.CharacterUpdate) bool {
	n, ok := w.npcs[id]
	if !ok {
		return false
	}
	if update.Name != nil {
		n.Name = *update.Name
		n.Entity.SetName(*update.Name)
	}
	if update.Image != nil {
		n.Image = *update.Image
	}
	if update.Voice != nil {
		n.Voice = *update.Voice
	}
	return true
}

// RemoveNPC despawns an NPC.
func (w *World) RemoveNPC(id scene.CharacterID) {
	delete(w.npcs, id)
}

// Resolve maps an entity reference to its live entity.
func (w *World) Resolve(ref event.EntityRef) (*entity.Entity, error) {
	if ref.IsPlayer {
		return w.player, nil
	}
	n, ok := w.npcs[ref.NPC]
	if !ok {
		return nil, fmt.Errorf("entity reference %q does not resolve to a spawned npc", ref.NPC)
	}
	return n.Entity, nil
}
