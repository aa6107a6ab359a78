// Package entity provides the combat entity model: armor slots, owned
// inventories, equipment, and the damage/death state machine.
package entity

import "thornvale/internal/game/item"

// ArmorSlots holds at most one equipped item instance per body slot.
// Slot occupants must reference instances present in the owning entity's
// inventory; the slots hold instance ids, never ownership.
type ArmorSlots struct {
	slots map[item.Slot]item.InstanceID
}

// NewArmorSlots returns an empty set of armor slots.
func NewArmorSlots() *ArmorSlots {
	return &ArmorSlots{slots: make(map[item.Slot]item.InstanceID)}
}

// Get returns the instance equipped in the given slot, if any.
func (a *ArmorSlots) Get(slot item.Slot) (item.InstanceID, bool) {
	id, ok := a.slots[slot]
	return id, ok
}

// Set equips an instance into the given slot.
//
// Postcondition: returns the previously equipped instance id and true when
// the slot was occupied. The evicted instance is only dropped from the slot;
// it is not destroyed.
func (a *ArmorSlots) Set(slot item.Slot, id item.InstanceID) (item.InstanceID, bool) {
	prev, had := a.slots[slot]
	a.slots[slot] = id
	return prev, had
}

// Remove clears the given slot.
//
// Postcondition: returns the removed instance id and true when the slot was occupied.
func (a *ArmorSlots) Remove(slot item.Slot) (item.InstanceID, bool) {
	prev, had := a.slots[slot]
	delete(a.slots, slot)
	return prev, had
}

// Contains reports whether any slot holds the given instance.
func (a *ArmorSlots) Contains(id item.InstanceID) bool {
	for _, occupant := range a.slots {
		if occupant == id {
			return true
		}
	}
	return false
}

// Len returns the number of occupied slots.
func (a *ArmorSlots) Len() int {
	return len(a.slots)
}
