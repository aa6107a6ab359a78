package entity

import (
	"sort"

	"thornvale/internal/game/item"
)

// Inventory owns the item instances held by exactly one entity.
// Instance ids from another entity's inventory are never valid here.
type Inventory struct {
	items map[item.InstanceID]item.Instance
}

// NewInventory returns an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{items: make(map[item.InstanceID]item.Instance)}
}

// Insert takes ownership of an instance and returns its id.
func (inv *Inventory) Insert(inst item.Instance) item.InstanceID {
	inv.items[inst.InstanceID()] = inst
	return inst.InstanceID()
}

// Get returns the instance with the given id, if held.
func (inv *Inventory) Get(id item.InstanceID) (item.Instance, bool) {
	inst, ok := inv.items[id]
	return inst, ok
}

// Remove drops the instance with the given id from the inventory,
// destroying the entity's ownership of it.
//
// Postcondition: returns the removed instance and true when it was held.
func (inv *Inventory) Remove(id item.InstanceID) (item.Instance, bool) {
	inst, ok := inv.items[id]
	if ok {
		delete(inv.items, id)
	}
	return inst, ok
}

// Contains reports whether the inventory holds the given instance.
func (inv *Inventory) Contains(id item.InstanceID) bool {
	_, ok := inv.items[id]
	return ok
}

// Len returns the number of held instances.
func (inv *Inventory) Len() int {
	return len(inv.items)
}

// Instances returns all held instances ordered by instance id, for
// deterministic display.
func (inv *Inventory) Instances() []item.Instance {
	out := make([]item.Instance, 0, len(inv.items))
	for _, inst := range inv.items {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].InstanceID() < out[j].InstanceID()
	})
	return out
}
