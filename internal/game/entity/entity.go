package entity

import (
	"errors"
	"fmt"

	"thornvale/internal/game/item"
)

// MaxHealth is the health cap for every entity.
// TODO: derive from stats once the stat system lands.
const MaxHealth = 20.0

// DefaultUnarmedDamage is the attack damage dealt with no weapon equipped.
const DefaultUnarmedDamage = 1.0

// LifeStatus is the result of a damage application.
type LifeStatus int

const (
	// Alive means the entity still has health remaining.
	Alive LifeStatus = iota
	// Dead is the terminal state; there is no resurrection path.
	Dead
)

// String returns the lowercase status name.
func (s LifeStatus) String() string {
	if s == Dead {
		return "dead"
	}
	return "alive"
}

// Equip error conditions.
var (
	// ErrNotInInventory means the instance is not held by this entity.
	ErrNotInInventory = errors.New("instance not in this entity's inventory")
	// ErrNotEquippable means the instance's kind cannot be equipped.
	ErrNotEquippable = errors.New("item kind is not equippable")
)

// ResistanceFunc reduces raw incoming damage based on equipped armor.
// The default pass-through applies no reduction; resistance math is a
// future extension point and must not invent balancing here.
type ResistanceFunc func(raw float64, armor *ArmorSlots) float64

// Entity is a combat-capable actor: health, equipment, and an owned inventory.
type Entity struct {
	name       string
	damage     float64
	weapon     item.InstanceID
	shield     item.InstanceID
	armor      *ArmorSlots
	inventory  *Inventory
	gold       int
	resistance ResistanceFunc
}

// New returns a healthy, unequipped entity with an empty inventory.
func New(name string) *Entity {
	return &Entity{
		name:      name,
		armor:     NewArmorSlots(),
		inventory: NewInventory(),
	}
}

// Name returns the entity's display name.
func (e *Entity) Name() string { return e.name }

// SetName updates the entity's display name.
func (e *Entity) SetName(name string) { e.name = name }

// String implements fmt.Stringer.
func (e *Entity) String() string { return e.name }

// Inventory returns the entity's owned inventory.
func (e *Entity) Inventory() *Inventory { return e.inventory }

// Armor returns the entity's armor slots.
func (e *Entity) Armor() *ArmorSlots { return e.armor }

// Weapon returns the equipped weapon instance, if any.
func (e *Entity) Weapon() (item.InstanceID, bool) {
	return e.weapon, e.weapon != ""
}

// Shield returns the equipped shield instance, if any.
func (e *Entity) Shield() (item.InstanceID, bool) {
	return e.shield, e.shield != ""
}

// Gold returns the entity's gold balance.
func (e *Entity) Gold() int { return e.gold }

// AddGold credits gold to the entity.
//
// Precondition: amount must be >= 0.
func (e *Entity) AddGold(amount int) {
	if amount < 0 {
		return
	}
	e.gold += amount
}

// SetResistance installs a damage reduction function. A nil fn restores the
// pass-through default.
func (e *Entity) SetResistance(fn ResistanceFunc) { e.resistance = fn }

// Equip equips the given instance from this entity's own inventory.
// Apparel goes to its declared armor slot, weapons and shields to their
// dedicated single slots. Food and potions are not equippable.
//
// Postcondition: on error no slot is mutated. A previous occupant of the
// target slot is dropped from the slot but remains in the inventory.
func (e *Entity) Equip(id item.InstanceID) error {
	inst, ok := e.inventory.Get(id)
	if !ok {
		return fmt.Errorf("equip %s: %w", id, ErrNotInInventory)
	}
	kind := inst.Kind()
	switch kind.Class {
	case item.ClassApparel:
		e.armor.Set(kind.Slot, id)
	case item.ClassWeapon:
		e.weapon = id
	case item.ClassShield:
		e.shield = id
	default:
		return fmt.Errorf("equip %s (%s): %w", id, kind.Class, ErrNotEquippable)
	}
	return nil
}

// IsEquipped reports whether the given instance occupies any equip slot.
func (e *Entity) IsEquipped(id item.InstanceID) bool {
	return e.weapon == id || e.shield == id || e.armor.Contains(id)
}

// ApplyDamage applies raw damage through the resistance seam and advances
// the life-status state machine.
//
// Postcondition: cumulative damage never exceeds MaxHealth; once Dead the
// entity stays Dead and further calls keep clamping.
func (e *Entity) ApplyDamage(raw float64) (float64, LifeStatus) {
	reduced := raw
	if e.resistance != nil {
		reduced = e.resistance(raw, e.armor)
	}
	e.damage += reduced

	if e.damage < MaxHealth {
		return reduced, Alive
	}
	e.damage = MaxHealth
	return reduced, Dead
}

// MaxHealth returns the entity's health cap.
func (e *Entity) MaxHealth() float64 { return MaxHealth }

// Health returns the remaining health.
//
// Postcondition: the result is in [0, MaxHealth].
func (e *Entity) Health() float64 { return MaxHealth - e.damage }

// IsAlive reports whether the entity has health remaining.
func (e *Entity) IsAlive() bool { return e.Health() > 0 }

// IsDead reports whether the entity has died.
func (e *Entity) IsDead() bool { return !e.IsAlive() }

// AttackDamage returns the damage this entity deals with its current
// equipment: the equipped weapon's damage attribute when the weapon
// resolves through the catalog, else the unarmed fallback. Pure function
// of equipment and catalog state.
func (e *Entity) AttackDamage(catalog *item.Catalog, unarmed float64) float64 {
	if e.weapon == "" {
		return unarmed
	}
	inst, ok := e.inventory.Get(e.weapon)
	if !ok {
		return unarmed
	}
	def, ok := catalog.Get(inst.ItemID())
	if !ok {
		return unarmed
	}
	weapon, ok := def.(*item.Weapon)
	if !ok {
		return unarmed
	}
	return float64(weapon.Damage())
}
