// Package item provides the item catalog: static item definitions loaded from
// content files, and uniquely identified spawned instances of them.
package item

// ID is the stable content identifier of an item definition.
type ID string

// Class discriminates the five item definition kinds.
type Class string

const (
	// ClassApparel is wearable armor occupying a body slot.
	ClassApparel Class = "apparel"
	// ClassWeapon is an equippable weapon.
	ClassWeapon Class = "weapon"
	// ClassFood is a consumable that restores health.
	ClassFood Class = "food"
	// ClassPotion is a consumable with effects.
	ClassPotion Class = "potion"
	// ClassShield is an equippable off-hand shield.
	ClassShield Class = "shield"
)

// Slot identifies the body slot an apparel piece occupies.
type Slot string

const (
	// SlotHead is the head armor slot.
	SlotHead Slot = "head"
	// SlotBody is the body armor slot.
	SlotBody Slot = "body"
	// SlotFeet is the feet armor slot.
	SlotFeet Slot = "feet"
	// SlotHands is the hands armor slot.
	SlotHands Slot = "hands"
	// SlotShield is the shield armor slot, used by shield-slot apparel.
	SlotShield Slot = "shield"
)

// validSlots is the set of valid apparel slots.
var validSlots = map[Slot]bool{
	SlotHead:   true,
	SlotBody:   true,
	SlotFeet:   true,
	SlotHands:  true,
	SlotShield: true,
}

// Kind is the explicit tag cached on spawned instances for fast dispatch.
// Slot is set only when Class is ClassApparel.
type Kind struct {
	Class Class
	Slot  Slot
}

// Def is a static item definition owned by the catalog.
// Definitions are immutable after load.
type Def interface {
	ID() ID
	Name() string
	Value() int
	Weight() int
	Kind() Kind
}

// Apparel is wearable armor with a declared body slot.
type Apparel struct {
	id      ID
	name    string
	slot    Slot
	defense int
	weight  int
	value   int
}

// NewApparel constructs an apparel definition.
func NewApparel(id ID, name string, slot Slot, defense, weight, value int) *Apparel {
	return &Apparel{id: id, name: name, slot: slot, defense: defense, weight: weight, value: value}
}

func (a *Apparel) ID() ID       { return a.id }
func (a *Apparel) Name() string { return a.name }
func (a *Apparel) Value() int   { return a.value }
func (a *Apparel) Weight() int  { return a.weight }
func (a *Apparel) Kind() Kind   { return Kind{Class: ClassApparel, Slot: a.slot} }

// Slot returns the body slot this apparel occupies when equipped.
func (a *Apparel) Slot() Slot { return a.slot }

// Defense returns the defense rating.
func (a *Apparel) Defense() int { return a.defense }

// Weapon is an equippable weapon.
type Weapon struct {
	id     ID
	name   string
	damage int
	weight int
	value  int
}

// NewWeapon constructs a weapon definition.
func NewWeapon(id ID, name string, damage, weight, value int) *Weapon {
	return &Weapon{id: id, name: name, damage: damage, weight: weight, value: value}
}

func (w *Weapon) ID() ID       { return w.id }
func (w *Weapon) Name() string { return w.name }
func (w *Weapon) Value() int   { return w.value }
func (w *Weapon) Weight() int  { return w.weight }
func (w *Weapon) Kind() Kind   { return Kind{Class: ClassWeapon} }

// Damage returns the weapon's damage attribute.
func (w *Weapon) Damage() int { return w.damage }

// Food is a consumable that restores health points.
type Food struct {
	id     ID
	name   string
	hp     int
	weight int
	value  int
}

// NewFood constructs a food definition.
func NewFood(id ID, name string, hp, weight, value int) *Food {
	return &Food{id: id, name: name, hp: hp, weight: weight, value: value}
}

func (f *Food) ID() ID       { return f.id }
func (f *Food) Name() string { return f.name }
func (f *Food) Value() int   { return f.value }
func (f *Food) Weight() int  { return f.weight }
func (f *Food) Kind() Kind   { return Kind{Class: ClassFood} }

// HP returns the amount of health restored when eaten.
func (f *Food) HP() int { return f.hp }

// PotionEffects holds the effects applied when a potion is drunk.
type PotionEffects struct {
	// Health is the amount of health restored, if any.
	Health int
}

// Potion is a consumable with effects. Potions are weightless.
type Potion struct {
	id          ID
	name        string
	description string
	value       int
	effects     PotionEffects
}

// NewPotion constructs a potion definition.
func NewPotion(id ID, name, description string, value int, effects PotionEffects) *Potion {
	return &Potion{id: id, name: name, description: description, value: value, effects: effects}
}

func (p *Potion) ID() ID       { return p.id }
func (p *Potion) Name() string { return p.name }
func (p *Potion) Value() int   { return p.value }
func (p *Potion) Weight() int  { return 0 }
func (p *Potion) Kind() Kind   { return Kind{Class: ClassPotion} }

// Description returns the flavor text.
func (p *Potion) Description() string { return p.description }

// Effects returns the potion's effects.
func (p *Potion) Effects() PotionEffects { return p.effects }

// Shield is an equippable off-hand shield.
type Shield struct {
	id      ID
	name    string
	defense int
	weight  int
	value   int
}

// NewShield constructs a shield definition.
func NewShield(id ID, name string, defense, weight, value int) *Shield {
	return &Shield{id: id, name: name, defense: defense, weight: weight, value: value}
}

func (s *Shield) ID() ID       { return s.id }
func (s *Shield) Name() string { return s.name }
func (s *Shield) Value() int   { return s.value }
func (s *Shield) Weight() int  { return s.weight }
func (s *Shield) Kind() Kind   { return Kind{Class: ClassShield} }

// Defense returns the defense rating.
func (s *Shield) Defense() int { return s.defense }
