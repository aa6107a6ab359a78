package item

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// yamlItemFile is the top-level structure of an item definition file.
// Each of the five arrays is optional; the array an entry appears in
// determines its kind.
type yamlItemFile struct {
	Apparel []yamlApparel `yaml:"apparel"`
	Weapon  []yamlWeapon  `yaml:"weapon"`
	Food    []yamlFood    `yaml:"food"`
	Potion  []yamlPotion  `yaml:"potion"`
	Shield  []yamlShield  `yaml:"shield"`
}

type yamlApparel struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Slot    string `yaml:"slot"`
	Limb    string `yaml:"limb"` // accepted alias for slot
	Defense int    `yaml:"defense"`
	Weight  int    `yaml:"weight"`
	Value   int    `yaml:"value"`
}

type yamlWeapon struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Damage int    `yaml:"damage"`
	Weight int    `yaml:"weight"`
	Value  int    `yaml:"value"`
}

type yamlFood struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	HP     *int   `yaml:"hp"`
	HealHP *int   `yaml:"heal_HP"` // accepted alias for hp
	Weight int    `yaml:"weight"`
	Value  int    `yaml:"value"`
}

type yamlPotion struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Value       int    `yaml:"value"`
	Effects     struct {
		Health int `yaml:"health"`
	} `yaml:"effects"`
}

type yamlShield struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Defense int    `yaml:"defense"`
	Weight  int    `yaml:"weight"`
	Value   int    `yaml:"value"`
}

// Catalog owns all loaded item definitions for the process lifetime and
// mints instances of them.
type Catalog struct {
	log   *zap.Logger
	items map[ID]Def
}

// NewCatalog returns an empty catalog.
//
// Precondition: log must be non-nil.
func NewCatalog(log *zap.Logger) *Catalog {
	return &Catalog{
		log:   log,
		items: make(map[ID]Def),
	}
}

// LoadFile parses a single item definition file into the catalog.
// Duplicate ids, within or across files, overwrite silently: last load
// wins, which is what lets layered content packs shadow each other.
//
// Postcondition: on error the catalog is unchanged.
func (c *Catalog) LoadFile(path string) error {
	c.log.Info("loading items", zap.String("path", path))
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading item file %s: %w", path, err)
	}
	if err := c.LoadBytes(data); err != nil {
		return fmt.Errorf("loading item file %s: %w", path, err)
	}
	return nil
}

// LoadBytes parses item definitions from YAML bytes into the catalog.
// Unknown fields on any entry reject the whole file.
//
// Postcondition: on error the catalog is unchanged.
func (c *Catalog) LoadBytes(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var file yamlItemFile
	if err := dec.Decode(&file); err != nil {
		return fmt.Errorf("parsing item YAML: %w", err)
	}

	defs, err := convertYAMLItems(file)
	if err != nil {
		return err
	}
	for _, def := range defs {
		c.items[def.ID()] = def
	}
	return nil
}

// LoadDir loads every *.yaml / *.yml file in dir. Files that fail to parse
// are logged and skipped; definitions from earlier files remain loaded.
//
// Postcondition: returns an error only when the directory itself is unreadable.
func (c *Catalog) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading item directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		if err := c.LoadFile(filepath.Join(dir, entry.Name())); err != nil {
			c.log.Error("failed to load item file", zap.String("file", entry.Name()), zap.Error(err))
		}
	}
	return nil
}

// Get returns the definition for the given id, if loaded.
func (c *Catalog) Get(id ID) (Def, bool) {
	def, ok := c.items[id]
	return def, ok
}

// Len returns the number of loaded definitions.
func (c *Catalog) Len() int {
	return len(c.items)
}

// IDs returns all loaded definition ids in their total (lexicographic) order.
func (c *Catalog) IDs() []ID {
	ids := make([]ID, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Spawn mints a new instance of the definition with the given id.
//
// Postcondition: returns (instance, true) with a fresh unique instance id,
// or (zero, false) with a logged warning when the id is unknown.
func (c *Catalog) Spawn(id ID) (Instance, bool) {
	def, ok := c.items[id]
	if !ok {
		c.log.Warn("no item with id", zap.String("item", string(id)))
		return Instance{}, false
	}
	return NewInstance(id, def.Kind()), true
}

func convertYAMLItems(file yamlItemFile) ([]Def, error) {
	var defs []Def
	for i, y := range file.Apparel {
		slot := y.Slot
		switch {
		case y.Slot != "" && y.Limb != "":
			return nil, fmt.Errorf("apparel[%d] %q: slot and limb are aliases, set only one", i, y.ID)
		case slot == "":
			slot = y.Limb
		}
		if err := validateEntry("apparel", i, y.ID, y.Name); err != nil {
			return nil, err
		}
		if !validSlots[Slot(slot)] {
			return nil, fmt.Errorf("apparel[%d] %q: invalid slot %q", i, y.ID, slot)
		}
		defs = append(defs, NewApparel(ID(y.ID), y.Name, Slot(slot), y.Defense, y.Weight, y.Value))
	}
	for i, y := range file.Weapon {
		if err := validateEntry("weapon", i, y.ID, y.Name); err != nil {
			return nil, err
		}
		defs = append(defs, NewWeapon(ID(y.ID), y.Name, y.Damage, y.Weight, y.Value))
	}
	for i, y := range file.Food {
		if err := validateEntry("food", i, y.ID, y.Name); err != nil {
			return nil, err
		}
		var hp int
		switch {
		case y.HP != nil && y.HealHP != nil:
			return nil, fmt.Errorf("food[%d] %q: hp and heal_HP are aliases, set only one", i, y.ID)
		case y.HP != nil:
			hp = *y.HP
		case y.HealHP != nil:
			hp = *y.HealHP
		default:
			return nil, fmt.Errorf("food[%d] %q: hp is required", i, y.ID)
		}
		defs = append(defs, NewFood(ID(y.ID), y.Name, hp, y.Weight, y.Value))
	}
	for i, y := range file.Potion {
		if err := validateEntry("potion", i, y.ID, y.Name); err != nil {
			return nil, err
		}
		defs = append(defs, NewPotion(ID(y.ID), y.Name, y.Description, y.Value, PotionEffects{Health: y.Effects.Health}))
	}
	for i, y := range file.Shield {
		if err := validateEntry("shield", i, y.ID, y.Name); err != nil {
			return nil, err
		}
		defs = append(defs, NewShield(ID(y.ID), y.Name, y.Defense, y.Weight, y.Value))
	}
	return defs, nil
}

func validateEntry(kind string, index int, id, name string) error {
	if id == "" {
		return fmt.Errorf("%s[%d]: id must not be empty", kind, index)
	}
	if name == "" {
		return fmt.Errorf("%s[%d] %q: name must not be empty", kind, index, id)
	}
	return nil
}
