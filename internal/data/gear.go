package data

import (
	"fmt"
	"os"

	"github.com/labyrinth/server/internal/dice"
	"gopkg.in/yaml.v3"
)

// WeaponTemplate holds static data for a weapon type loaded from YAML.
// Availability "labyrinth" marks drop-only gear that the shop neither
// stocks nor buys back.
type WeaponTemplate struct {
	Name         string  `yaml:"name"`
	DamageDie    string  `yaml:"damage_die"`
	Price        int     `yaml:"price"`
	Chance       float64 `yaml:"chance"` // drop weight for labyrinth gear
	Availability string  `yaml:"availability"`
}

// ArmorTemplate holds static data for an armor type loaded from YAML.
type ArmorTemplate struct {
	Name         string  `yaml:"name"`
	ArmorClass   int     `yaml:"armor_class"`
	Price        int     `yaml:"price"`
	Chance       float64 `yaml:"chance"`
	Availability string  `yaml:"availability"`
}

type weaponListFile struct {
	Weapons []WeaponTemplate `yaml:"weapons"`
}

type armorListFile struct {
	Armors []ArmorTemplate `yaml:"armors"`
}

// WeaponTable holds all weapon templates indexed by name.
type WeaponTable struct {
	templates map[string]*WeaponTemplate
	order     []string
}

// LoadWeaponTable loads weapon templates from a YAML file.
func LoadWeaponTable(path string) (*WeaponTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weapon table: %w", err)
	}
	var f weaponListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse weapon table: %w", err)
	}
	t := &WeaponTable{templates: make(map[string]*WeaponTemplate, len(f.Weapons))}
	for i := range f.Weapons {
		w := &f.Weapons[i]
		t.templates[w.Name] = w
		t.order = append(t.order, w.Name)
	}
	return t, nil
}

// Get returns a weapon template by name, or nil if not found.
func (t *WeaponTable) Get(name string) *WeaponTemplate {
	return t.templates[name]
}

// Count returns the number of loaded templates.
func (t *WeaponTable) Count() int {
	return len(t.templates)
}

// ShopStock returns purchasable weapons in load order.
func (t *WeaponTable) ShopStock() []*WeaponTemplate {
	var out []*WeaponTemplate
	for _, name := range t.order {
		w := t.templates[name]
		if w.Price > 0 && w.Availability != "labyrinth" {
			out = append(out, w)
		}
	}
	return out
}

// PickDrop selects a labyrinth-drop weapon weighted by chance.
func (t *WeaponTable) PickDrop(r *dice.Roller) *WeaponTemplate {
	var total float64
	for _, name := range t.order {
		w := t.templates[name]
		if w.Availability == "labyrinth" && w.Chance > 0 {
			total += w.Chance
		}
	}
	if total <= 0 {
		return nil
	}
	target := r.Float64() * total
	for _, name := range t.order {
		w := t.templates[name]
		if w.Availability != "labyrinth" || w.Chance <= 0 {
			continue
		}
		target -= w.Chance
		if target < 0 {
			return w
		}
	}
	for i := len(t.order) - 1; i >= 0; i-- {
		w := t.templates[t.order[i]]
		if w.Availability == "labyrinth" && w.Chance > 0 {
			return w
		}
	}
	return nil
}

// ArmorTable holds all armor templates indexed by name.
type ArmorTable struct {
	templates map[string]*ArmorTemplate
	order     []string
}

// LoadArmorTable loads armor templates from a YAML file.
func LoadArmorTable(path string) (*ArmorTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read armor table: %w", err)
	}
	var f armorListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse armor table: %w", err)
	}
	t := &ArmorTable{templates: make(map[string]*ArmorTemplate, len(f.Armors))}
	for i := range f.Armors {
		a := &f.Armors[i]
		t.templates[a.Name] = a
		t.order = append(t.order, a.Name)
	}
	return t, nil
}

// Get returns an armor template by name, or nil if not found.
func (t *ArmorTable) Get(name string) *ArmorTemplate {
	return t.templates[name]
}

// Count returns the number of loaded templates.
func (t *ArmorTable) Count() int {
	return len(t.templates)
}

// ShopStock returns purchasable armors in load order.
func (t *ArmorTable) ShopStock() []*ArmorTemplate {
	var out []*ArmorTemplate
	for _, name := range t.order {
		a := t.templates[name]
		if a.Price > 0 && a.Availability != "labyrinth" {
			out = append(out, a)
		}
	}
	return out
}

// PickDrop selects a labyrinth-drop armor weighted by chance.
func (t *ArmorTable) PickDrop(r *dice.Roller) *ArmorTemplate {
	var total float64
	for _, name := range t.order {
		a := t.templates[name]
		if a.Availability == "labyrinth" && a.Chance > 0 {
			total += a.Chance
		}
	}
	if total <= 0 {
		return nil
	}
	target := r.Float64() * total
	for _, name := range t.order {
		a := t.templates[name]
		if a.Availability != "labyrinth" || a.Chance <= 0 {
			continue
		}
		target -= a.Chance
		if target < 0 {
			return a
		}
	}
	for i := len(t.order) - 1; i >= 0; i-- {
		a := t.templates[t.order[i]]
		if a.Availability == "labyrinth" && a.Chance > 0 {
			return a
		}
	}
	return nil
}
