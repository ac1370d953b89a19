package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Spell effect identifiers as they appear in the content tables.
const (
	SpellDamage        = "damage"        // direct damage roll against the monster
	SpellSplitDamage   = "split_damage"  // full die on a passed check, half die otherwise
	SpellHeal          = "heal"          // restores hit points
	SpellFreeze        = "freeze"        // monster skips turns
	SpellVulnerability = "vulnerability" // lowers monster armor
	SpellWeakness      = "weakness"      // lowers monster damage
	SpellSummon        = "summon"        // calls a companion
	SpellEscape        = "escape"        // returns to town, no rewards
)

// SpellTemplate holds static data for a spell scroll loaded from YAML.
type SpellTemplate struct {
	Name        string `yaml:"name"`
	Effect      string `yaml:"effect"`
	Die         string `yaml:"die"`      // damage or heal roll, empty for utility spells
	HalfDie     string `yaml:"half_die"` // reduced roll for split_damage spells
	Amount      int    `yaml:"amount"`   // turns frozen, armor penalty, damage penalty
	Price       int    `yaml:"price"`
	Description string `yaml:"description"`
}

type spellListFile struct {
	Spells []SpellTemplate `yaml:"spells"`
}

// SpellTable holds all spell templates indexed by name.
type SpellTable struct {
	templates map[string]*SpellTemplate
	order     []string
}

// LoadSpellTable loads spell templates from a YAML file.
func LoadSpellTable(path string) (*SpellTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spell table: %w", err)
	}
	var f spellListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse spell table: %w", err)
	}
	t := &SpellTable{templates: make(map[string]*SpellTemplate, len(f.Spells))}
	for i := range f.Spells {
		s := &f.Spells[i]
		t.templates[s.Name] = s
		t.order = append(t.order, s.Name)
	}
	return t, nil
}

// Get returns a spell template by name, or nil if not found.
func (t *SpellTable) Get(name string) *SpellTemplate {
	return t.templates[name]
}

// Count returns the number of loaded templates.
func (t *SpellTable) Count() int {
	return len(t.templates)
}

// All returns the templates in load order.
func (t *SpellTable) All() []*SpellTemplate {
	out := make([]*SpellTemplate, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.templates[name])
	}
	return out
}

// ShopStock returns purchasable scrolls in load order.
func (t *SpellTable) ShopStock() []*SpellTemplate {
	var out []*SpellTemplate
	for _, name := range t.order {
		s := t.templates[name]
		if s.Price > 0 {
			out = append(out, s)
		}
	}
	return out
}
