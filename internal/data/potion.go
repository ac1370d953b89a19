package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Potion effect identifiers as they appear in the content tables.
const (
	PotionHealing      = "healing"
	PotionStrength     = "strength"
	PotionIntelligence = "intelligence"
	PotionSpeed        = "speed"
	PotionProtection   = "protection"
	PotionInvisibility = "invisibility"
	PotionAntidote     = "antidote"
)

// PotionTemplate holds static data for a potion type loaded from YAML.
type PotionTemplate struct {
	Name        string `yaml:"name"`
	Effect      string `yaml:"effect"`
	Price       int    `yaml:"price"`
	Duration    int    `yaml:"duration"` // combat turns for timed buffs, 0 otherwise
	Description string `yaml:"description"`
}

type potionListFile struct {
	Potions []PotionTemplate `yaml:"potions"`
}

// PotionTable holds all potion templates indexed by name.
type PotionTable struct {
	templates map[string]*PotionTemplate
	order     []string
}

// LoadPotionTable loads potion templates from a YAML file.
func LoadPotionTable(path string) (*PotionTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read potion table: %w", err)
	}
	var f potionListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse potion table: %w", err)
	}
	t := &PotionTable{templates: make(map[string]*PotionTemplate, len(f.Potions))}
	for i := range f.Potions {
		p := &f.Potions[i]
		t.templates[p.Name] = p
		t.order = append(t.order, p.Name)
	}
	return t, nil
}

// Get returns a potion template by name, or nil if not found.
func (t *PotionTable) Get(name string) *PotionTemplate {
	return t.templates[name]
}

// Count returns the number of loaded templates.
func (t *PotionTable) Count() int {
	return len(t.templates)
}

// All returns the templates in load order.
func (t *PotionTable) All() []*PotionTemplate {
	out := make([]*PotionTemplate, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.templates[name])
	}
	return out
}

// ShopStock returns purchasable potions in load order.
func (t *PotionTable) ShopStock() []*PotionTemplate {
	var out []*PotionTemplate
	for _, name := range t.order {
		p := t.templates[name]
		if p.Price > 0 {
			out = append(out, p)
		}
	}
	return out
}
