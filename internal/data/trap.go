package data

import (
	"fmt"
	"os"

	"github.com/labyrinth/server/internal/dice"
	"gopkg.in/yaml.v3"
)

// Trap effect identifiers as they appear in the content tables.
const (
	TrapGoldDust   = "gold_dust"   // destroys carried gold
	TrapPoison     = "poison"      // damage over time in the next combat
	TrapRustWeapon = "rust_weapon" // flavor only, no mechanical effect
	TrapDexDown    = "dex_down"    // permanent dexterity loss, floor 3
)

// TrapTemplate holds static data for a trap type loaded from YAML.
type TrapTemplate struct {
	Name        string `yaml:"name"`
	DC          int    `yaml:"dc"`
	Die         string `yaml:"die"` // damage roll on a failed dodge
	Effect      string `yaml:"effect"`
	Amount      int    `yaml:"amount"`   // effect magnitude where relevant
	Duration    int    `yaml:"duration"` // poison turns
	Description string `yaml:"description"`
}

type trapListFile struct {
	Traps []TrapTemplate `yaml:"traps"`
}

// TrapTable holds all trap templates indexed by name.
type TrapTable struct {
	templates map[string]*TrapTemplate
	order     []string
}

// LoadTrapTable loads trap templates from a YAML file.
func LoadTrapTable(path string) (*TrapTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trap table: %w", err)
	}
	var f trapListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse trap table: %w", err)
	}
	t := &TrapTable{templates: make(map[string]*TrapTemplate, len(f.Traps))}
	for i := range f.Traps {
		tr := &f.Traps[i]
		t.templates[tr.Name] = tr
		t.order = append(t.order, tr.Name)
	}
	return t, nil
}

// Get returns a trap template by name, or nil if not found.
func (t *TrapTable) Get(name string) *TrapTemplate {
	return t.templates[name]
}

// Count returns the number of loaded templates.
func (t *TrapTable) Count() int {
	return len(t.templates)
}

// RandomPick returns a uniformly random trap, or nil if the table is empty.
func (t *TrapTable) RandomPick(r *dice.Roller) *TrapTemplate {
	if len(t.order) == 0 {
		return nil
	}
	return t.templates[t.order[r.IntN(len(t.order))]]
}
