package data

import (
	"fmt"
	"os"

	"github.com/labyrinth/server/internal/dice"
	"gopkg.in/yaml.v3"
)

// DragonName is the boss monster forced at depth 5 and on the 50th encounter.
const DragonName = "Dragon"

// questWanderFloor excludes near-unique monsters from quest targeting.
const questWanderFloor = 0.02

// MonsterTemplate holds static data for a monster type loaded from YAML.
type MonsterTemplate struct {
	Name            string  `yaml:"name"`
	HP              int     `yaml:"hp"`
	AC              int     `yaml:"armor_class"`
	STR             int     `yaml:"strength"`
	DEX             int     `yaml:"dexterity"`
	DamageDie       string  `yaml:"damage_die"`
	XP              int     `yaml:"xp"`
	GoldMin         int     `yaml:"gold_min"`
	GoldMax         int     `yaml:"gold_max"`
	WanderChance    float64 `yaml:"wander_chance"`
	Difficulty      int     `yaml:"difficulty"`
	SpellResistance int     `yaml:"spell_resistance"`
	Sound           string  `yaml:"sound"`
	Description     string  `yaml:"description"`
}

type monsterListFile struct {
	Monsters []MonsterTemplate `yaml:"monsters"`
}

// MonsterTable holds all monster templates indexed by name.
type MonsterTable struct {
	templates map[string]*MonsterTemplate
	order     []string // load order, for stable enumeration
}

// LoadMonsterTable loads monster templates from a YAML file.
func LoadMonsterTable(path string) (*MonsterTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read monster table: %w", err)
	}
	var f monsterListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse monster table: %w", err)
	}
	t := &MonsterTable{templates: make(map[string]*MonsterTemplate, len(f.Monsters))}
	for i := range f.Monsters {
		m := &f.Monsters[i]
		t.templates[m.Name] = m
		t.order = append(t.order, m.Name)
	}
	return t, nil
}

// Get returns a monster template by name, or nil if not found.
func (t *MonsterTable) Get(name string) *MonsterTemplate {
	return t.templates[name]
}

// Count returns the number of loaded templates.
func (t *MonsterTable) Count() int {
	return len(t.templates)
}

// All returns the templates in load order.
func (t *MonsterTable) All() []*MonsterTemplate {
	out := make([]*MonsterTemplate, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.templates[name])
	}
	return out
}

// PickWanderer selects a random monster weighted by wander_chance. The Dragon
// never wanders; it only appears through forced spawns.
func (t *MonsterTable) PickWanderer(r *dice.Roller) *MonsterTemplate {
	var total float64
	for _, name := range t.order {
		m := t.templates[name]
		if m.Name == DragonName || m.WanderChance <= 0 {
			continue
		}
		total += m.WanderChance
	}
	if total <= 0 {
		return nil
	}
	target := r.Float64() * total
	for _, name := range t.order {
		m := t.templates[name]
		if m.Name == DragonName || m.WanderChance <= 0 {
			continue
		}
		target -= m.WanderChance
		if target < 0 {
			return m
		}
	}
	// Float rounding can leave target barely above zero; fall back to the
	// last eligible entry.
	for i := len(t.order) - 1; i >= 0; i-- {
		m := t.templates[t.order[i]]
		if m.Name != DragonName && m.WanderChance > 0 {
			return m
		}
	}
	return nil
}

// QuestTargets returns monsters eligible for quest targeting: common enough
// to find (wander_chance above the floor) and not the Dragon.
func (t *MonsterTable) QuestTargets() []*MonsterTemplate {
	var out []*MonsterTemplate
	for _, name := range t.order {
		m := t.templates[name]
		if m.Name == DragonName {
			continue
		}
		if m.WanderChance > questWanderFloor {
			out = append(out, m)
		}
	}
	return out
}
