package data

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
)

// Tables bundles every content table the engine needs.
type Tables struct {
	Monsters *MonsterTable
	Weapons  *WeaponTable
	Armors   *ArmorTable
	Potions  *PotionTable
	Spells   *SpellTable
	Traps    *TrapTable
	Dialogue *DialogueTable
}

// LoadTables loads all content tables from dir. File names are fixed;
// dialogue lives in a subdirectory with one file per namespace.
func LoadTables(dir string, log *zap.Logger) (*Tables, error) {
	monsters, err := LoadMonsterTable(filepath.Join(dir, "monsters.yaml"))
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	weapons, err := LoadWeaponTable(filepath.Join(dir, "weapons.yaml"))
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	armors, err := LoadArmorTable(filepath.Join(dir, "armors.yaml"))
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	potions, err := LoadPotionTable(filepath.Join(dir, "potions.yaml"))
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	spells, err := LoadSpellTable(filepath.Join(dir, "spells.yaml"))
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	traps, err := LoadTrapTable(filepath.Join(dir, "traps.yaml"))
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	dialogue, err := LoadDialogueTable(filepath.Join(dir, "dialogue"))
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}

	log.Info("content tables loaded",
		zap.Int("monsters", monsters.Count()),
		zap.Int("weapons", weapons.Count()),
		zap.Int("armors", armors.Count()),
		zap.Int("potions", potions.Count()),
		zap.Int("spells", spells.Count()),
		zap.Int("traps", traps.Count()),
		zap.Int("dialogue_namespaces", dialogue.Count()),
	)

	return &Tables{
		Monsters: monsters,
		Weapons:  weapons,
		Armors:   armors,
		Potions:  potions,
		Spells:   spells,
		Traps:    traps,
		Dialogue: dialogue,
	}, nil
}
