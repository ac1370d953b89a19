package data

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/labyrinth/server/internal/dice"
	"gopkg.in/yaml.v3"
)

// DialogueTable holds narration and NPC lines grouped by namespace. Each key
// maps to one or more variants; lookups pick a variant at random so repeated
// visits do not read identically.
type DialogueTable struct {
	lines map[string]map[string][]string // namespace -> key -> variants
}

type dialogueFile struct {
	Lines map[string][]string `yaml:"lines"`
}

// LoadDialogueTable loads every *.yaml file under dir. The file name without
// extension becomes the namespace. A missing directory yields an empty table
// rather than an error.
func LoadDialogueTable(dir string) (*DialogueTable, error) {
	t := &DialogueTable{lines: make(map[string]map[string][]string)}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, fmt.Errorf("read dialogue dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read dialogue file %s: %w", e.Name(), err)
		}
		var f dialogueFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("parse dialogue file %s: %w", e.Name(), err)
		}
		ns := strings.TrimSuffix(e.Name(), ".yaml")
		t.lines[ns] = f.Lines
	}
	return t, nil
}

// Count returns the number of loaded namespaces.
func (t *DialogueTable) Count() int {
	return len(t.lines)
}

// Line returns a random variant for namespace/key with {field} placeholders
// substituted from vars. An unknown key returns the key itself so missing
// content is visible in play instead of silently blank.
func (t *DialogueTable) Line(r *dice.Roller, namespace, key string, vars map[string]string) string {
	variants := t.lines[namespace][key]
	if len(variants) == 0 {
		return key
	}
	line := variants[0]
	if len(variants) > 1 && r != nil {
		line = variants[r.IntN(len(variants))]
	}
	for field, value := range vars {
		line = strings.ReplaceAll(line, "{"+field+"}", value)
	}
	return line
}

// Has reports whether namespace/key exists.
func (t *DialogueTable) Has(namespace, key string) bool {
	return len(t.lines[namespace][key]) > 0
}
