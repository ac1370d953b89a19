package entity

import (
	"encoding/json"
	"fmt"
)

// saveVersion bumps when the save layout changes incompatibly. Unknown
// fields are dropped; missing fields get safe defaults on load.
const saveVersion = 1

type saveEnvelope struct {
	Version   int        `json:"version"`
	Character *Character `json:"character"`
}

// Serialize encodes the character for storage.
func Serialize(c *Character) ([]byte, error) {
	raw, err := json.Marshal(saveEnvelope{Version: saveVersion, Character: c})
	if err != nil {
		return nil, fmt.Errorf("serialize character: %w", err)
	}
	return raw, nil
}

// Deserialize decodes a stored character and backfills defaults so saves
// written by older builds still load.
func Deserialize(raw []byte) (*Character, error) {
	var env saveEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("deserialize character: %w", err)
	}
	if env.Character == nil {
		return nil, fmt.Errorf("deserialize character: empty save")
	}
	env.Character.EnsureDefaults()
	return env.Character, nil
}
