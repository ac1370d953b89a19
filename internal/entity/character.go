package entity

import (
	"math"

	"github.com/labyrinth/server/internal/data"
	"github.com/labyrinth/server/internal/dice"
)

// Difficulty settings control how many dice each attribute is rolled with.
const (
	DifficultyEasy   = "easy"
	DifficultyNormal = "normal"
	DifficultyHard   = "hard"
)

// AttributeDice returns the creation roll for a difficulty setting.
func AttributeDice(difficulty string) dice.Die {
	switch difficulty {
	case DifficultyEasy:
		return dice.Die{Count: 6, Sides: 5}
	case DifficultyHard:
		return dice.Die{Count: 4, Sides: 5}
	default:
		return dice.Die{Count: 5, Sides: 5}
	}
}

// trainingCap limits paid attribute training across a character's life.
const trainingCap = 7

// Character is the full player state. Everything here is persisted; combat
// buffs that only live for one fight belong to combat.State instead.
type Character struct {
	Name       string         `json:"name"`
	Difficulty string         `json:"difficulty"`
	Attributes map[string]int `json:"attributes"`

	HP    int `json:"hp"`
	MaxHP int `json:"max_hp"`
	Gold  int `json:"gold"`

	Level         int `json:"level"`
	XP            int `json:"xp"`
	UnspentPoints int `json:"unspent_points"`
	DeathCount    int `json:"death_count"`

	// Paid training sessions per attribute; the total across all
	// attributes is capped for a character's whole life.
	AttributeTraining map[string]int `json:"attribute_training,omitempty"`

	Weapons []Weapon `json:"weapons"`
	Armors  []Armor  `json:"armors"`
	Rings   []Ring   `json:"rings"`

	EquippedWeapon int `json:"equipped_weapon"` // index into Weapons, -1 none
	EquippedArmor  int `json:"equipped_armor"`  // index into Armors, -1 none

	Potions   map[string]int `json:"potions"`    // potion name -> count
	SpellUses map[string]int `json:"spell_uses"` // spell name -> scroll count

	Depth          int `json:"depth"`
	EncounterCount int `json:"encounter_count"`

	PoisonTurns  int    `json:"poison_turns,omitempty"`
	PeekedNext   string `json:"peeked_next,omitempty"` // foreseen monster for the next room
	PendingReset bool   `json:"pending_reset,omitempty"`
	DepthCleared bool   `json:"depth_cleared,omitempty"` // this depth's room is resolved; the next descent goes deeper

	Quests    []Quest    `json:"quests"`
	Companion *Companion `json:"companion,omitempty"`

	// Run statistics for the leaderboard and the epilogue.
	MonstersSlain   int `json:"monsters_slain"`
	DeepestDepth    int `json:"deepest_depth"`
	GoldEarned      int `json:"gold_earned"`
	GoldSpent       int `json:"gold_spent"`
	QuestsCompleted int `json:"quests_completed"`
	PotionsUsed     int `json:"potions_used"`
	ScrollsUsed     int `json:"scrolls_used"`

	// Town services usable once per visit; cleared on entering town.
	TownUsed map[string]bool `json:"town_used,omitempty"`
	// Senses usable once per labyrinth depth; cleared on descending.
	ListenedThisDepth bool `json:"listened_this_depth,omitempty"`
	DivinedThisDepth  bool `json:"divined_this_depth,omitempty"`
}

// NewCharacter creates a level-1 character with rolled vitals. Attributes must
// already be rolled and accepted by the player.
func NewCharacter(name, difficulty string, attrs map[string]int, r *dice.Roller) *Character {
	c := &Character{
		Name:              name,
		Difficulty:        difficulty,
		Attributes:        attrs,
		Level:             1,
		EquippedWeapon:    -1,
		EquippedArmor:     -1,
		Potions:           make(map[string]int),
		SpellUses:         make(map[string]int),
		AttributeTraining: make(map[string]int),
		Depth:             1,
		DeepestDepth:      1,
		TownUsed:          make(map[string]bool),
	}
	// Starting hit points are 3 x constitution plus 5d4, not the 3d6 some
	// old rulebooks print.
	c.MaxHP = 3*attrs["constitution"] + r.Roll(5, 4)
	c.HP = c.MaxHP
	c.Gold = startingGold(attrs["charisma"], c.MaxHP, r)
	return c
}

// startingGold compensates frail characters: the lower the rolled hit
// points, the more gold dice the character starts with. Charisma adds its
// own ceil(CHA/1.5) dice on top of the flat 20d6.
func startingGold(charisma, maxHP int, r *dice.Roller) int {
	gold := r.Roll(20, 6)
	if charisma > 0 {
		gold += r.Roll(int(math.Ceil(float64(charisma)/1.5)), 6)
	}
	var bonus int
	switch {
	case maxHP < 25:
		bonus = 15
	case maxHP < 30:
		bonus = 10
	case maxHP < 40:
		bonus = 7
	case maxHP < 50:
		bonus = 5
	case maxHP < 60:
		bonus = 3
	}
	if bonus > 0 {
		gold += r.Roll(bonus, 6)
	}
	return gold
}

// Attribute returns the effective value of an attribute: base plus every
// equipped ring that touches it.
func (c *Character) Attribute(name string) int {
	v := c.Attributes[name]
	for _, ring := range c.Rings {
		if ring.Equipped && ring.Attribute == name {
			v += ring.Bonus
		}
	}
	return v
}

// BindRing slips a found ring straight onto a finger; rings bind the
// moment they are picked up. Constitution rings move max hit points with
// them, five per point.
func (c *Character) BindRing(r Ring) {
	r.Equipped = true
	c.Rings = append(c.Rings, r)
	c.applyRingVitals(r, 1)
}

// SetRingEquipped slides a ring on or off and keeps constitution-driven
// hit points in step. Reports whether anything changed. It does not check
// curses; the caller decides whether a ring may come off.
func (c *Character) SetRingEquipped(i int, equipped bool) bool {
	if i < 0 || i >= len(c.Rings) || c.Rings[i].Equipped == equipped {
		return false
	}
	c.Rings[i].Equipped = equipped
	sign := 1
	if !equipped {
		sign = -1
	}
	c.applyRingVitals(c.Rings[i], sign)
	return true
}

func (c *Character) applyRingVitals(r Ring, sign int) {
	if r.Attribute != "constitution" {
		return
	}
	delta := 5 * r.Bonus * sign
	c.MaxHP += delta
	if c.MaxHP < 1 {
		c.MaxHP = 1
	}
	if delta > 0 {
		c.HP += delta
	}
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
	if c.HP < 1 {
		c.HP = 1
	}
}

// BaseArmorClass is the character's AC before combat buffs: 10 plus half
// constitution rounded up, plus equipped armor. Going unarmored grants a
// flat +5 dodge bonus instead.
func (c *Character) BaseArmorClass() int {
	ac := 10 + ceilHalf(c.Attribute("constitution"))
	if a := c.EquippedArmorItem(); a != nil {
		ac += a.EffectiveClass()
	} else {
		ac += 5
	}
	return ac
}

// EquippedWeaponItem returns the equipped weapon, or nil when bare-handed.
func (c *Character) EquippedWeaponItem() *Weapon {
	if c.EquippedWeapon < 0 || c.EquippedWeapon >= len(c.Weapons) {
		return nil
	}
	return &c.Weapons[c.EquippedWeapon]
}

// EquippedArmorItem returns the equipped armor, or nil when unarmored.
func (c *Character) EquippedArmorItem() *Armor {
	if c.EquippedArmor < 0 || c.EquippedArmor >= len(c.Armors) {
		return nil
	}
	return &c.Armors[c.EquippedArmor]
}

// XPForLevel returns the total experience required to reach level.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return 50 * (level - 1) * level / 2
}

// GainXP adds experience and applies any level-ups, granting one unspent
// attribute point per level. Returns the number of levels gained.
func (c *Character) GainXP(amount int) int {
	c.XP += amount
	gained := 0
	for c.XP >= XPForLevel(c.Level+1) {
		c.Level++
		c.UnspentPoints++
		gained++
	}
	return gained
}

// SpendPoint raises an attribute by one. Raising constitution also grants
// five max hit points. Returns false when no points remain or the attribute
// is unknown.
func (c *Character) SpendPoint(attr string) bool {
	if c.UnspentPoints <= 0 {
		return false
	}
	if _, ok := c.Attributes[attr]; !ok {
		return false
	}
	c.Attributes[attr]++
	c.UnspentPoints--
	if attr == "constitution" {
		c.MaxHP += 5
		c.HP += 5
	}
	return true
}

// TrainingTotal counts paid training sessions across every attribute.
func (c *Character) TrainingTotal() int {
	total := 0
	for _, n := range c.AttributeTraining {
		total += n
	}
	return total
}

// TrainingCost returns the gold price of the next session in an attribute,
// or -1 when the lifetime cap across all attributes is reached. Each
// repeat session in the same discipline costs another 50 gold.
func (c *Character) TrainingCost(attr string) int {
	if c.TrainingTotal() >= trainingCap {
		return -1
	}
	return 50 * (c.AttributeTraining[attr] + 1)
}

// Train raises an attribute through paid training. The caller has already
// charged the gold.
func (c *Character) Train(attr string) bool {
	if c.TrainingTotal() >= trainingCap {
		return false
	}
	if _, ok := c.Attributes[attr]; !ok {
		return false
	}
	if c.AttributeTraining == nil {
		c.AttributeTraining = make(map[string]int)
	}
	c.Attributes[attr]++
	c.AttributeTraining[attr]++
	if attr == "constitution" {
		c.MaxHP += 5
		c.HP += 5
	}
	return true
}

// Heal restores hit points up to the maximum and returns the amount applied.
func (c *Character) Heal(amount int) int {
	if amount < 0 {
		return 0
	}
	healed := amount
	if c.HP+healed > c.MaxHP {
		healed = c.MaxHP - c.HP
	}
	c.HP += healed
	return healed
}

// TakeDamage reduces hit points, never below zero. Reports whether the
// character is still alive.
func (c *Character) TakeDamage(amount int) bool {
	if amount > 0 {
		c.HP -= amount
		if c.HP < 0 {
			c.HP = 0
		}
	}
	return c.HP > 0
}

// AddGold adjusts gold, clamping at zero, and tracks lifetime earnings and
// spending.
func (c *Character) AddGold(amount int) {
	if amount > 0 {
		c.GoldEarned += amount
	} else {
		c.GoldSpent -= amount
	}
	c.Gold += amount
	if c.Gold < 0 {
		c.Gold = 0
	}
}

// AddPotion adds count doses of a potion.
func (c *Character) AddPotion(name string, count int) {
	if c.Potions == nil {
		c.Potions = make(map[string]int)
	}
	c.Potions[name] += count
}

// ConsumePotion removes one dose, reporting whether one was available.
func (c *Character) ConsumePotion(name string) bool {
	if c.Potions[name] <= 0 {
		return false
	}
	c.Potions[name]--
	if c.Potions[name] == 0 {
		delete(c.Potions, name)
	}
	c.PotionsUsed++
	return true
}

// AddScroll adds count castings of a spell.
func (c *Character) AddScroll(name string, count int) {
	if c.SpellUses == nil {
		c.SpellUses = make(map[string]int)
	}
	c.SpellUses[name] += count
}

// ConsumeScroll removes one casting, reporting whether one was available.
func (c *Character) ConsumeScroll(name string) bool {
	if c.SpellUses[name] <= 0 {
		return false
	}
	c.SpellUses[name]--
	if c.SpellUses[name] == 0 {
		delete(c.SpellUses, name)
	}
	c.ScrollsUsed++
	return true
}

// EnterTown resets per-visit service flags.
func (c *Character) EnterTown() {
	c.TownUsed = make(map[string]bool)
}

// Descend advances one labyrinth depth and resets per-depth sense flags.
func (c *Character) Descend() {
	c.Depth++
	if c.Depth > c.DeepestDepth {
		c.DeepestDepth = c.Depth
	}
	c.DepthCleared = false
	c.ListenedThisDepth = false
	c.DivinedThisDepth = false
}

// ResetDepth sends the character back to the first depth with fresh
// per-depth flags; revival defers this until town is reached.
func (c *Character) ResetDepth() {
	c.Depth = 1
	c.DepthCleared = false
	c.ListenedThisDepth = false
	c.DivinedThisDepth = false
	c.PeekedNext = ""
}

func ceilHalf(v int) int {
	return (v + 1) / 2
}

// EnsureDefaults fills zero-valued fields a loaded save may be missing so
// older saves keep working.
func (c *Character) EnsureDefaults() {
	if c.Attributes == nil {
		c.Attributes = make(map[string]int)
	}
	for _, name := range data.AttributeNames {
		if _, ok := c.Attributes[name]; !ok {
			c.Attributes[name] = 3
		}
	}
	if c.Potions == nil {
		c.Potions = make(map[string]int)
	}
	if c.SpellUses == nil {
		c.SpellUses = make(map[string]int)
	}
	if c.AttributeTraining == nil {
		c.AttributeTraining = make(map[string]int)
	}
	if c.TownUsed == nil {
		c.TownUsed = make(map[string]bool)
	}
	if c.Level < 1 {
		c.Level = 1
	}
	if c.Depth < 1 {
		c.Depth = 1
	}
	if c.DeepestDepth < c.Depth {
		c.DeepestDepth = c.Depth
	}
	if c.MaxHP < 1 {
		c.MaxHP = 10
	}
	if c.HP < 0 {
		c.HP = 0
	}
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
	if c.EquippedWeapon >= len(c.Weapons) {
		c.EquippedWeapon = -1
	}
	if c.EquippedArmor >= len(c.Armors) {
		c.EquippedArmor = -1
	}
	if c.Difficulty == "" {
		c.Difficulty = DifficultyNormal
	}
}
