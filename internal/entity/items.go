package entity

import "github.com/labyrinth/server/internal/data"

// Weapon is an owned weapon instance. Magic drops carry a DamageBonus;
// damaged weapons deal half damage until repaired.
type Weapon struct {
	Name        string `json:"name"`
	DamageDie   string `json:"damage_die"`
	DamageBonus int    `json:"damage_bonus,omitempty"`
	Damaged     bool   `json:"damaged,omitempty"`
	Cursed      bool   `json:"cursed,omitempty"`
	Magic       bool   `json:"magic,omitempty"`
	Price       int    `json:"price,omitempty"`
}

// Armor is an owned armor instance. Damaged armor grants half its class
// until repaired.
type Armor struct {
	Name       string `json:"name"`
	ArmorClass int    `json:"armor_class"`
	ACBonus    int    `json:"ac_bonus,omitempty"`
	Damaged    bool   `json:"damaged,omitempty"`
	Cursed     bool   `json:"cursed,omitempty"`
	Magic      bool   `json:"magic,omitempty"`
	Price      int    `json:"price,omitempty"`
}

// Ring is an owned ring instance. Cursed rings stick until the curse is
// lifted in town.
type Ring struct {
	Name      string `json:"name"`
	Attribute string `json:"attribute"`
	Bonus     int    `json:"bonus"`
	Cursed    bool   `json:"cursed,omitempty"`
	Equipped  bool   `json:"equipped,omitempty"`
}

// NewWeapon instantiates a weapon from its template.
func NewWeapon(t *data.WeaponTemplate) Weapon {
	return Weapon{Name: t.Name, DamageDie: t.DamageDie, Price: t.Price}
}

// NewArmor instantiates an armor from its template.
func NewArmor(t *data.ArmorTemplate) Armor {
	return Armor{Name: t.Name, ArmorClass: t.ArmorClass, Price: t.Price}
}

// NewRing instantiates a ring from a forged spec.
func NewRing(spec data.RingSpec) Ring {
	return Ring{Name: spec.Name, Attribute: spec.Attribute, Bonus: spec.Bonus, Cursed: spec.Cursed}
}

// EffectiveClass returns the armor's contribution to AC, halved when damaged.
func (a Armor) EffectiveClass() int {
	ac := a.ArmorClass + a.ACBonus
	if a.Damaged {
		ac /= 2
	}
	return ac
}
