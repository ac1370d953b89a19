package entity

// Companion is a summoned creature that fights alongside the player. It
// persists between fights until slain or dismissed.
type Companion struct {
	Name      string `json:"name"`
	HP        int    `json:"hp"`
	MaxHP     int    `json:"max_hp"`
	AC        int    `json:"armor_class"`
	STR       int    `json:"strength"`
	DamageDie string `json:"damage_die"`
}

// TakeDamage reduces hit points, never below zero. Reports whether the
// companion survives.
func (cp *Companion) TakeDamage(amount int) bool {
	if amount > 0 {
		cp.HP -= amount
		if cp.HP < 0 {
			cp.HP = 0
		}
	}
	return cp.HP > 0
}
