package engine

import (
	"fmt"

	"github.com/labyrinth/server/internal/data"
)

func (g *Game) inventoryMenu() {
	c := g.Char
	var items []MenuItem

	for i, w := range c.Weapons {
		label := fmt.Sprintf("%s (%s)", w.Name, w.DamageDie)
		if w.DamageBonus > 0 {
			label += fmt.Sprintf(" +%d", w.DamageBonus)
		}
		if w.Damaged {
			label += " [damaged]"
		}
		if i == c.EquippedWeapon {
			label += " [wielded]"
		}
		items = append(items, MenuItem{ID: fmt.Sprintf("w_%d", i), Label: label})
	}
	for i, ar := range c.Armors {
		label := fmt.Sprintf("%s (AC %d)", ar.Name, ar.ArmorClass+ar.ACBonus)
		if ar.Damaged {
			label += " [damaged]"
		}
		if i == c.EquippedArmor {
			label += " [worn]"
		}
		items = append(items, MenuItem{ID: fmt.Sprintf("a_%d", i), Label: label})
	}
	for i, r := range c.Rings {
		label := fmt.Sprintf("%s (%+d %s)", r.Name, r.Bonus, r.Attribute)
		if r.Equipped {
			label += " [worn]"
		}
		items = append(items, MenuItem{ID: fmt.Sprintf("r_%d", i), Label: label})
	}
	for _, p := range g.Tables.Potions.All() {
		if n := c.Potions[p.Name]; n > 0 {
			items = append(items, MenuItem{
				ID:    "p_" + p.Name,
				Label: fmt.Sprintf("%s x%d", p.Name, n),
			})
		}
	}
	for _, s := range g.Tables.Spells.All() {
		if n := c.SpellUses[s.Name]; n > 0 {
			items = append(items, MenuItem{
				ID:    "s_" + s.Name,
				Label: fmt.Sprintf("Scroll of %s x%d", s.Name, n),
			})
		}
	}

	if len(items) == 0 {
		g.say("You carry nothing but lint and resolve.")
	}
	items = append(items, MenuItem{ID: "back", Label: "Back"})
	g.menu(items...)
}

func (g *Game) handleInventory(a Action) {
	if a.Name == "back" {
		g.backToTown()
		return
	}
	c := g.Char
	var idx int
	switch {
	case scan(a.Name, "w_%d", &idx) && idx < len(c.Weapons):
		if c.EquippedWeapon == idx {
			c.EquippedWeapon = -1
			g.say(fmt.Sprintf("You sling the %s away.", c.Weapons[idx].Name))
		} else {
			c.EquippedWeapon = idx
			g.say(fmt.Sprintf("You heft the %s.", c.Weapons[idx].Name))
		}
	case scan(a.Name, "a_%d", &idx) && idx < len(c.Armors):
		if c.EquippedArmor == idx {
			c.EquippedArmor = -1
			g.say(fmt.Sprintf("You shrug off the %s.", c.Armors[idx].Name))
		} else {
			c.EquippedArmor = idx
			g.say(fmt.Sprintf("You buckle on the %s.", c.Armors[idx].Name))
		}
	case scan(a.Name, "r_%d", &idx) && idx >= 0 && idx < len(c.Rings):
		r := c.Rings[idx]
		if r.Equipped {
			if r.Cursed {
				g.say("The ring will not come off. It bites when you pull.")
				g.inventoryMenu()
				return
			}
			c.SetRingEquipped(idx, false)
			g.say(fmt.Sprintf("You pocket the %s.", r.Name))
		} else {
			c.SetRingEquipped(idx, true)
			g.say(fmt.Sprintf("The %s settles onto your finger.", r.Name))
			if r.Cursed {
				g.say("It tightens. That is probably fine.")
			}
		}
	case len(a.Name) > 2 && a.Name[:2] == "p_":
		g.drinkOutOfCombat(a.Name[2:])
	case len(a.Name) > 2 && a.Name[:2] == "s_":
		g.say("Scroll-fire indoors is frowned upon. Save it for the labyrinth.")
	default:
		g.unknown(a)
		return
	}
	g.saveGame()
	g.stats()
	g.inventoryMenu()
}

// drinkOutOfCombat covers the potions that make sense outside a fight;
// battle draughts keep their cork until something is trying to kill you.
func (g *Game) drinkOutOfCombat(name string) {
	p := g.Tables.Potions.Get(name)
	if p == nil || g.Char.Potions[name] <= 0 {
		return
	}
	switch p.Effect {
	case data.PotionHealing:
		g.Char.ConsumePotion(name)
		healed := g.Char.Heal(ceilHalf(g.Char.Attribute("constitution")) * g.R.Roll(2, 2))
		g.say(fmt.Sprintf("Warmth spreads from your chest outward. (+%d hp)", healed))
	case data.PotionAntidote:
		g.Char.ConsumePotion(name)
		g.Char.PoisonTurns = 0
		g.say("The sour taste takes the venom with it.")
	default:
		g.say("Better to save that one for a fight.")
	}
}
