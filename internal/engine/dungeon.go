package engine

import (
	"fmt"
	"strings"

	"github.com/labyrinth/server/internal/data"
	"github.com/labyrinth/server/internal/labyrinth"
	"github.com/labyrinth/server/internal/trap"
)

func (g *Game) enterLabyrinth() {
	g.Phase = PhaseLabyrinth
	g.clear()
	g.scene(bgLabyrinth, g.flavor("labyrinth", "descent",
		fmt.Sprintf("Depth %d. The dark is thick enough to lean on.", g.Char.Depth),
		map[string]string{"depth": fmt.Sprint(g.Char.Depth)}))
	g.stats()
	g.corridorMenu()
}

// corridorMenu offers what the corridor allows right now. Spent senses
// drop off the menu; the chest only shows once the room's occupant is
// dealt with.
func (g *Game) corridorMenu() {
	items := []MenuItem{{ID: "deeper", Label: "Go deeper"}}
	if g.room != nil && g.room.Chest != nil && !g.room.Chest.Opened && g.Char.DepthCleared {
		items = append(items, MenuItem{ID: "open_chest", Label: "Open the chest"})
	}
	if !g.Char.ListenedThisDepth {
		items = append(items, MenuItem{ID: "listen", Label: "Listen at the dark"})
	}
	if !g.Char.DivinedThisDepth {
		items = append(items, MenuItem{ID: "divine", Label: "Plead for succor"})
	}
	items = append(items,
		MenuItem{ID: "examine_items", Label: "Check your pack"},
		MenuItem{ID: "use_potion", Label: "Drink a potion"},
		MenuItem{ID: "town", Label: "Return to town"},
	)
	g.menu(items...)
}

func (g *Game) handleLabyrinth(a Action) {
	switch {
	case a.Name == "deeper":
		g.goDeeper()
	case a.Name == "open_chest":
		g.openChest()
	case a.Name == "listen":
		out := labyrinth.Listen(g.Char, g.Tables, g.R)
		switch {
		case out.AlreadyUsed:
			g.say("You have already strained your ears at this depth.")
		case out.Success:
			g.say(fmt.Sprintf("You hear %s somewhere ahead.", out.Sound))
			g.saveGame()
		default:
			g.say("Only your own pulse answers.")
		}
		g.corridorMenu()
	case a.Name == "divine":
		g.corridorDivine()
	case a.Name == "examine_items":
		g.examineItems()
	case a.Name == "use_potion":
		items := g.corridorPotionItems()
		if len(items) == 0 {
			g.say("Your potion loops hang empty.")
			g.corridorMenu()
			return
		}
		g.menu(append(items, MenuItem{ID: "no_potion", Label: "Never mind"})...)
	case strings.HasPrefix(a.Name, "dp_"):
		g.drinkOutOfCombat(strings.TrimPrefix(a.Name, "dp_"))
		g.saveGame()
		g.stats()
		g.corridorMenu()
	case a.Name == "no_potion":
		g.corridorMenu()
	case a.Name == "town":
		g.say("You follow your chalk marks back to the light.")
		g.enterTown()
	default:
		g.unknown(a)
	}
}

// goDeeper opens the next door. A cleared depth means taking the stairs
// down first; the new room's trap springs before its occupant gets a say.
func (g *Game) goDeeper() {
	if g.Char.DepthCleared {
		g.Char.Descend()
		g.say(fmt.Sprintf("The stairs spiral down to depth %d.", g.Char.Depth))
		if g.Char.Depth >= labyrinth.DragonDepth {
			g.say("The air down here is warm, and it moves like breath.")
		}
	}

	room := labyrinth.Next(g.Char, g.Tables, g.R)
	g.room = &room
	g.saveGame()

	if room.Trap != nil {
		out := trap.Spring(room.Trap, g.Char, g.R)
		g.describeTrap(out)
		g.stats()
		if g.Char.HP <= 0 {
			g.playerDied()
			return
		}
	}

	if room.Monster == nil {
		// Empty monster table; nothing bars the way.
		g.Char.DepthCleared = true
		g.say("The room stands empty. Dust, and the marks of things long gone.")
		g.corridorMenu()
		return
	}
	g.startCombat(room)
}

func (g *Game) openChest() {
	if g.room == nil || g.room.Chest == nil || g.room.Chest.Opened || !g.Char.DepthCleared {
		g.unknown(Action{Name: "open_chest"})
		return
	}
	chest := g.room.Chest
	chest.Opened = true
	g.Char.AddGold(chest.Gold)
	g.say(fmt.Sprintf("A banded chest, unlocked. Inside: %d gold.", chest.Gold))
	if chest.Ring != nil {
		g.Char.BindRing(*chest.Ring)
		g.say(fmt.Sprintf("Beneath the coins, a %s. It is on your finger before you decide anything.", chest.Ring.Name))
	}
	g.saveGame()
	g.stats()
	g.corridorMenu()
}

// corridorDivine pleads for healing between fights. It spends the same
// once-per-depth favor as a combat smite.
func (g *Game) corridorDivine() {
	if g.Char.DivinedThisDepth {
		g.say("The gods have already spoken at this depth.")
		g.corridorMenu()
		return
	}
	g.Char.DivinedThisDepth = true
	roll := g.R.Roll(5, 4) + g.Char.Attribute("wisdom") - 10
	switch {
	case roll >= 16:
		healed := g.Char.Heal(g.R.Roll(4, 6))
		g.say(fmt.Sprintf("Light you cannot see by closes your wounds. (+%d hp)", healed))
	case roll >= 12:
		healed := g.Char.Heal(g.R.Roll(3, 6))
		g.say(fmt.Sprintf("A thin warmth settles into your bones. (+%d hp)", healed))
	default:
		g.say("The silence overhead is total.")
	}
	g.saveGame()
	g.stats()
	g.corridorMenu()
}

// examineItems recites the pack without leaving the corridor.
func (g *Game) examineItems() {
	c := g.Char
	lines := 0
	for i, w := range c.Weapons {
		note := ""
		if w.Damaged {
			note = ", damaged"
		}
		if i == c.EquippedWeapon {
			note += ", in hand"
		}
		g.say(fmt.Sprintf("  %s (%s%s)", w.Name, w.DamageDie, note))
		lines++
	}
	for i, ar := range c.Armors {
		note := ""
		if ar.Damaged {
			note = ", damaged"
		}
		if i == c.EquippedArmor {
			note += ", worn"
		}
		g.say(fmt.Sprintf("  %s (AC %d%s)", ar.Name, ar.ArmorClass+ar.ACBonus, note))
		lines++
	}
	for _, r := range c.Rings {
		g.say(fmt.Sprintf("  %s (%+d %s)", r.Name, r.Bonus, r.Attribute))
		lines++
	}
	for _, p := range g.Tables.Potions.All() {
		if n := c.Potions[p.Name]; n > 0 {
			g.say(fmt.Sprintf("  %s x%d", p.Name, n))
			lines++
		}
	}
	for _, s := range g.Tables.Spells.All() {
		if n := c.SpellUses[s.Name]; n > 0 {
			g.say(fmt.Sprintf("  Scroll of %s x%d", s.Name, n))
			lines++
		}
	}
	if lines == 0 {
		g.say("You carry nothing but lint and resolve.")
	}
	g.corridorMenu()
}

// corridorPotionItems lists drinkable stock for the corridor menu.
func (g *Game) corridorPotionItems() []MenuItem {
	var items []MenuItem
	for _, p := range g.Tables.Potions.All() {
		if p.Effect != data.PotionHealing && p.Effect != data.PotionAntidote {
			continue
		}
		if n := g.Char.Potions[p.Name]; n > 0 {
			items = append(items, MenuItem{
				ID:    "dp_" + p.Name,
				Label: fmt.Sprintf("%s x%d", p.Name, n),
			})
		}
	}
	return items
}

func (g *Game) describeTrap(out trap.Outcome) {
	if out.Dodged {
		g.say(fmt.Sprintf("A %s springs and you are already elsewhere.", out.Trap.Name))
		return
	}
	g.say(fmt.Sprintf("A %s catches you square.", out.Trap.Name))
	if out.Damage > 0 {
		g.say(fmt.Sprintf("It takes %d hp with it.", out.Damage))
	}
	if out.GoldLost > 0 {
		g.say(fmt.Sprintf("%d gold crumbles to worthless dust.", out.GoldLost))
	}
	if out.Poisoned {
		g.say("Something in the scratch burns. Poison.")
	}
	if out.RustedArm {
		g.say("Red flecks bloom along your blade. Cosmetic, probably.")
	}
	if out.DexLost > 0 {
		g.say(fmt.Sprintf("Your ankle never quite forgives you. (-%d dexterity)", out.DexLost))
	}
}
