package engine

import (
	"fmt"
	"strings"

	"github.com/labyrinth/server/internal/combat"
	"github.com/labyrinth/server/internal/data"
	"github.com/labyrinth/server/internal/labyrinth"
	"github.com/labyrinth/server/internal/persist"
	"github.com/labyrinth/server/internal/quest"
	"go.uber.org/zap"
)

const (
	revivalBaseDC    = 15
	revivalPerDeath  = 5
	revivalAttrFloor = 3
)

func (g *Game) startCombat(room labyrinth.Room) {
	g.Phase = PhaseCombat
	g.combatStage = "action"
	g.bossFight = room.Boss
	g.Fight = combat.New(g.Char, room.Monster, g.R, g.Scripts)

	g.clear()
	mon := room.Monster
	if room.Boss {
		g.scene(room.Background, "The dark opens into a vault of scorched bone. The Dragon has been expecting someone. Not you specifically. Anyone.")
	} else {
		g.scene(room.Background, fmt.Sprintf("A %s blocks the way.", mon.Name))
	}
	g.stats()

	if g.Fight.PlayerFirst {
		g.combatLine("You move first.")
		g.combatMenu()
	} else {
		g.combatLine(fmt.Sprintf("The %s moves first.", mon.Name))
		g.promptBlock()
	}
}

// combatMenu offers the actions still open this fight: charm is never
// offered to the Dragon, examine drops off after one use, divine after its
// once-per-depth favor is spent.
func (g *Game) combatMenu() {
	g.combatStage = "action"
	items := []MenuItem{{ID: "attack", Label: "Attack"}}
	if len(g.Char.SpellUses) > 0 {
		items = append(items, MenuItem{ID: "spell", Label: "Read a scroll"})
	}
	if len(g.Char.Potions) > 0 {
		items = append(items, MenuItem{ID: "potion", Label: "Drink a potion"})
	}
	if !g.bossFight {
		items = append(items, MenuItem{ID: "charm", Label: "Talk it down"})
	}
	if !g.Fight.Examined {
		items = append(items, MenuItem{ID: "examine", Label: "Size it up"})
	}
	if !g.Char.DivinedThisDepth {
		items = append(items, MenuItem{ID: "divine", Label: "Plead for favor"})
	}
	items = append(items, MenuItem{ID: "flee", Label: "Run"})
	g.menu(items...)
}

func (g *Game) handleCombat(a Action) {
	switch g.combatStage {
	case "zone":
		g.resolvePlayerAttack(a)
	case "block":
		g.resolveMonsterTurn(a)
	case "spell":
		g.resolveSpellPick(a)
	case "spell_power":
		g.resolveSpellPower(a)
	case "potion":
		g.resolvePotionPick(a)
	default:
		g.combatAction(a)
	}
}

func (g *Game) combatAction(a Action) {
	st := g.Fight
	switch a.Name {
	case "attack":
		g.combatStage = "zone"
		g.menu(
			MenuItem{ID: "head", Label: "Strike at the head"},
			MenuItem{ID: "torso", Label: "Strike at the torso"},
			MenuItem{ID: "legs", Label: "Strike at the legs"},
		)
	case "spell":
		items := g.scrollItems()
		if len(items) == 0 {
			g.combatMenu()
			return
		}
		g.combatStage = "spell"
		g.menu(append(items, MenuItem{ID: "back", Label: "Never mind"})...)
	case "potion":
		items := g.potionItems()
		if len(items) == 0 {
			g.combatMenu()
			return
		}
		g.combatStage = "potion"
		g.menu(append(items, MenuItem{ID: "back", Label: "Never mind"})...)
	case "charm":
		res := st.Charm(g.Char.Depth)
		switch {
		case res.Immune:
			g.combatLine("The Dragon's opinion of flattery is written in old scorch marks.")
			g.promptBlock()
		case res.Success:
			g.combatLine(fmt.Sprintf("Against all odds, the %s decides you are not worth the trouble.", st.Monster.Name))
			g.combatLine(fmt.Sprintf("It leaves behind %d xp worth of insight and %d gold in tribute.", res.XP, res.Gold))
			g.endCombatPeacefully()
		default:
			g.combatLine("Your best diplomacy bounces off its forehead.")
			g.promptBlock()
		}
	case "examine":
		success, used := st.Examine()
		switch {
		case used:
			g.combatLine("You have taken its measure already.")
		case success:
			if st.Monster.Description != "" {
				g.combatLine(st.Monster.Description)
			}
			g.combatLine(fmt.Sprintf("It has %d hp left, armor worth %d, and moves with %d dexterity.",
				st.Monster.HP, st.Monster.EffectiveAC(), st.Monster.DEX))
		default:
			g.combatLine("It is large and angry. Beyond that, nothing.")
		}
		g.combatMenu()
	case "divine":
		out := st.Divine()
		switch {
		case out.AlreadyUsed:
			g.combatLine("The gods have already spoken at this depth.")
			g.combatMenu()
			return
		case out.Damage > 0:
			g.combatLine(fmt.Sprintf("Light without a source falls on the %s like a hammer. (%d damage)", st.Monster.Name, out.Damage))
		default:
			g.combatLine("The silence overhead is total.")
		}
		if !st.Monster.Alive() {
			g.winCombat()
			return
		}
		g.stats()
		g.promptBlock()
	case "flee":
		if st.Flee() {
			g.combatLine("You run until the sound of it fades behind you.")
			g.Fight = nil
			g.Phase = PhaseLabyrinth
			g.saveGame()
			g.corridorMenu()
		} else {
			g.combatLine("It cuts off your retreat.")
			g.promptBlock()
		}
	default:
		g.unknown(a)
	}
}

func (g *Game) scrollItems() []MenuItem {
	var items []MenuItem
	for _, s := range g.Tables.Spells.All() {
		if n := g.Char.SpellUses[s.Name]; n > 0 {
			items = append(items, MenuItem{
				ID:    "cast_" + s.Name,
				Label: fmt.Sprintf("%s x%d", s.Name, n),
			})
		}
	}
	return items
}

func (g *Game) potionItems() []MenuItem {
	var items []MenuItem
	for _, p := range g.Tables.Potions.All() {
		if n := g.Char.Potions[p.Name]; n > 0 {
			items = append(items, MenuItem{
				ID:    "drink_" + p.Name,
				Label: fmt.Sprintf("%s x%d", p.Name, n),
			})
		}
	}
	return items
}

func (g *Game) resolveSpellPick(a Action) {
	if a.Name == "back" {
		g.combatMenu()
		return
	}
	name := strings.TrimPrefix(a.Name, "cast_")
	tmpl := g.Tables.Spells.Get(name)
	if tmpl == nil || g.Char.SpellUses[name] <= 0 {
		g.unknown(a)
		return
	}
	if tmpl.Effect == data.SpellSplitDamage {
		// The caster chooses how much to let through.
		g.pendingSpell = name
		g.combatStage = "spell_power"
		g.menu(
			MenuItem{ID: "full", Label: fmt.Sprintf("Full fury (%s)", tmpl.Die)},
			MenuItem{ID: "half", Label: fmt.Sprintf("Controlled (%s)", tmpl.HalfDie)},
			MenuItem{ID: "back", Label: "Never mind"},
		)
		return
	}
	g.Char.ConsumeScroll(name)
	g.castSpell(tmpl, false)
}

func (g *Game) resolveSpellPower(a Action) {
	tmpl := g.Tables.Spells.Get(g.pendingSpell)
	switch a.Name {
	case "full", "half":
		if tmpl == nil || !g.Char.ConsumeScroll(g.pendingSpell) {
			g.pendingSpell = ""
			g.unknown(a)
			return
		}
		g.pendingSpell = ""
		g.castSpell(tmpl, a.Name == "full")
	case "back":
		g.pendingSpell = ""
		g.combatMenu()
	default:
		g.unknown(a)
	}
}

func (g *Game) castSpell(tmpl *data.SpellTemplate, fullPower bool) {
	out := g.Fight.CastSpell(tmpl, fullPower)
	g.describeSpell(tmpl, out)

	if out.Escaped {
		g.combatLine("The scroll folds space politely around you and deposits you in the town square.")
		g.Fight = nil
		g.enterTown()
		return
	}
	if !g.Fight.Monster.Alive() {
		g.winCombat()
		return
	}
	g.stats()
	g.promptBlock()
}

func (g *Game) describeSpell(tmpl *data.SpellTemplate, out combat.SpellOutcome) {
	switch out.Effect {
	case data.SpellDamage, data.SpellSplitDamage:
		if out.FullForce {
			g.combatLine(fmt.Sprintf("The %s lands true for %d damage.", tmpl.Name, out.Damage))
		} else {
			g.combatLine(fmt.Sprintf("The %s hits for %d damage.", tmpl.Name, out.Damage))
		}
		if out.Resisted > 0 {
			g.combatLine(fmt.Sprintf("Its hide shrugs off %d of it.", out.Resisted))
		}
	case data.SpellHeal:
		g.combatLine(fmt.Sprintf("The words knit flesh as you read them. (+%d hp)", out.Healed))
	case data.SpellFreeze:
		g.combatLine("Frost crawls over it and holds.")
	case data.SpellVulnerability:
		g.combatLine("Its hide softens like old leather.")
	case data.SpellWeakness:
		g.combatLine("Its blows will land lighter now.")
	case data.SpellSummon:
		if out.Summon != nil && out.Summon.Success {
			g.combatLine(fmt.Sprintf("Something answers. A %s steps out of the dark beside you.", out.Summon.Companion.Name))
		} else {
			g.combatLine("The circle flares and nothing comes.")
		}
	}
}

func (g *Game) resolvePotionPick(a Action) {
	if a.Name == "back" {
		g.combatMenu()
		return
	}
	name := strings.TrimPrefix(a.Name, "drink_")
	tmpl := g.Tables.Potions.Get(name)
	if tmpl == nil || !g.Char.ConsumePotion(name) {
		g.unknown(a)
		return
	}
	out := g.Fight.DrinkPotion(tmpl)
	switch out.Effect {
	case data.PotionHealing:
		g.combatLine(fmt.Sprintf("The draught burns going down and mends on the way. (+%d hp)", out.Healed))
	case data.PotionStrength:
		g.combatLine("Your grip could crack stone.")
	case data.PotionIntelligence:
		g.combatLine("The fight slows down in your mind's eye.")
	case data.PotionSpeed:
		g.combatLine("The world drags; you do not.")
	case data.PotionProtection:
		g.combatLine("The air thickens around you like a second skin.")
	case data.PotionInvisibility:
		g.combatLine("You fade from its sight.")
	case data.PotionAntidote:
		g.combatLine("The venom sours and dies in your blood.")
	}
	g.stats()
	if out.FreeAction {
		g.combatMenu()
		return
	}
	g.promptBlock()
}

func (g *Game) resolvePlayerAttack(a Action) {
	zone := a.Name
	valid := false
	for _, z := range combat.Zones {
		if z == zone {
			valid = true
		}
	}
	if !valid {
		g.unknown(a)
		return
	}

	st := g.Fight
	swings := 1 + st.ExtraAttacks
	for i := 0; i < swings && st.Monster.Alive(); i++ {
		if i > 0 {
			// Each extra swing spends one Speed charge.
			st.ExtraAttacks--
		}
		out := st.PlayerAttack(zone)
		g.describePlayerSwing(out)
		if g.Char.HP <= 0 {
			g.playerDied()
			return
		}
	}
	if !st.Monster.Alive() {
		g.winCombat()
		return
	}

	if cp := g.Char.Companion; cp != nil && cp.HP > 0 {
		out := st.CompanionAttack()
		if out.Hit {
			g.combatLine(fmt.Sprintf("Your %s tears in for %d damage.", cp.Name, out.Damage))
		} else {
			g.combatLine(fmt.Sprintf("Your %s lunges and misses.", cp.Name))
		}
		if !st.Monster.Alive() {
			g.winCombat()
			return
		}
	}
	g.stats()
	g.promptBlock()
}

func (g *Game) describePlayerSwing(out combat.AttackOutcome) {
	switch {
	case out.Fumble:
		g.combatLine(fmt.Sprintf("Your swing goes wide and finds your own shin. (%d self-inflicted)", out.SelfInjury))
	case out.Crit:
		g.combatLine(fmt.Sprintf("A perfect opening. Critical hit for %d damage.", out.Damage))
	case out.Blocked:
		g.combatLine(fmt.Sprintf("It reads your strike at the %s and turns it aside.", out.TargetZone))
	case out.Hit:
		g.combatLine(fmt.Sprintf("You connect at the %s for %d damage.", out.TargetZone, out.Damage))
	default:
		g.combatLine("Your blow glances off without biting.")
	}
	if out.Degraded {
		g.combatLine("Something in your weapon's edge gives way.")
	}
}

func (g *Game) promptBlock() {
	g.combatStage = "block"
	g.menu(
		MenuItem{ID: "head", Label: "Guard your head"},
		MenuItem{ID: "torso", Label: "Guard your torso"},
		MenuItem{ID: "legs", Label: "Guard your legs"},
	)
}

func (g *Game) resolveMonsterTurn(a Action) {
	zone := a.Name
	valid := false
	for _, z := range combat.Zones {
		if z == zone {
			valid = true
		}
	}
	if !valid {
		g.unknown(a)
		return
	}

	st := g.Fight
	wasFrozen := st.Monster.FrozenTurns > 0
	wasInvisible := st.Invisible
	out := st.MonsterAttack(zone)
	g.describeMonsterSwing(out, wasFrozen, wasInvisible)

	if dmg := st.PoisonTick(); dmg > 0 {
		g.combatLine(fmt.Sprintf("The poison gnaws at you for %d.", dmg))
	}
	g.stats()

	if g.Char.HP <= 0 {
		g.playerDied()
		return
	}
	if !st.Monster.Alive() {
		// A fumbling monster can finish itself.
		g.winCombat()
		return
	}
	g.combatMenu()
}

func (g *Game) describeMonsterSwing(out combat.AttackOutcome, wasFrozen, wasInvisible bool) {
	name := g.Fight.Monster.Name
	switch {
	case wasFrozen:
		g.combatLine(fmt.Sprintf("The %s strains against the frost and goes nowhere.", name))
	case wasInvisible:
		g.combatLine(fmt.Sprintf("The %s swings at where you were. You are not there.", name))
	case out.Fumble:
		g.combatLine(fmt.Sprintf("The %s overreaches and hurts itself. (%d)", name, out.SelfInjury))
	case out.Crit:
		g.combatLine(fmt.Sprintf("The %s finds a gap. Critical hit for %d damage.", name, out.Damage))
	case out.Blocked:
		g.combatLine(fmt.Sprintf("It goes for your %s; your guard was already there.", out.TargetZone))
	case out.Hit:
		g.combatLine(fmt.Sprintf("It tears into your %s for %d damage.", out.TargetZone, out.Damage))
	default:
		g.combatLine(fmt.Sprintf("The %s's blow skids off your armor.", name))
	}
	if out.Degraded {
		g.combatLine("Your armor takes the worst of it and keeps the dent.")
	}
}

// endCombatPeacefully closes a fight that ended without a corpse but with
// the room yielded: charm clears the depth the same as a kill.
func (g *Game) endCombatPeacefully() {
	g.Fight = nil
	g.Char.DepthCleared = true
	g.Phase = PhaseLabyrinth
	g.saveGame()
	g.stats()
	g.corridorMenu()
}

func (g *Game) winCombat() {
	st := g.Fight
	mon := st.Monster
	rewards := st.Victory(g.Char.Depth)
	g.combatLine(fmt.Sprintf("The %s drops. %d xp, %d gold.", mon.Name, rewards.XP, rewards.Gold))
	if rewards.LevelsGained > 0 {
		g.combatLine(fmt.Sprintf("You are now level %d. Spend your new point in town.", g.Char.Level))
	}

	if paid := quest.CreditKill(g.Char, mon.Name); paid > 0 {
		g.combatLine(fmt.Sprintf("That settles a contract. %d gold, as posted.", paid))
	}

	drop := st.RollDrops(g.Tables)
	if drop.Potion != nil {
		g.Char.AddPotion(drop.Potion.Name, 1)
		g.combatLine(fmt.Sprintf("It was carrying a %s.", drop.Potion.Name))
	}
	if drop.Scroll != nil {
		g.Char.AddScroll(drop.Scroll.Name, 1)
		g.combatLine(fmt.Sprintf("A scroll of %s survived the fight.", drop.Scroll.Name))
	}
	if drop.Ring != nil {
		g.Char.BindRing(*drop.Ring)
		g.combatLine(fmt.Sprintf("Among the remains: a %s. It settles onto your finger as if it had always been there.", drop.Ring.Name))
	}
	if drop.Weapon != nil {
		g.Char.Weapons = append(g.Char.Weapons, *drop.Weapon)
		g.combatLine(fmt.Sprintf("Its hoard yields a %s.", drop.Weapon.Name))
	}
	if drop.Armor != nil {
		g.Char.Armors = append(g.Char.Armors, *drop.Armor)
		g.combatLine(fmt.Sprintf("Its hoard yields a %s.", drop.Armor.Name))
	}

	boss := g.bossFight
	g.Fight = nil
	g.bossFight = false

	if boss {
		g.gameWon()
		return
	}
	g.Char.DepthCleared = true
	g.Phase = PhaseLabyrinth
	g.saveGame()
	g.stats()
	g.corridorMenu()
}

func (g *Game) gameWon() {
	g.Phase = PhaseVictory
	g.room = nil
	g.clear()
	g.scene(bgVictory, "The Dragon's last breath gutters out. Above you, very faintly, bells.")
	g.say(fmt.Sprintf("%s walked into the Labyrinth of Souls and walked back out. Few sentences like that get finished.", g.Char.Name))
	c := g.Char
	g.say(fmt.Sprintf("The ledger of the run: %d monsters slain, %d contracts honored, %d potions drunk, %d scrolls read.",
		c.MonstersSlain, c.QuestsCompleted, c.PotionsUsed, c.ScrollsUsed))
	g.say(fmt.Sprintf("%d gold earned, %d spent, %d death(s) walked back from.",
		c.GoldEarned, c.GoldSpent, c.DeathCount))
	g.recordRun("victory")
	g.saveGame()
	g.pause()
}

func (g *Game) handleVictory(Action) {
	g.Char = nil
	g.showMainMenu()
}

func (g *Game) recordRun(outcome string) {
	ctx, cancel := g.storeCtx()
	defer cancel()
	err := g.Store.Append(ctx, persist.RunRecord{
		DeviceID:      g.DeviceID,
		Name:          g.Char.Name,
		Level:         g.Char.Level,
		Depth:         g.Char.DeepestDepth,
		MonstersSlain: g.Char.MonstersSlain,
		Gold:          g.Char.GoldEarned,
		Outcome:       outcome,
	})
	if err != nil {
		g.Log.Error("record run", zap.Error(err))
	}
}

// playerDied resolves death on the spot: one revival roll against a DC
// that climbs with every death, this one included.
func (g *Game) playerDied() {
	g.Fight = nil
	g.bossFight = false
	g.room = nil
	g.Phase = PhaseRevival
	g.clear()
	g.scene(bgDeath, g.flavor("labyrinth", "death", "The dark closes over you like water.", nil))

	c := g.Char
	c.DeathCount++
	roll := g.R.Roll(5, 4) + c.Attribute("wisdom")
	dc := revivalBaseDC + revivalPerDeath*c.DeathCount
	if roll >= dc {
		g.revivalFail = false
		for _, name := range data.AttributeNames {
			if c.Attributes[name] > revivalAttrFloor {
				c.Attributes[name]--
			}
		}
		c.HP = 1
		c.PoisonTurns = 0
		c.PendingReset = true
		g.say("Something drags you back by the collar of your soul. It costs you; it always costs.")
		g.say("Every part of you is one notch weaker than it was.")
		g.saveGame()
	} else {
		g.revivalFail = true
		g.say("This time, nothing reaches down after you.")
		g.recordRun("death")
		g.deleteSave()
	}
	g.pause()
}

func (g *Game) handleRevival(Action) {
	if g.revivalFail {
		g.Char = nil
		g.revivalFail = false
		g.showMainMenu()
		return
	}
	g.enterTown()
}
