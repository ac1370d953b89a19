package engine

import (
	"fmt"
	"strings"

	"github.com/labyrinth/server/internal/data"
	"github.com/labyrinth/server/internal/quest"
)

const (
	healerCost      = 40
	eatCost         = 10
	tavernCost      = 10
	restCost        = 10
	curseRemovalFee = 10
	repairCost      = 30
	serviceCheckDC  = 25
)

// enterTown resets per-visit services and shows the town square.
func (g *Game) enterTown() {
	g.Char.EnterTown()
	if g.Char.PendingReset {
		g.Char.ResetDepth()
		g.Char.PendingReset = false
		g.room = nil
	}
	g.Fight = nil
	g.saveGame()
	g.Phase = PhaseTown
	g.clear()
	g.scene(bgTown, g.flavor("town", "square", "The town square. Torches gutter against the mountain dark.", nil))
	g.stats()
	g.townMenu()
}

func (g *Game) townMenu() {
	g.menu(
		MenuItem{ID: "labyrinth", Label: "Enter the Labyrinth"},
		MenuItem{ID: "healer", Label: "Healer's Hut"},
		MenuItem{ID: "shop", Label: "General Shop"},
		MenuItem{ID: "weaponsmith", Label: "Weaponsmith"},
		MenuItem{ID: "temple", Label: "Temple"},
		MenuItem{ID: "inn", Label: "Inn"},
		MenuItem{ID: "tavern", Label: "Tavern"},
		MenuItem{ID: "eat", Label: "Eat"},
		MenuItem{ID: "training", Label: "Training Grounds"},
		MenuItem{ID: "gambling", Label: "Gambling Den"},
		MenuItem{ID: "quests", Label: "Notice Board"},
		MenuItem{ID: "companion", Label: "Companion"},
		MenuItem{ID: "inventory", Label: "Inventory"},
		MenuItem{ID: "character", Label: "Character"},
		MenuItem{ID: "save_quit", Label: "Save and Quit"},
	)
}

func (g *Game) handleTown(a Action) {
	switch a.Name {
	case "labyrinth":
		g.enterLabyrinth()
	case "healer":
		g.visitHealer()
		g.townMenu()
	case "shop":
		g.Phase = PhaseShop
		g.shopMode = ""
		g.scene(bgShop, "Shelves of doubtful provenance. The shopkeep smiles too widely.")
		g.shopMenu()
	case "weaponsmith":
		g.Phase = PhaseSmith
		g.scene(bgSmith, "The smith looks your gear over and sucks air through her teeth.")
		g.smithMenu()
	case "temple":
		g.Phase = PhaseTemple
		g.scene(bgTemple, "Cold incense. The idols here predate the town.")
		g.templeMenu()
	case "inn":
		g.Phase = PhaseInn
		g.scene(bgInn, "The innkeep nods at the one bed that doesn't wobble.")
		g.innMenu()
	case "tavern":
		g.scene(bgTavern, "Noise, smoke, and somebody else's argument.")
		g.serviceHeal("tavern", "charisma", tavernCost,
			"A round bought, a story told, and the weight lifts a little.",
			"Nobody laughs at your jokes. The ale is thin.")
		g.townMenu()
	case "eat":
		g.scene(bgEat, "Stew again. It is always stew.")
		g.serviceHeal("eat", "charisma", eatCost,
			"Good company and a full bowl do you a world of good.",
			"You eat alone in the corner. The stew does not help.")
		g.townMenu()
	case "training":
		g.Phase = PhaseTraining
		g.scene(bgTraining, "Pells, practice dummies, and a drill-sergeant with opinions.")
		g.trainingMenu()
	case "gambling":
		g.Phase = PhaseGambling
		g.resetGamble()
		g.scene(bgGambling, "Dice rattle behind a curtain of pipe smoke.")
		g.gamblingMenu()
	case "quests":
		g.Phase = PhaseQuests
		g.questsMenu()
	case "companion":
		g.Phase = PhaseCompanion
		g.companionMenu()
	case "inventory":
		g.Phase = PhaseInventory
		g.inventoryMenu()
	case "character":
		g.Phase = PhaseCharacter
		g.characterMenu()
	case "save_quit":
		g.saveGame()
		g.say("Your progress is recorded. Sleep well.")
		g.showMainMenu()
	default:
		g.unknown(a)
	}
}

// visitHealer is the one paid service with no daily limit: full heal and
// every lingering debuff cleansed.
func (g *Game) visitHealer() {
	g.scene(bgHealer, g.flavor("town", "healer", "Herbs hang from every rafter.", nil))
	if g.Char.Gold < healerCost {
		g.say(fmt.Sprintf("The healer wants %d gold. Your purse disagrees.", healerCost))
		return
	}
	g.Char.AddGold(-healerCost)
	g.Char.HP = g.Char.MaxHP
	g.Char.PoisonTurns = 0
	g.say("Bitter tea, steady hands, and you are whole again.")
	g.stats()
}

// serviceHeal is the shared once-per-visit recovery check: pay the cost,
// roll 5d4 plus the named attribute against 25, and heal a third of max hp
// on success.
func (g *Game) serviceHeal(key, attr string, cost int, successText, failText string) {
	if g.Char.TownUsed[key] {
		g.say("You have already done that this visit.")
		return
	}
	if cost > 0 && g.Char.Gold < cost {
		g.say(fmt.Sprintf("That costs %d gold you do not have.", cost))
		return
	}
	g.Char.TownUsed[key] = true
	if cost > 0 {
		g.Char.AddGold(-cost)
	}
	roll := g.R.Roll(5, 4) + g.Char.Attribute(attr)
	if roll > serviceCheckDC {
		healed := g.Char.Heal((g.Char.MaxHP + 2) / 3)
		if healed == 0 {
			g.say("You feel fine. You felt fine already.")
		} else {
			g.say(fmt.Sprintf("%s (+%d hp)", successText, healed))
		}
	} else {
		g.say(failText)
	}
	g.stats()
}

// --- Temple ---

func (g *Game) templeMenu() {
	items := []MenuItem{
		{ID: "pray", Label: "Pray"},
	}
	for i, r := range g.Char.Rings {
		if r.Cursed {
			items = append(items, MenuItem{
				ID:    fmt.Sprintf("uncurse_%d", i),
				Label: fmt.Sprintf("Lift curse: %s (%d gold)", r.Name, curseRemovalFee),
			})
		}
	}
	items = append(items, MenuItem{ID: "back", Label: "Back to town"})
	g.menu(items...)
}

func (g *Game) handleTemple(a Action) {
	switch {
	case a.Name == "pray":
		g.serviceHeal("pray", "wisdom", 0,
			"Something old and patient listens.",
			"The idols keep their counsel.")
		g.templeMenu()
	case a.Name == "back":
		g.backToTown()
	default:
		var idx int
		if _, err := fmt.Sscanf(a.Name, "uncurse_%d", &idx); err != nil || idx < 0 || idx >= len(g.Char.Rings) {
			g.unknown(a)
			return
		}
		ring := &g.Char.Rings[idx]
		if !ring.Cursed {
			g.unknown(a)
			return
		}
		if g.Char.Gold < curseRemovalFee {
			g.say("The rite requires gold you do not have.")
			g.templeMenu()
			return
		}
		g.Char.AddGold(-curseRemovalFee)
		ring.Cursed = false
		g.Char.SetRingEquipped(idx, false)
		g.say(fmt.Sprintf("The priest pries the %s free. It is only metal now.", ring.Name))
		g.stats()
		g.saveGame()
		g.templeMenu()
	}
}

// --- Inn ---

func (g *Game) innMenu() {
	g.menu(
		MenuItem{ID: "sleep", Label: "Sleep (free)"},
		MenuItem{ID: "rest", Label: fmt.Sprintf("Proper rest (%d gold)", restCost)},
		MenuItem{ID: "back", Label: "Back to town"},
	)
}

func (g *Game) handleInn(a Action) {
	switch a.Name {
	case "sleep":
		g.serviceHeal("sleep", "constitution", 0,
			"You sleep like the dead, but wake up better than them.",
			"The mattress has opinions and shares them all night.")
		g.innMenu()
	case "rest":
		g.serviceHeal("rest", "constitution", restCost,
			"Hot water, clean linen, and silence.",
			"Even the good room cannot fix what ails you.")
		g.innMenu()
	case "back":
		g.backToTown()
	default:
		g.unknown(a)
	}
}

// --- Training ---

// trainingMenu prices each discipline separately: repeat sessions in the
// same attribute cost another 50 gold, and seven sessions total is all any
// one body can absorb.
func (g *Game) trainingMenu() {
	if g.Char.TrainingTotal() >= 7 {
		g.say("The sergeant shakes her head. There is nothing left to teach you.")
		g.menu(MenuItem{ID: "back", Label: "Back to town"})
		return
	}
	g.say("The sergeant names a price per discipline.")
	items := make([]MenuItem, 0, len(data.AttributeNames)+1)
	for _, name := range data.AttributeNames {
		items = append(items, MenuItem{
			ID:    name,
			Label: fmt.Sprintf("%s (%d) — %d gold", name, g.Char.Attributes[name], g.Char.TrainingCost(name)),
		})
	}
	items = append(items, MenuItem{ID: "back", Label: "Back to town"})
	g.menu(items...)
}

func (g *Game) handleTraining(a Action) {
	if a.Name == "back" {
		g.backToTown()
		return
	}
	if _, ok := g.Char.Attributes[a.Name]; !ok {
		g.unknown(a)
		return
	}
	cost := g.Char.TrainingCost(a.Name)
	if cost < 0 {
		g.backToTown()
		return
	}
	if g.Char.Gold < cost {
		g.say("Come back when you can pay.")
		g.trainingMenu()
		return
	}
	g.Char.AddGold(-cost)
	g.Char.Train(a.Name)
	g.say(fmt.Sprintf("A week of drills later, your %s stands at %d.", a.Name, g.Char.Attributes[a.Name]))
	g.saveGame()
	g.stats()
	g.trainingMenu()
}

// --- Character sheet ---

func (g *Game) characterMenu() {
	c := g.Char
	g.say(fmt.Sprintf("%s, level %d (%d xp). Deaths: %d.", c.Name, c.Level, c.XP, c.DeathCount))
	for _, name := range data.AttributeNames {
		g.say(fmt.Sprintf("  %-13s %d", name, c.Attribute(name)))
	}
	if c.UnspentPoints > 0 {
		g.say(fmt.Sprintf("You have %d attribute point(s) to spend.", c.UnspentPoints))
		items := make([]MenuItem, 0, len(data.AttributeNames)+1)
		for _, name := range data.AttributeNames {
			items = append(items, MenuItem{ID: "spend_" + name, Label: "Raise " + name})
		}
		items = append(items, MenuItem{ID: "back", Label: "Back to town"})
		g.menu(items...)
		return
	}
	g.menu(MenuItem{ID: "back", Label: "Back to town"})
}

func (g *Game) handleCharacter(a Action) {
	if a.Name == "back" {
		g.backToTown()
		return
	}
	var attr string
	if _, err := fmt.Sscanf(a.Name, "spend_%s", &attr); err != nil {
		g.unknown(a)
		return
	}
	if !g.Char.SpendPoint(attr) {
		g.unknown(a)
		return
	}
	g.say(fmt.Sprintf("Your %s rises to %d.", attr, g.Char.Attributes[attr]))
	g.saveGame()
	g.stats()
	g.characterMenu()
}

// --- Quests ---

func (g *Game) questsMenu() {
	for _, q := range g.Char.Quests {
		g.say(fmt.Sprintf("  Open contract: %s a %s (%d/%d), %d gold",
			q.Kind, q.Target, q.Progress, q.Goal, q.Reward))
	}
	g.questDraft = quest.Offer(g.Char, g.Tables, g.R)
	if g.questDraft == nil {
		g.say("The board offers nothing new.")
		g.menu(MenuItem{ID: "back", Label: "Back to town"})
		return
	}
	g.say(fmt.Sprintf("New notice: %s a %s for %d gold.",
		g.questDraft.Kind, g.questDraft.Target, g.questDraft.Reward))
	g.menu(
		MenuItem{ID: "accept_quest", Label: "Take the contract"},
		MenuItem{ID: "back", Label: "Back to town"},
	)
}

func (g *Game) handleQuests(a Action) {
	switch a.Name {
	case "accept_quest":
		if quest.Accept(g.Char, g.questDraft) {
			g.say("You tear the notice from the board.")
			g.saveGame()
		}
		g.questDraft = nil
		g.backToTown()
	case "back":
		g.questDraft = nil
		g.backToTown()
	default:
		g.unknown(a)
	}
}

// --- Companion ---

func (g *Game) companionMenu() {
	cp := g.Char.Companion
	if cp == nil {
		g.say("No creature walks beside you.")
		g.menu(MenuItem{ID: "back", Label: "Back to town"})
		return
	}
	g.say(fmt.Sprintf("%s pads at your heel. %d/%d hp, hits for %s.",
		cp.Name, cp.HP, cp.MaxHP, cp.DamageDie))
	items := []MenuItem{
		{ID: "rename", Label: "Give it a name"},
	}
	if cp.HP < cp.MaxHP && g.healingPotionName() != "" {
		items = append(items, MenuItem{ID: "heal_companion", Label: "Share a healing potion"})
	}
	items = append(items,
		MenuItem{ID: "dismiss", Label: "Release it"},
		MenuItem{ID: "back", Label: "Back to town"},
	)
	g.menu(items...)
}

// healingPotionName returns the name of a carried healing potion, or "".
func (g *Game) healingPotionName() string {
	for _, p := range g.Tables.Potions.All() {
		if p.Effect == data.PotionHealing && g.Char.Potions[p.Name] > 0 {
			return p.Name
		}
	}
	return ""
}

func (g *Game) handleCompanion(a Action) {
	if g.lastPrompt == "companion_name" {
		g.lastPrompt = ""
		name := strings.TrimSpace(a.Value)
		if cp := g.Char.Companion; cp != nil && name != "" && len(name) <= 20 {
			g.say(fmt.Sprintf("The %s perks up. %s it is.", cp.Name, name))
			cp.Name = name
			g.saveGame()
		}
		g.companionMenu()
		return
	}

	switch a.Name {
	case "rename":
		if g.Char.Companion == nil {
			g.unknown(a)
			return
		}
		g.prompt("companion_name", "What will you call it?")
	case "heal_companion":
		cp := g.Char.Companion
		name := g.healingPotionName()
		if cp == nil || cp.HP >= cp.MaxHP || name == "" || !g.Char.ConsumePotion(name) {
			g.unknown(a)
			return
		}
		healed := g.R.Roll(2, 4)
		if cp.HP+healed > cp.MaxHP {
			healed = cp.MaxHP - cp.HP
		}
		cp.HP += healed
		g.say(fmt.Sprintf("%s laps up the %s. (+%d hp)", cp.Name, name, healed))
		g.saveGame()
		g.companionMenu()
	case "dismiss":
		if cp := g.Char.Companion; cp != nil {
			g.say(fmt.Sprintf("The %s looks back once, then is gone.", cp.Name))
			g.Char.Companion = nil
			g.saveGame()
		}
		g.backToTown()
	case "back":
		g.backToTown()
	default:
		g.unknown(a)
	}
}

func (g *Game) backToTown() {
	g.Phase = PhaseTown
	g.scene(bgTown, "The town square.")
	g.stats()
	g.townMenu()
}
