package engine

import (
	"fmt"
	"strings"

	"github.com/labyrinth/server/internal/entity"
)

const ringBasePrice = 50

func (g *Game) shopMenu() {
	g.shopMode = ""
	g.menu(
		MenuItem{ID: "weapons", Label: "Buy weapons"},
		MenuItem{ID: "armor", Label: "Buy armor"},
		MenuItem{ID: "potions", Label: "Buy potions"},
		MenuItem{ID: "scrolls", Label: "Buy scrolls"},
		MenuItem{ID: "sell", Label: "Sell"},
		MenuItem{ID: "back", Label: "Back to town"},
	)
}

func (g *Game) handleShop(a Action) {
	if g.shopMode == "sell_confirm" {
		g.handleSellConfirm(a)
		return
	}
	switch a.Name {
	case "weapons", "armor", "potions", "scrolls", "sell":
		g.shopMode = a.Name
		g.showShopList()
	case "back":
		if g.shopMode != "" {
			g.shopMode = ""
			g.shopMenu()
			return
		}
		g.backToTown()
	default:
		g.handleShopPick(a)
	}
}

func (g *Game) showShopList() {
	var items []MenuItem
	switch g.shopMode {
	case "weapons":
		for i, w := range g.Tables.Weapons.ShopStock() {
			items = append(items, MenuItem{
				ID:    fmt.Sprintf("buy_%d", i),
				Label: fmt.Sprintf("%s (%s) — %d gold", w.Name, w.DamageDie, w.Price),
			})
		}
	case "armor":
		for i, ar := range g.Tables.Armors.ShopStock() {
			items = append(items, MenuItem{
				ID:    fmt.Sprintf("buy_%d", i),
				Label: fmt.Sprintf("%s (AC %d) — %d gold", ar.Name, ar.ArmorClass, ar.Price),
			})
		}
	case "potions":
		for i, p := range g.Tables.Potions.ShopStock() {
			items = append(items, MenuItem{
				ID:    fmt.Sprintf("buy_%d", i),
				Label: fmt.Sprintf("%s — %d gold", p.Name, p.Price),
			})
		}
	case "scrolls":
		for i, s := range g.Tables.Spells.ShopStock() {
			items = append(items, MenuItem{
				ID:    fmt.Sprintf("buy_%d", i),
				Label: fmt.Sprintf("Scroll of %s — %d gold", s.Name, s.Price),
			})
		}
	case "sell":
		items = g.sellList()
	}
	if len(items) == 0 {
		g.say("Nothing on offer there.")
	}
	items = append(items, MenuItem{ID: "back", Label: "Back"})
	g.menu(items...)
}

func (g *Game) handleShopPick(a Action) {
	var idx int
	if scan(a.Name, "buy_%d", &idx) && g.shopMode != "sell" && g.shopMode != "" {
		g.buyItem(idx)
		return
	}
	if g.shopMode == "sell" && strings.HasPrefix(a.Name, "sell_") {
		g.offerSale(a.Name)
		return
	}
	g.unknown(a)
}

func (g *Game) buyItem(idx int) {
	charge := func(price int) bool {
		if g.Char.Gold < price {
			g.say("Your purse comes up short.")
			return false
		}
		g.Char.AddGold(-price)
		return true
	}
	switch g.shopMode {
	case "weapons":
		stock := g.Tables.Weapons.ShopStock()
		if idx < 0 || idx >= len(stock) {
			return
		}
		if charge(stock[idx].Price) {
			g.Char.Weapons = append(g.Char.Weapons, entity.NewWeapon(stock[idx]))
			g.say(fmt.Sprintf("The %s is yours.", stock[idx].Name))
		}
	case "armor":
		stock := g.Tables.Armors.ShopStock()
		if idx < 0 || idx >= len(stock) {
			return
		}
		if charge(stock[idx].Price) {
			g.Char.Armors = append(g.Char.Armors, entity.NewArmor(stock[idx]))
			g.say(fmt.Sprintf("The %s is yours.", stock[idx].Name))
		}
	case "potions":
		stock := g.Tables.Potions.ShopStock()
		if idx < 0 || idx >= len(stock) {
			return
		}
		if charge(stock[idx].Price) {
			g.Char.AddPotion(stock[idx].Name, 1)
			g.say(fmt.Sprintf("One %s, corked and paid for.", stock[idx].Name))
		}
	case "scrolls":
		stock := g.Tables.Spells.ShopStock()
		if idx < 0 || idx >= len(stock) {
			return
		}
		if charge(stock[idx].Price) {
			g.Char.AddScroll(stock[idx].Name, 1)
			g.say(fmt.Sprintf("A scroll of %s, ink still sharp.", stock[idx].Name))
		}
	}
	g.saveGame()
	g.stats()
	g.showShopList()
}

// The shop takes nothing equipped, damaged, or cursed. The same checks
// gate both the menu and the incoming sell action; clients forge ids.
func (g *Game) sellableWeapon(i int) bool {
	if i < 0 || i >= len(g.Char.Weapons) {
		return false
	}
	w := g.Char.Weapons[i]
	return i != g.Char.EquippedWeapon && !w.Damaged && !w.Cursed && w.Price > 0
}

func (g *Game) sellableArmor(i int) bool {
	if i < 0 || i >= len(g.Char.Armors) {
		return false
	}
	ar := g.Char.Armors[i]
	return i != g.Char.EquippedArmor && !ar.Damaged && !ar.Cursed && ar.Price > 0
}

func (g *Game) sellableRing(i int) bool {
	if i < 0 || i >= len(g.Char.Rings) {
		return false
	}
	r := g.Char.Rings[i]
	return !r.Equipped && !r.Cursed
}

func (g *Game) sellList() []MenuItem {
	var items []MenuItem
	for i, w := range g.Char.Weapons {
		if !g.sellableWeapon(i) {
			continue
		}
		items = append(items, MenuItem{
			ID:    fmt.Sprintf("sell_w%d", i),
			Label: fmt.Sprintf("%s (base %d gold)", w.Name, w.Price),
		})
	}
	for i, ar := range g.Char.Armors {
		if !g.sellableArmor(i) {
			continue
		}
		items = append(items, MenuItem{
			ID:    fmt.Sprintf("sell_a%d", i),
			Label: fmt.Sprintf("%s (base %d gold)", ar.Name, ar.Price),
		})
	}
	for i, r := range g.Char.Rings {
		if !g.sellableRing(i) {
			continue
		}
		items = append(items, MenuItem{
			ID:    fmt.Sprintf("sell_r%d", i),
			Label: fmt.Sprintf("%s (base %d gold)", r.Name, ringBasePrice),
		})
	}
	return items
}

// offerSale haggles a price: half the base, shaded by charisma, with a
// little daily noise. The player sees the final offer before agreeing.
func (g *Game) offerSale(id string) {
	var idx int
	var base int
	switch {
	case scan(id, "sell_w%d", &idx) && g.sellableWeapon(idx):
		g.saleKind, g.saleIndex, base = "w", idx, g.Char.Weapons[idx].Price
	case scan(id, "sell_a%d", &idx) && g.sellableArmor(idx):
		g.saleKind, g.saleIndex, base = "a", idx, g.Char.Armors[idx].Price
	case scan(id, "sell_r%d", &idx) && g.sellableRing(idx):
		g.saleKind, g.saleIndex, base = "r", idx, ringBasePrice
	default:
		g.unknown(Action{Name: id})
		return
	}

	price := float64(base) * 0.5
	cha := g.Char.Attribute("charisma")
	if cha >= 15 {
		price *= 1.2
	} else if cha <= 6 {
		price *= 0.8
	}
	price *= 0.9 + g.R.Float64()*0.2
	g.salePrice = int(price)
	if g.salePrice < 1 {
		g.salePrice = 1
	}

	g.shopMode = "sell_confirm"
	g.say(fmt.Sprintf("The shopkeep turns it over twice and offers %d gold.", g.salePrice))
	g.menu(
		MenuItem{ID: "agree", Label: "Take the deal"},
		MenuItem{ID: "refuse", Label: "Keep it"},
	)
}

func (g *Game) handleSellConfirm(a Action) {
	switch a.Name {
	case "agree":
		switch g.saleKind {
		case "w":
			name := g.Char.Weapons[g.saleIndex].Name
			g.Char.Weapons = append(g.Char.Weapons[:g.saleIndex], g.Char.Weapons[g.saleIndex+1:]...)
			switch {
			case g.Char.EquippedWeapon > g.saleIndex:
				g.Char.EquippedWeapon--
			case g.Char.EquippedWeapon == g.saleIndex:
				g.Char.EquippedWeapon = -1
			}
			g.say(fmt.Sprintf("The %s goes under the counter.", name))
		case "a":
			name := g.Char.Armors[g.saleIndex].Name
			g.Char.Armors = append(g.Char.Armors[:g.saleIndex], g.Char.Armors[g.saleIndex+1:]...)
			switch {
			case g.Char.EquippedArmor > g.saleIndex:
				g.Char.EquippedArmor--
			case g.Char.EquippedArmor == g.saleIndex:
				g.Char.EquippedArmor = -1
			}
			g.say(fmt.Sprintf("The %s goes under the counter.", name))
		case "r":
			name := g.Char.Rings[g.saleIndex].Name
			g.Char.Rings = append(g.Char.Rings[:g.saleIndex], g.Char.Rings[g.saleIndex+1:]...)
			g.say(fmt.Sprintf("The %s disappears into a drawer.", name))
		}
		g.Char.AddGold(g.salePrice)
		g.saveGame()
		g.stats()
		g.shopMode = "sell"
		g.showShopList()
	case "refuse":
		g.say("You pocket it again. The shopkeep shrugs.")
		g.shopMode = "sell"
		g.showShopList()
	default:
		g.unknown(a)
	}
}

func scan(s, format string, idx *int) bool {
	_, err := fmt.Sscanf(s, format, idx)
	return err == nil
}

// --- Weaponsmith ---

func (g *Game) smithMenu() {
	var items []MenuItem
	for i, w := range g.Char.Weapons {
		if w.Damaged {
			items = append(items, MenuItem{
				ID:    fmt.Sprintf("fixw_%d", i),
				Label: fmt.Sprintf("Repair %s (%d gold)", w.Name, repairCost),
			})
		}
	}
	for i, ar := range g.Char.Armors {
		if ar.Damaged {
			items = append(items, MenuItem{
				ID:    fmt.Sprintf("fixa_%d", i),
				Label: fmt.Sprintf("Repair %s (%d gold)", ar.Name, repairCost),
			})
		}
	}
	if len(items) == 0 {
		g.say("Nothing of yours needs her hammer.")
	}
	items = append(items, MenuItem{ID: "back", Label: "Back to town"})
	g.menu(items...)
}

func (g *Game) handleSmith(a Action) {
	if a.Name == "back" {
		g.backToTown()
		return
	}
	var idx int
	repair := func(name string, damaged *bool) {
		if g.Char.Gold < repairCost {
			g.say("She names her price. You cannot meet it.")
			return
		}
		g.Char.AddGold(-repairCost)
		*damaged = false
		g.say(fmt.Sprintf("An hour at the forge and the %s is sound again.", name))
		g.saveGame()
		g.stats()
	}
	switch {
	case scan(a.Name, "fixw_%d", &idx) && idx < len(g.Char.Weapons) && g.Char.Weapons[idx].Damaged:
		repair(g.Char.Weapons[idx].Name, &g.Char.Weapons[idx].Damaged)
	case scan(a.Name, "fixa_%d", &idx) && idx < len(g.Char.Armors) && g.Char.Armors[idx].Damaged:
		repair(g.Char.Armors[idx].Name, &g.Char.Armors[idx].Damaged)
	default:
		g.unknown(a)
		return
	}
	g.smithMenu()
}
