package engine

import (
	"fmt"
	"strconv"
)

const minBet = 5

// betSteps are the chips the den deals in.
var betSteps = []int{5, 10, 50, 100}

// Gambling den games: call an exact face for long odds, or a band of the
// twenty-sider for short ones.
var gambleGames = map[string]struct {
	label  string
	sides  int
	payout int // winnings multiplier on the stake
	bands  bool
}{
	"d20": {label: "Call the twenty-sider (pays 11x)", sides: 20, payout: 11},
	"d10": {label: "Call the ten-sider (pays 6x)", sides: 10, payout: 6},
	"d6":  {label: "Call the six-sider (pays 3x)", sides: 6, payout: 3},
	"d20_range": {label: "Quarter the twenty-sider (pays 2x)", sides: 20, payout: 2,
		bands: true},
}

var gambleOrder = []string{"d20", "d10", "d6", "d20_range"}

func (g *Game) gamblingMenu() {
	items := make([]MenuItem, 0, len(gambleOrder)+1)
	for _, id := range gambleOrder {
		items = append(items, MenuItem{ID: id, Label: gambleGames[id].label})
	}
	items = append(items, MenuItem{ID: "back", Label: "Back to town"})
	g.menu(items...)
}

func (g *Game) resetGamble() {
	g.gambleGame = ""
	g.gambleStage = ""
	g.gambleBet = 0
}

func (g *Game) handleGambling(a Action) {
	if a.Name == "back" {
		g.resetGamble()
		g.backToTown()
		return
	}

	switch g.gambleStage {
	case "":
		if _, ok := gambleGames[a.Name]; !ok {
			g.unknown(a)
			return
		}
		if g.Char.Gold < minBet {
			g.say(fmt.Sprintf("The table takes stakes of %d gold and up. Come back richer.", minBet))
			g.gamblingMenu()
			return
		}
		g.gambleGame = a.Name
		g.gambleBet = 0
		g.gambleStage = "bet"
		g.betMenu()
	case "bet":
		g.handleBet(a)
	default:
		g.resolveCall(a)
	}
}

// betMenu builds the stake chip by chip, offering only raises the purse can
// cover.
func (g *Game) betMenu() {
	g.say(fmt.Sprintf("Stake so far: %d gold. You carry %d.", g.gambleBet, g.Char.Gold))
	items := make([]MenuItem, 0, len(betSteps)+2)
	for _, step := range betSteps {
		if g.gambleBet+step <= g.Char.Gold {
			items = append(items, MenuItem{ID: fmt.Sprintf("add_%d", step), Label: fmt.Sprintf("Add %d gold", step)})
		}
	}
	if g.gambleBet >= minBet {
		items = append(items, MenuItem{ID: "ok", Label: fmt.Sprintf("Stake %d gold", g.gambleBet)})
	}
	items = append(items, MenuItem{ID: "back", Label: "Walk away"})
	g.menu(items...)
}

func (g *Game) handleBet(a Action) {
	var step int
	if scan(a.Name, "add_%d", &step) {
		valid := false
		for _, s := range betSteps {
			if s == step {
				valid = true
				break
			}
		}
		if !valid || g.gambleBet+step > g.Char.Gold {
			g.unknown(a)
			return
		}
		g.gambleBet += step
		g.betMenu()
		return
	}
	if a.Name == "ok" && g.gambleBet >= minBet {
		g.gambleStage = "call"
		game := gambleGames[g.gambleGame]
		if game.bands {
			g.menu(
				MenuItem{ID: "band_1", Label: "1-5"},
				MenuItem{ID: "band_2", Label: "6-10"},
				MenuItem{ID: "band_3", Label: "11-15"},
				MenuItem{ID: "band_4", Label: "16-20"},
			)
		} else {
			g.prompt("guess", fmt.Sprintf("Call it: 1 to %d.", game.sides))
		}
		return
	}
	g.unknown(a)
}

// resolveCall takes the player's call, rolls the die, and settles the stake.
func (g *Game) resolveCall(a Action) {
	game := gambleGames[g.gambleGame]
	won := false
	roll := g.R.Roll(1, game.sides)
	if game.bands {
		var band int
		if !scan(a.Name, "band_%d", &band) || band < 1 || band > 4 {
			g.unknown(a)
			return
		}
		won = (roll-1)/5+1 == band
	} else {
		guess, err := strconv.Atoi(a.Value)
		if err != nil || guess < 1 || guess > game.sides {
			g.prompt("guess", fmt.Sprintf("1 to %d.", game.sides))
			return
		}
		won = guess == roll
		g.lastPrompt = ""
	}

	g.say(fmt.Sprintf("The die clatters and settles on %d.", roll))
	if won {
		winnings := g.gambleBet * game.payout
		g.Char.AddGold(winnings)
		g.say(fmt.Sprintf("The table goes quiet. You collect %d gold.", winnings))
	} else {
		g.Char.AddGold(-g.gambleBet)
		g.say(fmt.Sprintf("Your %d gold slides across the table.", g.gambleBet))
	}
	g.saveGame()
	g.stats()
	g.resetGamble()
	g.gamblingMenu()
}
