package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/labyrinth/server/internal/data"
	"github.com/labyrinth/server/internal/entity"
	"github.com/labyrinth/server/internal/persist"
	"go.uber.org/zap"
)

const storeTimeout = 5 * time.Second

func (g *Game) storeCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}

// saveGame persists the current character. Storage trouble is logged and
// play continues; the run is only lost if the process dies too.
func (g *Game) saveGame() {
	if g.Char == nil {
		return
	}
	blob, err := entity.Serialize(g.Char)
	if err != nil {
		g.Log.Error("serialize save", zap.Error(err))
		return
	}
	ctx, cancel := g.storeCtx()
	defer cancel()
	if err := g.Store.Save(ctx, g.DeviceID, blob); err != nil {
		g.Log.Error("write save", zap.Error(err))
	}
}

func (g *Game) deleteSave() {
	ctx, cancel := g.storeCtx()
	defer cancel()
	if err := g.Store.Delete(ctx, g.DeviceID); err != nil {
		g.Log.Error("delete save", zap.Error(err))
	}
}

func (g *Game) loadGame() *entity.Character {
	ctx, cancel := g.storeCtx()
	defer cancel()
	blob, err := g.Store.Load(ctx, g.DeviceID)
	if errors.Is(err, persist.ErrNotFound) {
		return nil
	}
	if err != nil {
		g.Log.Error("read save", zap.Error(err))
		return nil
	}
	c, err := entity.Deserialize(blob)
	if err != nil {
		g.Log.Error("decode save", zap.Error(err))
		return nil
	}
	return c
}

func (g *Game) hasSave() bool {
	ctx, cancel := g.storeCtx()
	defer cancel()
	_, err := g.Store.Load(ctx, g.DeviceID)
	return err == nil
}

// --- Main menu ---

func (g *Game) showMainMenu() {
	g.Phase = PhaseMainMenu
	g.lastPrompt = ""
	g.clear()
	items := []MenuItem{{ID: "new_game", Label: "New Game"}}
	if g.hasSave() {
		items = append(items, MenuItem{ID: "continue", Label: "Continue"})
	}
	items = append(items,
		MenuItem{ID: "leaderboard", Label: "Hall of the Fallen"},
		MenuItem{ID: "review", Label: "Leave a Review"},
		MenuItem{ID: "quit", Label: "Quit"},
	)
	g.menu(items...)
}

func (g *Game) handleMainMenu(a Action) {
	switch a.Name {
	case "new_game":
		g.Phase = PhaseDifficulty
		g.say("How forgiving should the labyrinth be?")
		g.menu(
			MenuItem{ID: "easy", Label: "Easy"},
			MenuItem{ID: "normal", Label: "Normal"},
			MenuItem{ID: "hard", Label: "Hard"},
		)
	case "continue":
		c := g.loadGame()
		if c == nil {
			g.say("No saved expedition was found.")
			g.showMainMenu()
			return
		}
		g.Char = c
		g.say(fmt.Sprintf("Welcome back, %s.", c.Name))
		g.enterTown()
	case "leaderboard":
		g.showLeaderboard()
		g.showMainMenu()
	case "review":
		g.Phase = PhaseReview
		g.reviewRating = 0
		g.say("How many stars does the labyrinth deserve?")
		g.menu(
			MenuItem{ID: "1", Label: "1 star"},
			MenuItem{ID: "2", Label: "2 stars"},
			MenuItem{ID: "3", Label: "3 stars"},
			MenuItem{ID: "4", Label: "4 stars"},
			MenuItem{ID: "5", Label: "5 stars"},
		)
	case "quit":
		g.say("The labyrinth will be waiting.")
	default:
		g.unknown(a)
	}
}

func (g *Game) showLeaderboard() {
	ctx, cancel := g.storeCtx()
	defer cancel()
	runs, err := g.Store.Recent(ctx, 10)
	if err != nil {
		g.Log.Error("read leaderboard", zap.Error(err))
		g.say("The hall's records are illegible today.")
		return
	}
	if len(runs) == 0 {
		g.say("No expeditions have been recorded yet.")
		return
	}
	g.say("Hall of the Fallen:")
	for _, r := range runs {
		verb := "fell"
		if r.Outcome == "victory" {
			verb = "slew the Dragon"
		}
		g.say(fmt.Sprintf("  %s, level %d, %s at depth %d with %d gold and %d kills",
			r.Name, r.Level, verb, r.Depth, r.Gold, r.MonstersSlain))
	}
	g.pause()
}

func (g *Game) handleReview(a Action) {
	if g.reviewRating == 0 {
		rating, err := strconv.Atoi(a.Name)
		if err != nil || rating < 1 || rating > 5 {
			g.unknown(a)
			return
		}
		g.reviewRating = rating
		g.prompt("review_text", "A few words for posterity:")
		return
	}

	text := strings.TrimSpace(a.Value)
	ctx, cancel := g.storeCtx()
	defer cancel()
	err := g.Reviews.Submit(ctx, g.DeviceID, g.reviewRating, text)
	switch {
	case errors.Is(err, persist.ErrNotConfigured):
		g.say("The scribes are away; your words were not recorded.")
	case err != nil:
		g.Log.Warn("review submit failed", zap.Error(err))
		g.say("The courier lost your letter. Try again another day.")
	default:
		g.say("Your review has been carved into the archive. Thank you.")
	}
	g.reviewRating = 0
	g.showMainMenu()
}

// --- Creation ---

func (g *Game) handleDifficulty(a Action) {
	switch a.Name {
	case entity.DifficultyEasy, entity.DifficultyNormal, entity.DifficultyHard:
		g.difficulty = a.Name
		g.Phase = PhaseIntro
		g.clear()
		g.scene(bgTown, "A mountain town clings to the rock above a pit the locals call the Labyrinth of Souls.")
		g.say("Whatever sleeps at its fifth depth has emptied three kingdoms' graveyards to guard it.")
		g.say("You came for the usual reasons. Gold. Glory. A debt that will not die on its own.")
		g.pause()
	default:
		g.unknown(a)
	}
}

func (g *Game) handleIntro(a Action) {
	g.Phase = PhaseCreateName
	g.prompt("name", "What do they call you?")
}

func (g *Game) handleCreateName(a Action) {
	name := strings.TrimSpace(a.Value)
	if name == "" || len(name) > 20 {
		g.prompt("name", "A real name, no more than twenty letters:")
		return
	}
	g.pendingName = name
	g.lastPrompt = ""
	g.Phase = PhaseCreateAttr
	g.rollAttributes()
}

// rollAttributes starts the assignment loop: each value is rolled one at a
// time and the player chooses which attribute receives it. The final roll
// goes to whatever is left.
func (g *Game) rollAttributes() {
	g.rolledAttrs = make(map[string]int, len(data.AttributeNames))
	g.unassigned = append(g.unassigned[:0], data.AttributeNames...)
	g.say("The dice decide what you are made of. You decide where it goes.")
	g.nextAttributeRoll()
}

func (g *Game) nextAttributeRoll() {
	die := entity.AttributeDice(g.difficulty)
	g.pendingRoll = g.R.RollDie(die)
	if len(g.unassigned) == 1 {
		last := g.unassigned[0]
		g.rolledAttrs[last] = g.pendingRoll
		g.unassigned = g.unassigned[:0]
		g.say(fmt.Sprintf("The last roll, a %d, falls to %s.", g.pendingRoll, last))
		g.summarizeAttributes()
		return
	}
	g.say(fmt.Sprintf("You roll a %d. Where does it go?", g.pendingRoll))
	items := make([]MenuItem, 0, len(g.unassigned))
	for _, name := range g.unassigned {
		items = append(items, MenuItem{ID: name, Label: name})
	}
	g.menu(items...)
}

func (g *Game) summarizeAttributes() {
	for _, name := range data.AttributeNames {
		g.say(fmt.Sprintf("  %-13s %d", name, g.rolledAttrs[name]))
	}
	g.menu(
		MenuItem{ID: "accept", Label: "Accept"},
		MenuItem{ID: "reroll", Label: "Roll again"},
	)
}

func (g *Game) handleCreateAttrs(a Action) {
	if len(g.unassigned) > 0 {
		idx := -1
		for i, name := range g.unassigned {
			if name == a.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			g.unknown(a)
			return
		}
		g.rolledAttrs[a.Name] = g.pendingRoll
		g.unassigned = append(g.unassigned[:idx], g.unassigned[idx+1:]...)
		g.nextAttributeRoll()
		return
	}

	switch a.Name {
	case "accept":
		g.Char = entity.NewCharacter(g.pendingName, g.difficulty, g.rolledAttrs, g.R)
		g.rolledAttrs = nil
		g.pendingRoll = 0
		g.say(fmt.Sprintf("%s arrives with %d hit points and %d gold.", g.Char.Name, g.Char.MaxHP, g.Char.Gold))
		g.saveGame()
		g.enterTown()
	case "reroll":
		g.rollAttributes()
	default:
		g.unknown(a)
	}
}
