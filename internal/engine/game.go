package engine

import (
	"github.com/labyrinth/server/internal/combat"
	"github.com/labyrinth/server/internal/data"
	"github.com/labyrinth/server/internal/dice"
	"github.com/labyrinth/server/internal/entity"
	"github.com/labyrinth/server/internal/labyrinth"
	"github.com/labyrinth/server/internal/persist"
	"go.uber.org/zap"
)

// Game phases. Each phase owns the set of actions it understands; anything
// else re-shows the current menu.
const (
	PhaseMainMenu   = "main_menu"
	PhaseReview     = "review"
	PhaseDifficulty = "select_difficulty"
	PhaseIntro      = "intro"
	PhaseCreateName = "create_name"
	PhaseCreateAttr = "create_attrs"
	PhaseTown       = "town"
	PhaseShop       = "shop"
	PhaseTemple     = "temple"
	PhaseInn        = "inn"
	PhaseTraining   = "training"
	PhaseCharacter  = "character"
	PhaseGambling   = "gambling"
	PhaseQuests     = "quests"
	PhaseCompanion  = "companion"
	PhaseInventory  = "inventory"
	PhaseSmith      = "weaponsmith"
	PhaseLabyrinth  = "labyrinth"
	PhaseCombat     = "combat"
	PhaseRevival    = "revival"
	PhaseVictory    = "victory"
)

// Background art shown with scenes.
const (
	bgTown      = "town_menu/town.png"
	bgInn       = "town_menu/inn.png"
	bgHealer    = "town_menu/healer.png"
	bgEat       = "town_menu/eat.png"
	bgTavern    = "town_menu/tavern.png"
	bgTemple    = "town_menu/temple.png"
	bgTraining  = "town_menu/training.png"
	bgShop      = "town_menu/shop.png"
	bgSmith     = "town_menu/weaponsmith.png"
	bgGambling  = "town_menu/gambling.png"
	bgLabyrinth = "labyrinth.png"
	bgDragon    = "dragon.png"
	bgDeath     = "death.png"
	bgVictory   = "victory.png"
)

// Action is one decoded client request.
type Action struct {
	Name  string
	Value string
}

// Game is one device's complete session state. A Game is owned by exactly
// one host session; nothing here is safe for concurrent use.
type Game struct {
	DeviceID string
	Phase    string

	Char  *entity.Character
	Fight *combat.State

	// room is the labyrinth room the character last opened; its chest
	// stays claimable from the corridor until the next descent.
	room *labyrinth.Room

	R       *dice.Roller
	Tables  *data.Tables
	Scripts combat.FormulaOverride
	Store   persist.Store
	Reviews *persist.ReviewSubmitter
	Log     *zap.Logger

	events     []Event
	lastMenu   []MenuItem
	lastPrompt string

	// Transient flow state.
	pendingName  string
	rolledAttrs  map[string]int
	pendingRoll  int
	unassigned   []string
	difficulty   string
	bossFight    bool
	combatStage  string // "action", "zone", "block", "spell", "spell_power", "potion"
	pendingSpell string // split-damage spell awaiting its power choice
	reviewRating int
	gambleGame   string
	gambleStage  string // "", "bet", "call"
	gambleBet    int
	saleIndex    int
	salePrice    int
	saleKind     string
	shopMode     string
	questDraft   *entity.Quest
	revivalFail  bool
}

// New creates a fresh session at the main menu.
func New(deviceID string, tables *data.Tables, scripts combat.FormulaOverride,
	store persist.Store, reviews *persist.ReviewSubmitter, log *zap.Logger) *Game {
	g := &Game{
		DeviceID: deviceID,
		Phase:    PhaseMainMenu,
		R:        dice.NewRoller(),
		Tables:   tables,
		Scripts:  scripts,
		Store:    store,
		Reviews:  reviews,
		Log:      log.With(zap.String("device_id", deviceID)),
	}
	return g
}

// Start emits the opening screen.
func (g *Game) Start() {
	g.showMainMenu()
}

// HandleAction routes one client action to the current phase's handler. A
// panicking handler is contained: the session survives and the current
// menu is shown again.
func (g *Game) HandleAction(a Action) {
	defer func() {
		if r := recover(); r != nil {
			g.Log.Error("handler panic",
				zap.String("phase", g.Phase),
				zap.String("action", a.Name),
				zap.Any("panic", r),
			)
			g.redisplay()
		}
	}()

	handler, ok := phaseHandlers[g.Phase]
	if !ok {
		g.Log.Warn("no handler for phase", zap.String("phase", g.Phase))
		g.Phase = PhaseMainMenu
		g.showMainMenu()
		return
	}
	handler(g, a)
}

// phaseHandlers routes each phase to its handler. Registered statically;
// the map is never mutated after init.
var phaseHandlers = map[string]func(*Game, Action){
	PhaseMainMenu:   (*Game).handleMainMenu,
	PhaseReview:     (*Game).handleReview,
	PhaseDifficulty: (*Game).handleDifficulty,
	PhaseIntro:      (*Game).handleIntro,
	PhaseCreateName: (*Game).handleCreateName,
	PhaseCreateAttr: (*Game).handleCreateAttrs,
	PhaseTown:       (*Game).handleTown,
	PhaseShop:       (*Game).handleShop,
	PhaseTemple:     (*Game).handleTemple,
	PhaseInn:        (*Game).handleInn,
	PhaseTraining:   (*Game).handleTraining,
	PhaseCharacter:  (*Game).handleCharacter,
	PhaseGambling:   (*Game).handleGambling,
	PhaseQuests:     (*Game).handleQuests,
	PhaseCompanion:  (*Game).handleCompanion,
	PhaseInventory:  (*Game).handleInventory,
	PhaseSmith:      (*Game).handleSmith,
	PhaseLabyrinth:  (*Game).handleLabyrinth,
	PhaseCombat:     (*Game).handleCombat,
	PhaseRevival:    (*Game).handleRevival,
	PhaseVictory:    (*Game).handleVictory,
}

// Redisplay re-emits the current screen, for a client that reconnected
// mid-session.
func (g *Game) Redisplay() {
	if g.lastPrompt == "" && len(g.lastMenu) == 0 {
		g.showMainMenu()
		return
	}
	g.stats()
	g.redisplay()
}

// redisplay re-emits whatever the client should be looking at.
func (g *Game) redisplay() {
	if g.lastPrompt != "" {
		g.prompt(g.lastPrompt, "Try again:")
		return
	}
	if len(g.lastMenu) > 0 {
		g.menu(g.lastMenu...)
	}
}

// unknown handles an action the current menu does not offer.
func (g *Game) unknown(a Action) {
	g.Log.Debug("unknown action",
		zap.String("phase", g.Phase),
		zap.String("action", a.Name),
	)
	g.redisplay()
}

// flavor returns a dialogue line from the content tables, falling back to
// the built-in text when no entry is shipped.
func (g *Game) flavor(namespace, key, fallback string, vars map[string]string) string {
	if g.Tables.Dialogue != nil && g.Tables.Dialogue.Has(namespace, key) {
		return g.Tables.Dialogue.Line(g.R, namespace, key, vars)
	}
	return fallback
}

func ceilHalf(v int) int {
	return (v + 1) / 2
}
