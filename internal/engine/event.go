package engine

// Event types pushed to the client, one JSON object per line.
const (
	EventDialogue     = "dialogue"
	EventMenu         = "menu"
	EventPrompt       = "prompt"
	EventPause        = "pause"
	EventScene        = "scene"
	EventUpdateStats  = "update_stats"
	EventCombatUpdate = "combat_update"
	EventClear        = "clear"
)

// MenuItem is one selectable entry. The client sends the id back as its
// next action.
type MenuItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Event is a single ordered message to the client.
type Event struct {
	Type       string         `json:"type"`
	Text       string         `json:"text,omitempty"`
	Items      []MenuItem     `json:"items,omitempty"`
	PromptID   string         `json:"prompt_id,omitempty"`
	Label      string         `json:"label,omitempty"`
	Background string         `json:"background,omitempty"`
	State      map[string]any `json:"state,omitempty"`
}

// emit helpers append to the per-action event buffer; the host flushes the
// buffer after each handled action.

func (g *Game) say(text string) {
	g.events = append(g.events, Event{Type: EventDialogue, Text: text})
}

func (g *Game) combatLine(text string) {
	g.events = append(g.events, Event{Type: EventCombatUpdate, Text: text})
}

func (g *Game) menu(items ...MenuItem) {
	g.lastMenu = items
	g.events = append(g.events, Event{Type: EventMenu, Items: items})
}

func (g *Game) prompt(id, label string) {
	g.lastPrompt = id
	g.events = append(g.events, Event{Type: EventPrompt, PromptID: id, Label: label})
}

func (g *Game) pause() {
	g.events = append(g.events, Event{Type: EventPause})
}

func (g *Game) scene(background, text string) {
	g.events = append(g.events, Event{Type: EventScene, Background: background, Text: text})
}

func (g *Game) clear() {
	g.events = append(g.events, Event{Type: EventClear})
}

func (g *Game) stats() {
	if g.Char == nil {
		return
	}
	c := g.Char
	state := map[string]any{
		"name":       c.Name,
		"level":      c.Level,
		"hp":         c.HP,
		"max_hp":     c.MaxHP,
		"gold":       c.Gold,
		"xp":         c.XP,
		"depth":      c.Depth,
		"armor":      c.BaseArmorClass(),
		"points":     c.UnspentPoints,
		"attributes": c.Attributes,
	}
	if g.Fight != nil && g.Fight.Monster != nil {
		state["monster"] = g.Fight.Monster.Name
		state["monster_hp"] = g.Fight.Monster.HP
		state["monster_max_hp"] = g.Fight.Monster.MaxHP
	}
	g.events = append(g.events, Event{Type: EventUpdateStats, State: state})
}

// Flush returns and clears the buffered events.
func (g *Game) Flush() []Event {
	out := g.events
	g.events = nil
	return out
}
