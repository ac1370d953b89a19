package entity

// Quest kinds.
const (
	QuestKill    = "kill"
	QuestCollect = "collect"
)

// Quest is a notice-board contract against a monster type. A quest that
// reaches its goal pays out and leaves the list immediately, so only open
// contracts are ever persisted.
type Quest struct {
	Kind     string `json:"kind"`
	Target   string `json:"target"`
	Goal     int    `json:"goal"`
	Progress int    `json:"progress"`
	Reward   int    `json:"reward"`
}
