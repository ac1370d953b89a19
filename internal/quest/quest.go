// Package quest runs the town notice board.
package quest

import (
	"math"

	"github.com/labyrinth/server/internal/data"
	"github.com/labyrinth/server/internal/dice"
	"github.com/labyrinth/server/internal/entity"
)

// MaxActive caps concurrent contracts.
const MaxActive = 3

const killOdds = 0.60

// Offer drafts a new contract against a random quest-eligible monster, or
// nil when the board is full or no monster qualifies. A monster already
// under contract never gets a second bounty; rarer targets pay better.
func Offer(c *entity.Character, tables *data.Tables, r *dice.Roller) *entity.Quest {
	if ActiveCount(c) >= MaxActive {
		return nil
	}
	var targets []*data.MonsterTemplate
	for _, t := range tables.Monsters.QuestTargets() {
		if !hasContractOn(c, t.Name) {
			targets = append(targets, t)
		}
	}
	if len(targets) == 0 {
		return nil
	}
	target := targets[r.IntN(len(targets))]

	kind := entity.QuestCollect
	if r.Chance(killOdds) {
		kind = entity.QuestKill
	}
	return &entity.Quest{
		Kind:   kind,
		Target: target.Name,
		Goal:   1,
		Reward: rewardFor(target),
	}
}

// rewardFor pays by difficulty, with a rarity bonus for seldom-seen prey.
func rewardFor(t *data.MonsterTemplate) int {
	wander := t.WanderChance
	if wander < 0.01 {
		wander = 0.01
	}
	return int(math.Floor(float64(t.Difficulty)*20 + (1/wander)/2))
}

// hasContractOn reports whether an open contract already names the monster.
func hasContractOn(c *entity.Character, monster string) bool {
	for _, q := range c.Quests {
		if q.Target == monster {
			return true
		}
	}
	return false
}

// ActiveCount returns the number of open contracts.
func ActiveCount(c *entity.Character) int {
	return len(c.Quests)
}

// Accept puts a drafted contract on the character's list.
func Accept(c *entity.Character, q *entity.Quest) bool {
	if q == nil || ActiveCount(c) >= MaxActive {
		return false
	}
	c.Quests = append(c.Quests, *q)
	return true
}

// CreditKill advances every open contract against the slain monster. A
// contract that reaches its goal pays out on the spot and leaves the list.
// Returns the total gold awarded.
func CreditKill(c *entity.Character, monster string) int {
	total := 0
	remaining := c.Quests[:0]
	for _, q := range c.Quests {
		if q.Target == monster {
			q.Progress++
			if q.Progress >= q.Goal {
				total += q.Reward
				c.QuestsCompleted++
				continue
			}
		}
		remaining = append(remaining, q)
	}
	c.Quests = remaining
	if total > 0 {
		c.AddGold(total)
	}
	return total
}
