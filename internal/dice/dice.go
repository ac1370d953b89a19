package dice

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// ErrInvalidDie reports a malformed die notation such as "d6" or "2x4".
// Callers are expected to substitute a safe default and keep going.
var ErrInvalidDie = errors.New("invalid die notation")

// Die is a parsed "NdM" notation.
type Die struct {
	Count int
	Sides int
}

func (d Die) String() string {
	return fmt.Sprintf("%dd%d", d.Count, d.Sides)
}

// Min returns the lowest possible roll.
func (d Die) Min() int { return d.Count }

// Max returns the highest possible roll.
func (d Die) Max() int { return d.Count * d.Sides }

// Parse reads "NdM" notation from content tables.
func Parse(notation string) (Die, error) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(notation)), "d", 2)
	if len(parts) != 2 {
		return Die{}, fmt.Errorf("%w: %q", ErrInvalidDie, notation)
	}
	count, err := strconv.Atoi(parts[0])
	if err != nil || count < 1 {
		return Die{}, fmt.Errorf("%w: %q", ErrInvalidDie, notation)
	}
	sides, err := strconv.Atoi(parts[1])
	if err != nil || sides < 1 {
		return Die{}, fmt.Errorf("%w: %q", ErrInvalidDie, notation)
	}
	return Die{Count: count, Sides: sides}, nil
}

// Roller is a seedable dice source. One Roller belongs to one session; it is
// not safe for concurrent use.
type Roller struct {
	rng *rand.Rand
}

// NewRoller returns a roller with a fresh seed.
func NewRoller() *Roller {
	return &Roller{rng: rand.New(rand.NewSource(rand.Int63()))}
}

// NewSeeded returns a roller with a fixed seed for reproducible tests.
func NewSeeded(seed int64) *Roller {
	return &Roller{rng: rand.New(rand.NewSource(seed))}
}

// Roll returns the sum of count independent uniform draws in [1, sides].
func (r *Roller) Roll(count, sides int) int {
	if count < 1 || sides < 1 {
		return 0
	}
	total := 0
	for i := 0; i < count; i++ {
		total += r.rng.Intn(sides) + 1
	}
	return total
}

// RollDie rolls a parsed die.
func (r *Roller) RollDie(d Die) int {
	return r.Roll(d.Count, d.Sides)
}

// RollNotation parses and rolls "NdM". Malformed notation falls back to 1d4,
// matching the engine's substitute-and-log policy; the error is returned so
// the caller can log it once.
func (r *Roller) RollNotation(notation string) (int, error) {
	d, err := Parse(notation)
	if err != nil {
		return r.Roll(1, 4), err
	}
	return r.RollDie(d), nil
}

// IntN returns a uniform draw in [0, n). n must be positive.
func (r *Roller) IntN(n int) int {
	return r.rng.Intn(n)
}

// Between returns a uniform draw in [lo, hi] inclusive.
func (r *Roller) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.rng.Intn(hi-lo+1)
}

// Chance returns true with probability p in [0, 1].
func (r *Roller) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.rng.Float64() < p
}

// Float64 returns a uniform draw in [0, 1).
func (r *Roller) Float64() float64 {
	return r.rng.Float64()
}
