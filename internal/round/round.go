// Package round generates per-trial game rounds.
package round

import (
	"math/rand"
	"time"

	"github.com/s0u7a/pri-training/internal/symbols"
)

const (
	searchSetSize = 5
	digitCount    = 5
)

// MatchTrial asks whether one of two target symbols appears in a search set.
type MatchTrial struct {
	Targets   [2]symbols.Symbol
	SearchSet []symbols.Symbol
	IsMatch   bool
}

// Evaluate reports whether declaring the target present was correct.
func (t MatchTrial) Evaluate(present bool) bool {
	return present == t.IsMatch
}

// CodingTrial asks which symbol is assigned to the target digit.
// Mapping[d-1] is the symbol assigned to digit d; ButtonOrder is the
// on-screen arrangement of the five digit buttons.
type CodingTrial struct {
	Mapping     [digitCount]symbols.Symbol
	ButtonOrder [digitCount]int
	TargetDigit int
}

// SymbolFor returns the symbol assigned to a digit in 1..5.
func (t CodingTrial) SymbolFor(digit int) symbols.Symbol {
	return t.Mapping[digit-1]
}

// Evaluate reports whether the pressed digit was correct.
func (t CodingTrial) Evaluate(digit int) bool {
	return digit == t.TargetDigit
}

// Generator produces randomized trials.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a Generator drawing from the given source,
// so tests can supply deterministic sequences.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// Match generates a match-mode trial. The search set holds five
// symbols; on the no-match branch it is drawn from pool positions
// disjoint from the targets, so the IsMatch flag always agrees with
// set membership.
func (g *Generator) Match() MatchTrial {
	pool := symbols.Pool()
	symbols.Shuffle(g.rnd, pool)

	trial := MatchTrial{Targets: [2]symbols.Symbol{pool[0], pool[1]}}
	trial.IsMatch = g.rnd.Intn(2) == 0
	if trial.IsMatch {
		set := make([]symbols.Symbol, 0, searchSetSize)
		set = append(set, trial.Targets[g.rnd.Intn(2)])
		set = append(set, pool[2:2+searchSetSize-1]...)
		symbols.Shuffle(g.rnd, set)
		trial.SearchSet = set
	} else {
		trial.SearchSet = append([]symbols.Symbol(nil), pool[2:2+searchSetSize]...)
	}
	return trial
}

// Coding generates a coding-mode trial. prevTarget is the previous
// trial's target digit (0 when none); the new target is redrawn until
// it differs, which guards against back-to-back repeats only.
func (g *Generator) Coding(prevTarget int) CodingTrial {
	pool := symbols.Pool()
	symbols.Shuffle(g.rnd, pool)

	var trial CodingTrial
	copy(trial.Mapping[:], pool[:digitCount])

	for i := range trial.ButtonOrder {
		trial.ButtonOrder[i] = i + 1
	}
	g.rnd.Shuffle(digitCount, func(i, j int) {
		trial.ButtonOrder[i], trial.ButtonOrder[j] = trial.ButtonOrder[j], trial.ButtonOrder[i]
	})

	trial.TargetDigit = g.rnd.Intn(digitCount) + 1
	for trial.TargetDigit == prevTarget {
		trial.TargetDigit = g.rnd.Intn(digitCount) + 1
	}
	return trial
}
