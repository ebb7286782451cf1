// Package engine drives the trial/session state machine.
package engine

import (
	"context"
	"time"

	"github.com/s0u7a/pri-training/internal/model"
	"github.com/s0u7a/pri-training/internal/round"
	"github.com/s0u7a/pri-training/internal/scoring"
)

// State is the session lifecycle state.
type State int

// Session lifecycle: Idle -> Active -> Finalized; a new session
// re-enters from Idle via Reset.
const (
	StateIdle State = iota
	StateActive
	StateFinalized
)

// Phase is the sub-state of an active session.
type Phase int

// An active session alternates between awaiting an answer and showing
// feedback for the last one.
const (
	PhaseAwait Phase = iota
	PhaseFeedback
)

// Answer is a mode-specific user response. Exactly the two game modes
// have an answer shape; there is no third branch.
type Answer interface {
	answer()
}

// MatchAnswer declares the target present or absent in the search set.
type MatchAnswer struct {
	Present bool
}

func (MatchAnswer) answer() {}

// CodingAnswer selects a digit in 1..5.
type CodingAnswer struct {
	Digit int
}

func (CodingAnswer) answer() {}

// SummaryStore persists finalized session summaries.
type SummaryStore interface {
	AppendSummary(ctx context.Context, summary model.SessionSummary) (int64, error)
}

// Snapshot is the read-only session state exposed to the presentation
// layer. Trial pointers are owned by the engine; callers only read them.
type Snapshot struct {
	State         State
	Phase         Phase
	Mode          model.Mode
	Limit         model.TimeLimit
	DisplayedTime int
	Score         int
	Mistakes      int
	Seq           int
	Match         *round.MatchTrial
	Coding        *round.CodingTrial
}

// Engine owns the live session. All methods are synchronous and must
// be called from a single thread of control (the UI event loop).
type Engine struct {
	gen   *round.Generator
	store SummaryStore
	now   func() time.Time

	state State
	phase Phase
	mode  model.Mode
	limit model.TimeLimit

	score    int
	mistakes int
	elapsed  int
	seq      int

	match  *round.MatchTrial
	coding *round.CodingTrial

	result *model.SessionResult
}

// New returns an engine in the Idle state. store may be nil, in which
// case finalized sessions are not persisted.
func New(gen *round.Generator, store SummaryStore) *Engine {
	return &Engine{gen: gen, store: store, now: time.Now}
}

// Start begins a session, resetting all counters and presenting the
// first trial.
func (e *Engine) Start(mode model.Mode, limit model.TimeLimit) {
	e.state = StateActive
	e.mode = mode
	e.limit = limit
	e.score = 0
	e.mistakes = 0
	e.elapsed = 0
	e.seq = 0
	e.match = nil
	e.coding = nil
	e.result = nil
	e.nextTrial()
}

func (e *Engine) nextTrial() {
	e.seq++
	switch e.mode {
	case model.ModeCoding:
		prev := 0
		if e.coding != nil {
			prev = e.coding.TargetDigit
		}
		trial := e.gen.Coding(prev)
		e.coding = &trial
	default:
		trial := e.gen.Match()
		e.match = &trial
	}
	e.phase = PhaseAwait
}

// Submit evaluates an answer for the current trial and updates the
// counters. accepted is false when no answer is awaited: during the
// feedback delay, outside an active session, or when the answer shape
// does not belong to the current mode.
func (e *Engine) Submit(a Answer) (correct, accepted bool) {
	if e.state != StateActive || e.phase != PhaseAwait {
		return false, false
	}
	switch ans := a.(type) {
	case MatchAnswer:
		if e.match == nil {
			return false, false
		}
		correct = e.match.Evaluate(ans.Present)
	case CodingAnswer:
		if e.coding == nil {
			return false, false
		}
		correct = e.coding.Evaluate(ans.Digit)
	default:
		return false, false
	}
	if correct {
		e.score++
	} else {
		e.mistakes++
	}
	e.phase = PhaseFeedback
	return correct, true
}

// Advance moves from feedback to the next trial. It is a no-op unless
// the session is active and in the feedback phase, so a stale delay
// callback after finalize or reset does nothing.
func (e *Engine) Advance() {
	if e.state != StateActive || e.phase != PhaseFeedback {
		return
	}
	e.nextTrial()
}

// Tick advances the session clock by one second and reports whether
// this tick finalized the session (countdown reaching its limit).
func (e *Engine) Tick(ctx context.Context) (finalized bool, err error) {
	if e.state != StateActive {
		return false, nil
	}
	e.elapsed++
	if e.limit.Bounded() && e.elapsed >= int(e.limit) {
		return true, e.finalize(ctx)
	}
	return false, nil
}

// Stop finalizes an unbounded session. It is only meaningful for
// unbounded sessions and is a no-op otherwise.
func (e *Engine) Stop(ctx context.Context) error {
	if e.state != StateActive || e.limit.Bounded() {
		return nil
	}
	return e.finalize(ctx)
}

// Reset discards the session and returns to Idle. Nothing is persisted.
func (e *Engine) Reset() {
	e.state = StateIdle
	e.phase = PhaseAwait
	e.match = nil
	e.coding = nil
	e.result = nil
}

// finalize computes the index and persists the summary. The state
// guard makes a second invocation, e.g. a timer expiry racing a manual
// stop, a no-op.
func (e *Engine) finalize(ctx context.Context) error {
	if e.state != StateActive {
		return nil
	}
	e.state = StateFinalized
	e.result = &model.SessionResult{
		Mode:           e.mode,
		Index:          scoring.Index(e.score, e.mistakes, e.elapsed, e.mode),
		Score:          e.score,
		Mistakes:       e.mistakes,
		ElapsedSeconds: e.elapsed,
	}
	if e.store == nil || !scoring.Measurable(e.elapsed) {
		return nil
	}
	_, err := e.store.AppendSummary(ctx, model.SessionSummary{
		Timestamp:      e.now(),
		Mode:           e.mode,
		Index:          e.result.Index,
		Score:          e.score,
		Mistakes:       e.mistakes,
		TimeLimit:      e.limit,
		ElapsedSeconds: e.elapsed,
	})
	return err
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Result returns the finalized outcome, or nil before finalize.
func (e *Engine) Result() *model.SessionResult {
	return e.result
}

// Snapshot returns the observable session state. DisplayedTime is the
// remaining time for countdown sessions and the elapsed time otherwise.
func (e *Engine) Snapshot() Snapshot {
	displayed := e.elapsed
	if e.limit.Bounded() {
		displayed = int(e.limit) - e.elapsed
		if displayed < 0 {
			displayed = 0
		}
	}
	return Snapshot{
		State:         e.state,
		Phase:         e.phase,
		Mode:          e.mode,
		Limit:         e.limit,
		DisplayedTime: displayed,
		Score:         e.score,
		Mistakes:      e.mistakes,
		Seq:           e.seq,
		Match:         e.match,
		Coding:        e.coding,
	}
}
