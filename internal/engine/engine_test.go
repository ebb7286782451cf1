package engine

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/s0u7a/pri-training/internal/model"
	"github.com/s0u7a/pri-training/internal/round"
	"github.com/s0u7a/pri-training/internal/store"
)

type fakeStore struct {
	appended []model.SessionSummary
}

func (f *fakeStore) AppendSummary(_ context.Context, summary model.SessionSummary) (int64, error) {
	f.appended = append(f.appended, summary)
	return int64(len(f.appended)), nil
}

func newTestEngine(t *testing.T) (*Engine, *fakeStore) {
	t.Helper()
	fs := &fakeStore{}
	return New(round.NewWithSource(rand.NewSource(42)), fs), fs
}

// matchAnswerFor returns the correct answer for the current match trial.
func matchAnswerFor(t *testing.T, e *Engine) MatchAnswer {
	t.Helper()
	snap := e.Snapshot()
	require.NotNil(t, snap.Match)
	return MatchAnswer{Present: snap.Match.IsMatch}
}

func TestCountdownFinalizesOnce(t *testing.T) {
	e, fs := newTestEngine(t)
	ctx := context.Background()
	e.Start(model.ModeMatch, 30)

	for i := 0; i < 29; i++ {
		finalized, err := e.Tick(ctx)
		require.NoError(t, err)
		require.False(t, finalized)
	}
	finalized, err := e.Tick(ctx)
	require.NoError(t, err)
	require.True(t, finalized)

	require.Equal(t, StateFinalized, e.State())
	result := e.Result()
	require.NotNil(t, result)
	require.Equal(t, 30, result.ElapsedSeconds)
	require.Equal(t, model.ModeMatch, result.Mode)
	require.Len(t, fs.appended, 1)
	require.Equal(t, model.TimeLimit(30), fs.appended[0].TimeLimit)

	// Extra ticks and stops after finalize are no-ops.
	finalized, err = e.Tick(ctx)
	require.NoError(t, err)
	require.False(t, finalized)
	require.NoError(t, e.Stop(ctx))
	require.Len(t, fs.appended, 1)
}

func TestCountUpStopFinalizesOnce(t *testing.T) {
	e, fs := newTestEngine(t)
	ctx := context.Background()
	e.Start(model.ModeCoding, model.Unbounded)

	for i := 0; i < 47; i++ {
		finalized, err := e.Tick(ctx)
		require.NoError(t, err)
		require.False(t, finalized, "unbounded sessions never auto-finalize")
	}
	require.NoError(t, e.Stop(ctx))
	require.Equal(t, StateFinalized, e.State())
	require.Equal(t, 47, e.Result().ElapsedSeconds)
	require.Len(t, fs.appended, 1)
	require.Equal(t, 47, fs.appended[0].ElapsedSeconds)

	// A racing second stop must not append again.
	require.NoError(t, e.Stop(ctx))
	require.Len(t, fs.appended, 1)
}

func TestStopIgnoredForCountdown(t *testing.T) {
	e, fs := newTestEngine(t)
	ctx := context.Background()
	e.Start(model.ModeMatch, 60)
	_, err := e.Tick(ctx)
	require.NoError(t, err)
	require.NoError(t, e.Stop(ctx))
	require.Equal(t, StateActive, e.State())
	require.Empty(t, fs.appended)
}

func TestShortSessionNotPersisted(t *testing.T) {
	e, fs := newTestEngine(t)
	ctx := context.Background()
	e.Start(model.ModeMatch, model.Unbounded)
	for i := 0; i < 5; i++ {
		_, err := e.Tick(ctx)
		require.NoError(t, err)
	}
	require.NoError(t, e.Stop(ctx))

	result := e.Result()
	require.NotNil(t, result)
	require.Equal(t, 0, result.Index, "short sessions get the unmeasurable sentinel")
	require.Empty(t, fs.appended)
}

func TestSubmitLifecycle(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Start(model.ModeMatch, 60)

	snap := e.Snapshot()
	require.Equal(t, StateActive, snap.State)
	require.Equal(t, PhaseAwait, snap.Phase)
	require.Equal(t, 1, snap.Seq)

	correct, accepted := e.Submit(matchAnswerFor(t, e))
	require.True(t, accepted)
	require.True(t, correct)
	require.Equal(t, 1, e.Snapshot().Score)

	// No input is accepted during the feedback delay.
	_, accepted = e.Submit(MatchAnswer{Present: true})
	require.False(t, accepted)
	require.Equal(t, 1, e.Snapshot().Score)
	require.Equal(t, 0, e.Snapshot().Mistakes)

	e.Advance()
	snap = e.Snapshot()
	require.Equal(t, PhaseAwait, snap.Phase)
	require.Equal(t, 2, snap.Seq)

	correct, accepted = e.Submit(MatchAnswer{Present: !snap.Match.IsMatch})
	require.True(t, accepted)
	require.False(t, correct)
	require.Equal(t, 1, e.Snapshot().Mistakes)
}

func TestSubmitRejectsForeignAnswerShape(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Start(model.ModeMatch, 60)
	_, accepted := e.Submit(CodingAnswer{Digit: 3})
	require.False(t, accepted)
	snap := e.Snapshot()
	require.Equal(t, 0, snap.Score)
	require.Equal(t, 0, snap.Mistakes)
}

func TestCodingTargetNeverRepeats(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Start(model.ModeCoding, model.Unbounded)
	prev := 0
	for i := 0; i < 100; i++ {
		snap := e.Snapshot()
		require.NotNil(t, snap.Coding)
		require.NotEqual(t, prev, snap.Coding.TargetDigit)
		prev = snap.Coding.TargetDigit

		correct, accepted := e.Submit(CodingAnswer{Digit: prev})
		require.True(t, accepted)
		require.True(t, correct)
		e.Advance()
	}
	require.Equal(t, 100, e.Snapshot().Score)
}

func TestResetDiscardsSession(t *testing.T) {
	e, fs := newTestEngine(t)
	ctx := context.Background()
	e.Start(model.ModeMatch, model.Unbounded)
	for i := 0; i < 20; i++ {
		_, err := e.Tick(ctx)
		require.NoError(t, err)
	}
	e.Reset()
	require.Equal(t, StateIdle, e.State())
	require.Nil(t, e.Result())
	require.Empty(t, fs.appended)

	// Stale callbacks after reset are no-ops.
	finalized, err := e.Tick(ctx)
	require.NoError(t, err)
	require.False(t, finalized)
	e.Advance()
	require.Equal(t, StateIdle, e.State())
}

func TestDisplayedTime(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	e.Start(model.ModeMatch, 30)
	for i := 0; i < 3; i++ {
		_, err := e.Tick(ctx)
		require.NoError(t, err)
	}
	require.Equal(t, 27, e.Snapshot().DisplayedTime)

	e.Start(model.ModeMatch, model.Unbounded)
	for i := 0; i < 3; i++ {
		_, err := e.Tick(ctx)
		require.NoError(t, err)
	}
	require.Equal(t, 3, e.Snapshot().DisplayedTime)
}

func TestFinalizePersistsThroughSQLite(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "pri.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	e := New(round.NewWithSource(rand.NewSource(42)), st)
	e.Start(model.ModeCoding, 30)
	correct, accepted := e.Submit(CodingAnswer{Digit: e.Snapshot().Coding.TargetDigit})
	require.True(t, accepted && correct)
	for i := 0; i < 30; i++ {
		_, err := e.Tick(ctx)
		require.NoError(t, err)
	}

	summaries, err := st.ListSummaries(ctx, model.StatsConfig{})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, model.ModeCoding, summaries[0].Mode)
	require.Equal(t, 1, summaries[0].Score)
	require.Equal(t, 30, summaries[0].ElapsedSeconds)
}
