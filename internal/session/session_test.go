package session

import (
	"testing"
	"time"

	"git.lost.host/meutraa/frets/internal/game"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"
)

func newSession() (*Session, *clocktesting.FakePassiveClock) {
	fake := clocktesting.NewFakePassiveClock(time.Unix(0, 0))
	s := New(fake)
	s.Start()
	return s, fake
}

func TestNotStarted(t *testing.T) {
	t.Parallel()

	s := New(clocktesting.NewFakePassiveClock(time.Unix(0, 0)))
	require.Equal(t, NotStarted, s.State())
	require.ErrorIs(t, s.ApplyHit(game.Judge(0)), ErrNotPlaying)
	require.ErrorIs(t, s.ApplyEmptyHit(), ErrNotPlaying)
	require.ErrorIs(t, s.ApplyMisses(1), ErrNotPlaying)
	require.ErrorIs(t, s.ApplyRelease(true, 100), ErrNotPlaying)

	s.Fail()
	s.Complete()
	require.Equal(t, NotStarted, s.State())
}

func TestApplyHit(t *testing.T) {
	t.Parallel()

	s, _ := newSession()
	require.NoError(t, s.ApplyHit(game.Judge(5)))

	snap := s.Snapshot()
	require.Equal(t, 100.0, snap.Score)
	require.Equal(t, 1, snap.Combo)
	require.Equal(t, 1, snap.MaxCombo)
	require.Equal(t, 3, snap.Currency)
	require.Equal(t, 1, snap.Stats.Perfect)
	require.Equal(t, "PERFECT!", snap.Feedback)

	// Multiplier uses the combo from before the hit
	require.NoError(t, s.ApplyHit(game.Judge(15)))
	require.NoError(t, s.ApplyHit(game.Judge(25)))
	snap = s.Snapshot()
	require.InDelta(t, 100+50*1.1+25*1.2, snap.Score, 1e-9)
	require.Equal(t, 3, snap.Combo)
	require.Equal(t, 6, snap.Currency)
	require.Equal(t, game.AccuracyStats{Perfect: 1, Great: 1, Good: 1}, snap.Stats)
}

func TestEmptyHit(t *testing.T) {
	t.Parallel()

	s, _ := newSession()
	require.NoError(t, s.ApplyHit(game.Judge(0)))
	require.NoError(t, s.ApplyHit(game.Judge(0)))
	require.NoError(t, s.ApplyEmptyHit())

	snap := s.Snapshot()
	require.Equal(t, 0, snap.Combo)
	require.Equal(t, 2, snap.MaxCombo)
	require.Equal(t, MaxMisses, snap.Lives)
	require.Equal(t, 0, snap.Stats.Missed)
	require.Equal(t, FeedbackMiss, snap.Feedback)
	require.Equal(t, Playing, snap.State)
}

func TestMisses(t *testing.T) {
	t.Parallel()

	s, _ := newSession()
	require.NoError(t, s.ApplyHit(game.Judge(0)))
	require.NoError(t, s.ApplyMisses(0))
	require.Equal(t, 1, s.Snapshot().Combo)

	require.NoError(t, s.ApplyMisses(3))
	snap := s.Snapshot()
	require.Equal(t, 0, snap.Combo)
	require.Equal(t, 1, snap.MissCount)
	require.Equal(t, MaxMisses-1, snap.Lives)
	require.Equal(t, 3, snap.Stats.Missed)
	require.Equal(t, FeedbackMiss, snap.Feedback)
	require.False(t, snap.MissWarning)

	for i := 0; i < 6; i++ {
		require.NoError(t, s.ApplyMisses(1))
	}
	require.True(t, s.Snapshot().MissWarning)
}

func TestFailOnce(t *testing.T) {
	t.Parallel()

	s, _ := newSession()
	fails := 0
	rewards := 0
	s.OnFail = func(summary Summary) {
		fails++
		require.Equal(t, Failed, summary.State)
		require.Equal(t, MaxMisses, summary.MissCount)
	}
	s.OnComplete = func(Summary) { rewards++ }

	for i := 0; i < MaxMisses-1; i++ {
		require.NoError(t, s.ApplyMisses(1))
	}
	require.Equal(t, Playing, s.State())

	require.NoError(t, s.ApplyMisses(1))
	require.Equal(t, Failed, s.State())
	require.Equal(t, 0, s.Snapshot().Lives)

	for i := 0; i < 20; i++ {
		require.ErrorIs(t, s.ApplyMisses(1), ErrNotPlaying)
		s.Fail()
	}
	require.Equal(t, 1, fails)

	// A late track end does not complete a failed session
	s.Complete()
	s.CompleteWithScore(1000)
	require.Equal(t, Failed, s.State())
	require.Equal(t, 0, rewards)
}

func TestCompleteOnce(t *testing.T) {
	t.Parallel()

	s, _ := newSession()
	var summaries []Summary
	s.OnComplete = func(summary Summary) { summaries = append(summaries, summary) }

	require.NoError(t, s.ApplyHit(game.Judge(0)))
	s.Complete()
	s.Complete()
	s.CompleteWithScore(5)

	require.Equal(t, Completed, s.State())
	require.Len(t, summaries, 1)
	require.Equal(t, 100.0, summaries[0].Score)
	require.Equal(t, 3, summaries[0].Currency)
	require.Equal(t, Completed, summaries[0].State)
	require.ErrorIs(t, s.ApplyHit(game.Judge(0)), ErrNotPlaying)
}

func TestCompleteWithScore(t *testing.T) {
	t.Parallel()

	s := New(clocktesting.NewFakePassiveClock(time.Unix(0, 0)))
	rewarded := 0.0
	s.OnComplete = func(summary Summary) { rewarded = summary.Score }

	s.CompleteWithScore(4321)
	require.Equal(t, Completed, s.State())
	require.Equal(t, 4321.0, rewarded)
}

func TestStartResets(t *testing.T) {
	t.Parallel()

	s, _ := newSession()
	rewards := 0
	s.OnComplete = func(Summary) { rewards++ }

	require.NoError(t, s.ApplyHit(game.Judge(0)))
	require.NoError(t, s.ApplyMisses(2))
	s.Complete()

	s.Start()
	snap := s.Snapshot()
	require.Equal(t, Playing, snap.State)
	require.Equal(t, 0.0, snap.Score)
	require.Equal(t, 0, snap.Combo)
	require.Equal(t, 0, snap.MaxCombo)
	require.Equal(t, 0, snap.MissCount)
	require.Equal(t, 0, snap.Currency)
	require.Equal(t, game.AccuracyStats{}, snap.Stats)
	require.Equal(t, "", snap.Feedback)

	// The reward guard is per session
	s.Complete()
	require.Equal(t, 2, rewards)
}

func TestRelease(t *testing.T) {
	t.Parallel()

	s, _ := newSession()
	require.NoError(t, s.ApplyHit(game.Judge(0)))
	require.NoError(t, s.ApplyRelease(true, 100))
	require.Equal(t, 200.0, s.Snapshot().Score)
	require.Equal(t, FeedbackSustained, s.Feedback())

	require.NoError(t, s.ApplyRelease(false, 0))
	require.Equal(t, 200.0, s.Snapshot().Score)
	require.Equal(t, 1, s.Snapshot().Combo)
	require.Equal(t, FeedbackEarly, s.Feedback())
}

func TestFeedbackExpires(t *testing.T) {
	t.Parallel()

	s, fake := newSession()
	require.NoError(t, s.ApplyHit(game.Judge(0)))

	fake.SetTime(fake.Now().Add(300 * time.Millisecond))
	require.Equal(t, "PERFECT!", s.Feedback())

	// Superseding restarts the timer
	require.NoError(t, s.ApplyHit(game.Judge(15)))
	fake.SetTime(fake.Now().Add(300 * time.Millisecond))
	require.Equal(t, "GREAT!", s.Feedback())
	require.Equal(t, 300*time.Millisecond, s.Snapshot().FeedbackAge)

	fake.SetTime(fake.Now().Add(200 * time.Millisecond))
	require.Equal(t, "", s.Feedback())
}

func TestRating(t *testing.T) {
	t.Parallel()

	s, _ := newSession()
	for i := 0; i < 10; i++ {
		require.NoError(t, s.ApplyHit(game.Judge(0)))
	}
	snap := s.Snapshot()
	require.Equal(t, 100, snap.Accuracy)
	require.Equal(t, game.Rating{Stars: 5, Text: "PERFECT!"}, snap.Rating)
}
