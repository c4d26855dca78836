package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"
)

func TestWallClock(t *testing.T) {
	t.Parallel()

	fake := clocktesting.NewFakePassiveClock(time.Unix(0, 0))
	w := NewWallClock(fake, 1000)
	require.Equal(t, 0.0, w.SongTime())
	require.False(t, w.Ended())

	require.NoError(t, w.Start())
	fake.SetTime(fake.Now().Add(250 * time.Millisecond))
	require.InDelta(t, 250.0, w.SongTime(), 1e-9)
	require.False(t, w.Ended())

	fake.SetTime(fake.Now().Add(time.Second))
	require.True(t, w.Ended())
	require.NoError(t, w.Close())
	require.False(t, w.Ended())
}

func TestWallClockWithoutLengthNeverEnds(t *testing.T) {
	t.Parallel()

	fake := clocktesting.NewFakePassiveClock(time.Unix(0, 0))
	w := NewWallClock(fake, 0)
	require.NoError(t, w.Start())
	fake.SetTime(fake.Now().Add(time.Hour))
	require.False(t, w.Ended())
}

func TestWallClockRestart(t *testing.T) {
	t.Parallel()

	fake := clocktesting.NewFakePassiveClock(time.Unix(0, 0))
	w := NewWallClock(fake, 1000)
	require.NoError(t, w.Start())
	fake.SetTime(fake.Now().Add(2 * time.Second))
	require.True(t, w.Ended())

	require.NoError(t, w.Stop())
	require.Equal(t, 0.0, w.SongTime())
	require.NoError(t, w.Start())
	require.Equal(t, 0.0, w.SongTime())
	require.False(t, w.Ended())
}
