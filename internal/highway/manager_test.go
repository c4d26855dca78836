package highway

import (
	"math"
	"testing"
	"time"

	"git.lost.host/meutraa/frets/internal/game"
	"git.lost.host/meutraa/frets/internal/testdata"
	"github.com/stretchr/testify/require"
)

var layout = Layout{FretY: 500, NoteSpeed: 300, HitThreshold: game.HitThreshold}

const tick = time.Second / 120

func ids(notes []*game.Note) []uint64 {
	out := []uint64{}
	for _, n := range notes {
		out = append(out, n.ID)
	}
	return out
}

func TestAdvanceWindow(t *testing.T) {
	t.Parallel()

	m := NewManager(testdata.GetChart().Notes, layout)
	require.Equal(t, []uint64{1, 2, 3, 4, 5}, ids(m.Advance(tick, 0)))
	require.Equal(t, []uint64{1, 2, 3, 4, 5, 6}, ids(m.Advance(tick, 1001)))
}

func TestAdvancePositions(t *testing.T) {
	t.Parallel()

	m := NewManager(testdata.GetChart().Notes, layout)
	visible := m.Advance(tick, 0)
	require.InDelta(t, 200.0, visible[0].Y, 1e-9)
	require.True(t, visible[0].Placed)

	// Target is 230, factor min(1, 12*dt), about 0.1
	visible = m.Advance(tick, 100)
	require.InDelta(t, 200+30*math.Min(1, 12*tick.Seconds()), visible[0].Y, 1e-9)
	require.InDelta(t, 203.0, visible[0].Y, 1e-6)

	// A long stall snaps straight to the target
	visible = m.Advance(time.Second, 200)
	require.InDelta(t, 260.0, visible[0].Y, 1e-9)
}

func TestMissByTime(t *testing.T) {
	t.Parallel()

	m := NewManager(testdata.GetChart().Notes, layout)
	m.Advance(tick, 0)
	require.Empty(t, m.DetectMisses(1200))

	missed := m.DetectMisses(1201)
	require.Equal(t, []uint64{1}, ids(missed))
	require.Equal(t, game.Missed, missed[0].Status())

	// Already missed notes are not reported again
	require.Empty(t, m.DetectMisses(1201))
}

func TestMissByPosition(t *testing.T) {
	t.Parallel()

	m := NewManager(testdata.GetChart().Notes, layout)
	// 150ms late puts the note 45px below the fret line
	m.Advance(tick, 1150)
	missed := m.DetectMisses(1150)
	require.Equal(t, []uint64{1}, ids(missed))
}

func TestMissedNotesDrift(t *testing.T) {
	t.Parallel()

	m := NewManager(testdata.GetChart().Notes, layout)
	m.Advance(tick, 1150)
	m.DetectMisses(1150)
	note := m.Notes()[0]
	y := note.Y

	m.Advance(time.Second, 1150)
	require.InDelta(t, y+150, note.Y, 1e-9)

	require.Contains(t, ids(m.Advance(tick, 1499)), uint64(1))
	require.NotContains(t, ids(m.Advance(tick, 1500)), uint64(1))
}

func TestHitNotesClear(t *testing.T) {
	t.Parallel()

	m := NewManager(testdata.GetChart().Notes, layout)
	m.Advance(tick, 1000)
	note := m.Notes()[0]
	require.NoError(t, m.Transition(note, game.Hit))

	y := note.Y
	m.Advance(time.Second/10, 1000)
	require.InDelta(t, y+60, note.Y, 1e-9)

	require.Contains(t, ids(m.Advance(tick, 1199)), uint64(1))
	require.NotContains(t, ids(m.Advance(tick, 1200)), uint64(1))
}

func TestSustainStaysUntilTail(t *testing.T) {
	t.Parallel()

	m := NewManager(testdata.GetChart().Notes, layout)
	m.Advance(tick, 2000)
	note := m.Notes()[2]
	require.NoError(t, m.Transition(note, game.Hit))
	require.NoError(t, m.Transition(note, game.SustainHeld))

	require.Contains(t, ids(m.Advance(tick, 3199)), uint64(3))
	require.NoError(t, m.Transition(note, game.SustainReleased))
	require.Contains(t, ids(m.Advance(tick, 3199)), uint64(3))
	require.NotContains(t, ids(m.Advance(tick, 3200)), uint64(3))
}

func TestTransitionsOnlyMoveForward(t *testing.T) {
	t.Parallel()

	m := NewManager(testdata.GetChart().Notes, layout)
	tap := m.Notes()[0]

	require.ErrorIs(t, m.Transition(tap, game.SustainHeld), game.ErrInvalidTransition)
	require.NoError(t, m.Transition(tap, game.Hit))
	require.ErrorIs(t, m.Transition(tap, game.SustainHeld), game.ErrInvalidTransition)
	require.ErrorIs(t, m.Transition(tap, game.Missed), game.ErrInvalidTransition)
	require.ErrorIs(t, m.Transition(tap, game.Pending), game.ErrInvalidTransition)
	require.Equal(t, game.Hit, tap.Status())
}

func TestReset(t *testing.T) {
	t.Parallel()

	m := NewManager(testdata.GetChart().Notes, layout)
	m.Advance(tick, 1300)
	require.Len(t, m.DetectMisses(1300), 1)

	m.Reset()
	require.Empty(t, m.Visible())
	for _, n := range m.Notes() {
		require.Equal(t, game.Pending, n.Status())
		require.False(t, n.Placed)
	}
}
