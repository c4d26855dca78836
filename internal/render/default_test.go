package render

import (
	"bytes"
	"testing"

	"git.lost.host/meutraa/frets/internal/engine"
	"git.lost.host/meutraa/frets/internal/game"
	"git.lost.host/meutraa/frets/internal/session"
	"git.lost.host/meutraa/frets/internal/theme"
	"github.com/stretchr/testify/require"
)

func TestLayout(t *testing.T) {
	t.Parallel()

	l := Layout(41, 0.9, 300)
	require.Equal(t, 360.0, l.FretY)
	require.Equal(t, 300.0, l.NoteSpeed)
	require.Equal(t, game.HitThreshold, l.HitThreshold)
	require.Equal(t, 37, row(l.FretY))
}

func TestLaneColumns(t *testing.T) {
	t.Parallel()

	r := &DefaultRenderer{}
	r.SetSize(80, 40)
	require.Equal(t, 28, r.laneColumn(game.LaneGreen))
	require.Equal(t, 40, r.laneColumn(game.LaneYellow))
	require.Equal(t, 52, r.laneColumn(game.LaneOrange))
}

func TestDraw(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	th := &theme.DefaultTheme{}
	r := &DefaultRenderer{Theme: th, Out: &out}
	r.SetSize(120, 41)

	note := game.NewNote(1, game.LaneRed, 0, 1000, 0)
	note.Y = 200
	view := engine.View{
		Metadata: game.Metadata{Name: "House of the Rising Sun", Artist: "The Animals"},
		Layout:   Layout(41, 0.9, 300),
		Notes:    []game.Note{*note},
		Section:  "Verse 1",
		Progress: 0.5,
		Session: session.Snapshot{
			Summary:  session.Summary{State: session.Playing, Score: 1234, MaxCombo: 7},
			Combo:    7,
			Lives:    8,
			Accuracy: 93,
			Feedback: "GREAT!",
		},
	}
	r.Draw(view)

	s := out.String()
	require.Contains(t, s, "House of the Rising Sun")
	require.Contains(t, s, "Verse 1")
	require.Contains(t, s, "1234")
	require.Contains(t, s, "93%")
	require.Contains(t, s, "♥♥♥♥♥♥♥♥♡♡")
	require.Contains(t, s, "[==========          ]")
	require.Contains(t, s, "\033[21;54H"+th.RenderNote(game.LaneRed, game.Pending))
	require.Contains(t, s, th.RenderFeedback("GREAT!", 0))
	require.NotContains(t, s, "CAREFUL!")

	// Losing a life frames the fret line
	out.Reset()
	view.Session.MissCount = 3
	view.Session.MissWarning = false
	r.Draw(view)
	require.Contains(t, out.String(), "╭")

	out.Reset()
	view.Session.State = session.Completed
	view.Session.Rating = game.Rating{Stars: 4, Text: "AMAZING!"}
	r.Draw(view)
	require.Contains(t, out.String(), "★★★★ AMAZING!")
}
