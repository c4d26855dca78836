package engine

import (
	"math"

	"git.lost.host/meutraa/frets/internal/game"
	"git.lost.host/meutraa/frets/internal/highway"
	"git.lost.host/meutraa/frets/internal/session"
)

// View is a copy of the game state for a renderer, it shares nothing with the game
type View struct {
	Metadata game.Metadata
	Layout   highway.Layout
	Notes    []game.Note // The visible window
	Holding  [game.NLanes]bool
	SongTime float64
	Progress float64 // 0 to 1
	Section  string
	Session  session.Snapshot
}

type lengther interface {
	Length() float64
}

// Length of the song in ms, from the track when it knows, otherwise the chart
func (g *Game) Length() float64 {
	if l, ok := g.track.(lengther); ok && l.Length() > 0 {
		return l.Length()
	}
	return g.Chart.Length()
}

func (g *Game) View() View {
	visible := g.highway.Visible()
	notes := make([]game.Note, len(visible))
	for i, n := range visible {
		notes[i] = *n
	}

	var holding [game.NLanes]bool
	for i := range holding {
		holding[i] = g.judge.Holding(game.Lane(i))
	}

	progress := 0.0
	if length := g.Length(); length > 0 {
		progress = math.Max(0, math.Min(1, g.songTime/length))
	}

	return View{
		Metadata: g.Chart.Metadata,
		Layout:   g.highway.Layout(),
		Notes:    notes,
		Holding:  holding,
		SongTime: g.songTime,
		Progress: progress,
		Section:  g.Chart.SectionAt(g.songTime),
		Session:  g.Session.Snapshot(),
	}
}
