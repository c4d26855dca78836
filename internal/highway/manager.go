package highway

import (
	"math"
	"time"

	"git.lost.host/meutraa/frets/internal/game"
	"git.lost.host/meutraa/frets/internal/logger"
	"github.com/sirupsen/logrus"
)

// Display windows, in ms of song time
const (
	LookAhead    = 5000.0
	HitLinger    = 200.0
	MissLinger   = 500.0
	SustainTail  = 200.0
	MissTimeout  = 200.0
	Smoothing    = 12.0
	MissedSpeed  = 0.5
	ClearedSpeed = 2.0
)

// Layout places the highway in render space. Y grows down the screen.
type Layout struct {
	FretY        float64 // px
	NoteSpeed    float64 // px per second
	HitThreshold float64 // px either side of the fret line
}

// Manager owns every note of a chart and is the only thing that changes their status
type Manager struct {
	notes   []*game.Note
	visible []*game.Note
	layout  Layout
}

func NewManager(notes []*game.Note, layout Layout) *Manager {
	if layout.HitThreshold == 0 {
		layout.HitThreshold = game.HitThreshold
	}
	return &Manager{notes: notes, layout: layout}
}

func (m *Manager) Notes() []*game.Note {
	return m.notes
}

// Visible is the window computed by the last Advance
func (m *Manager) Visible() []*game.Note {
	return m.visible
}

func (m *Manager) Layout() Layout {
	return m.layout
}

// SetLayout moves the fret line, positions converge on the next Advance
func (m *Manager) SetLayout(layout Layout) {
	if layout.HitThreshold == 0 {
		layout.HitThreshold = game.HitThreshold
	}
	m.layout = layout
}

// TargetY is where a note at time t belongs when the song is at songTime
func (m *Manager) TargetY(t, songTime float64) float64 {
	return m.layout.FretY - (t-songTime)/1000*m.layout.NoteSpeed
}

// Distance from the fret line in px
func (m *Manager) Distance(n *game.Note) float64 {
	return math.Abs(n.Y - m.layout.FretY)
}

func relevant(n *game.Note, songTime float64) bool {
	switch n.Status() {
	case game.Pending:
		return n.Time < songTime+LookAhead
	case game.Hit:
		return n.Time > songTime-HitLinger
	case game.Missed:
		return n.Time > songTime-MissLinger
	default:
		return songTime < n.End()+SustainTail
	}
}

// Advance moves every note in the display window one step and returns the window.
// The returned slice is owned by the manager and replaced on the next call.
func (m *Manager) Advance(dt time.Duration, songTime float64) []*game.Note {
	seconds := dt.Seconds()
	factor := math.Min(1, Smoothing*seconds)

	visible := m.visible[:0]
	for _, n := range m.notes {
		if !relevant(n, songTime) {
			continue
		}

		target := m.TargetY(n.Time, songTime)
		switch {
		case !n.Placed:
			n.Y = target
			n.Placed = true
		case n.Status() == game.Missed && target >= m.layout.FretY:
			n.Y += m.layout.NoteSpeed * seconds * MissedSpeed
		case n.Status() == game.Hit && target >= m.layout.FretY:
			n.Y += m.layout.NoteSpeed * seconds * ClearedSpeed
		default:
			n.Y = n.Y*(1-factor) + target*factor
		}
		visible = append(visible, n)
	}
	m.visible = visible
	return visible
}

// DetectMisses marks pending notes in the window that scrolled past the fret line
// or are too late to be hit, and returns them.
func (m *Manager) DetectMisses(songTime float64) []*game.Note {
	var missed []*game.Note
	limit := m.layout.FretY + m.layout.HitThreshold
	for _, n := range m.visible {
		if n.Status() != game.Pending {
			continue
		}
		if n.Y > limit || songTime > n.Time+MissTimeout {
			if err := m.Transition(n, game.Missed); nil != err {
				continue
			}
			missed = append(missed, n)
		}
	}
	if len(missed) > 0 {
		logger.GetProjectLogger().WithFields(logrus.Fields{
			"count":    len(missed),
			"songTime": songTime,
		}).Debug("notes missed")
	}
	return missed
}

func (m *Manager) Transition(n *game.Note, to game.NoteStatus) error {
	return n.SetStatus(to)
}

// Reset returns every note to pending and empties the window
func (m *Manager) Reset() {
	for _, n := range m.notes {
		n.Reset()
	}
	m.visible = nil
}
