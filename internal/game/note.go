package game

import (
	"errors"
	"fmt"
)

// Notes with a sustain longer than this are held after being hit
const HoldThreshold = 200.0

var ErrInvalidTransition = errors.New("invalid note status transition")

type NoteStatus uint8

const (
	Pending NoteStatus = iota
	Hit
	Missed
	SustainHeld
	SustainReleased
	SustainFailed
)

var statusNames = [...]string{"pending", "hit", "missed", "held", "released", "failed"}

func (s NoteStatus) String() string {
	if int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// WasHit reports whether the note was struck, whatever happened to its sustain after
func (s NoteStatus) WasHit() bool {
	return s == Hit || s == SustainHeld || s == SustainReleased || s == SustainFailed
}

type Note struct {
	ID      uint64
	Lane    Lane
	Tick    int64   // Chart position, 0 for generated notes
	Time    float64 // The time the note should be hit, in ms
	Sustain float64 // Length of the hold in ms, 0 for a tap

	// This is state
	Y      float64 // Render position, follows Time but is smoothed
	Placed bool    // Y has been set at least once
	status NoteStatus
}

func NewNote(id uint64, lane Lane, tick int64, time, sustain float64) *Note {
	return &Note{ID: id, Lane: lane, Tick: tick, Time: time, Sustain: sustain}
}

func (n *Note) Status() NoteStatus {
	return n.status
}

// Sustainable notes become SustainHeld when hit
func (n *Note) Sustainable() bool {
	return n.Sustain > HoldThreshold
}

// End is the time the sustain finishes, equal to Time for taps
func (n *Note) End() float64 {
	return n.Time + n.Sustain
}

// SetStatus moves the note forward through its lifecycle.
// Only the highway manager should call this.
func (n *Note) SetStatus(to NoteStatus) error {
	if !CanTransition(n.status, to, n.Sustainable()) {
		return fmt.Errorf("%w: note %d %v -> %v", ErrInvalidTransition, n.ID, n.status, to)
	}
	n.status = to
	return nil
}

// Reset puts the note back into its parsed state, used when a session restarts
func (n *Note) Reset() {
	n.status = Pending
	n.Y = 0
	n.Placed = false
}

// CanTransition encodes the one way status graph
func CanTransition(from, to NoteStatus, sustainable bool) bool {
	switch from {
	case Pending:
		return to == Hit || to == Missed
	case Hit:
		return to == SustainHeld && sustainable
	case SustainHeld:
		return to == SustainReleased || to == SustainFailed
	}
	return false
}
