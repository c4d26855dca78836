package timing

import (
	"time"

	"k8s.io/utils/clock"
)

// Clock is the source of song time, in ms since the track started
type Clock interface {
	SongTime() float64
}

// Track is a playable backing track that drives song time.
// Start plays from the beginning, Stop halts playback and Close frees the track.
type Track interface {
	Clock
	Start() error
	Stop() error
	Ended() bool
	Close() error
}

// WallClock approximates song time from elapsed real time.
// It stands in for a track whose audio could not be decoded.
type WallClock struct {
	clock   clock.PassiveClock
	start   time.Time
	started bool
	length  float64
}

// NewWallClock ends after length ms, a zero length never ends
func NewWallClock(c clock.PassiveClock, length float64) *WallClock {
	return &WallClock{clock: c, length: length}
}

func (w *WallClock) Start() error {
	w.start = w.clock.Now()
	w.started = true
	return nil
}

func (w *WallClock) SongTime() float64 {
	if !w.started {
		return 0
	}
	return float64(w.clock.Since(w.start)) / float64(time.Millisecond)
}

func (w *WallClock) Ended() bool {
	return w.started && w.length > 0 && w.SongTime() >= w.length
}

func (w *WallClock) Stop() error {
	w.started = false
	return nil
}

func (w *WallClock) Close() error {
	return w.Stop()
}
