package timing

import (
	"sort"

	"git.lost.host/meutraa/frets/internal/game"
)

const (
	DefaultResolution = 192
	DefaultBPM        = 120.0
)

// TempoEvent is a SyncTrack B entry as written in the chart
type TempoEvent struct {
	Tick     int64
	MilliBPM int64
}

// Resolution falls back to the default for zero or negative values
func Resolution(r int) int {
	if r <= 0 {
		return DefaultResolution
	}
	return r
}

// BuildTempoTable orders the events by tick and resolves each one's time from the
// entry before it. The table always starts with 120 BPM at tick 0, which a chart
// event at tick 0 replaces.
func BuildTempoTable(events []TempoEvent, resolution int) []game.TempoChange {
	sorted := make([]TempoEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Tick < sorted[j].Tick
	})

	table := []game.TempoChange{{Tick: 0, BPM: DefaultBPM, Time: 0}}
	for _, e := range sorted {
		if e.MilliBPM <= 0 || e.Tick < 0 {
			continue
		}
		bpm := float64(e.MilliBPM) / 1000
		last := &table[len(table)-1]
		if e.Tick == last.Tick {
			last.BPM = bpm
			continue
		}
		table = append(table, game.TempoChange{
			Tick: e.Tick,
			BPM:  bpm,
			Time: TicksToMs(e.Tick, table, resolution),
		})
	}
	return table
}

// TicksToMs converts a chart position to ms using the last tempo change at or before it
func TicksToMs(tick int64, table []game.TempoChange, resolution int) float64 {
	resolution = Resolution(resolution)
	entry := game.TempoChange{BPM: DefaultBPM}
	if len(table) > 0 {
		// First entry past the tick, the one before it is in effect
		i := sort.Search(len(table), func(i int) bool {
			return table[i].Tick > tick
		})
		if i > 0 {
			i--
		}
		entry = table[i]
	}
	return entry.Time + float64(tick-entry.Tick)*60000/(entry.BPM*float64(resolution))
}

// SustainMs is the length in ms of a hold starting at tick
func SustainMs(tick, length int64, table []game.TempoChange, resolution int) float64 {
	if length <= 0 {
		return 0
	}
	return TicksToMs(tick+length, table, resolution) - TicksToMs(tick, table, resolution)
}
