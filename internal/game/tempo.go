package game

// TempoChange is a SyncTrack B event with its resolved time
type TempoChange struct {
	Tick int64
	BPM  float64 // Beats per minute, already divided down from milli-BPM
	Time float64 // ms
}

// TimeSignature is a SyncTrack TS event
type TimeSignature struct {
	Tick        int64
	Numerator   int
	Denominator int // 4 = quarter notes
	Time        float64
}

// Section is a named rehearsal marker from the Events track
type Section struct {
	Name string
	Time float64
}
