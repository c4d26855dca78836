package game

type Metadata struct {
	Name       string
	Artist     string
	Charter    string
	Album      string
	Year       string
	Offset     float64 // ms
	Resolution int     // Ticks per quarter note
}

type Chart struct {
	Metadata       Metadata
	Tempos         []TempoChange
	TimeSignatures []TimeSignature
	Sections       []Section
	Notes          []*Note // Sorted by Time
	Difficulty     Difficulty
	Available      []Difficulty // Difficulties present in the source, by rank
	NoteCount      int
	HoldCount      int
	Generated      bool // Notes came from the procedural fallback
}

// Length is the end of the last note, in ms
func (c *Chart) Length() float64 {
	end := 0.0
	for _, n := range c.Notes {
		if e := n.End(); e > end {
			end = e
		}
	}
	return end
}

// SectionAt returns the name of the last section marker at or before t
func (c *Chart) SectionAt(t float64) string {
	name := ""
	for _, s := range c.Sections {
		if s.Time > t {
			break
		}
		name = s.Name
	}
	return name
}

// Reset returns every note to Pending
func (c *Chart) Reset() {
	for _, n := range c.Notes {
		n.Reset()
	}
}

func (c *Chart) Has(d Difficulty) bool {
	for _, a := range c.Available {
		if a == d {
			return true
		}
	}
	return false
}
