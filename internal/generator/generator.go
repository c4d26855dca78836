package generator

import (
	"math"
	"math/rand"
	"sort"
	"unicode/utf16"

	"git.lost.host/meutraa/frets/internal/game"
)

// Where the first generated note starts, in px above the top of the highway
const startY = -50.0

// DefaultNoteSpeed is used when no positive note speed is given, in px per second
const DefaultNoteSpeed = 300.0

type profile struct {
	spacing    float64 // px between notes
	randomness float64 // px of extra random spacing
	complexity float64 // fraction of the lanes in use
}

var profiles = map[game.Difficulty]profile{
	game.Easy:   {spacing: 150, randomness: 100, complexity: 0.7},
	game.Medium: {spacing: 120, randomness: 130, complexity: 0.85},
	game.Hard:   {spacing: 90, randomness: 160, complexity: 1.1},
	game.Expert: {spacing: 70, randomness: 180, complexity: 1.3},
}

// HashString is a 32 bit string hash over UTF-16 code units, always positive
func HashString(s string) float64 {
	var hash int32
	for _, c := range utf16.Encode([]rune(s)) {
		hash = (hash << 5) - hash + int32(c)
	}
	return math.Abs(float64(hash))
}

// LCG is the linear congruential generator behind the note patterns
type LCG struct {
	seed float64
}

func NewLCG(seed float64) *LCG {
	return &LCG{seed: seed}
}

// Next returns a value in [0, 1)
func (l *LCG) Next() float64 {
	l.seed = math.Mod(l.seed*9301+49297, 233280)
	return l.seed / 233280
}

// Generate builds count notes (plus chords on expert) for a chart that could not be
// loaded. The same song id always gives the same pattern, an empty id is random.
// Render-space spacing is turned into time with noteSpeed, in px per second.
func Generate(songID string, difficulty game.Difficulty, count int, noteSpeed float64) []*game.Note {
	if noteSpeed <= 0 {
		noteSpeed = DefaultNoteSpeed
	}

	p, ok := profiles[difficulty]
	if !ok {
		p = profile{spacing: 100, randomness: 150, complexity: 1}
	}

	seed := rand.Float64() * 1000
	if songID != "" {
		seed = HashString(songID)
	}
	next := NewLCG(seed).Next

	lanes := float64(game.NLanes)
	notes := []*game.Note{}
	add := func(lane int, y float64) {
		notes = append(notes, &game.Note{
			Lane: game.LaneFromIndex(lane % game.NLanes),
			Time: -y / noteSpeed * 1000,
		})
	}

	lastY := startY
	for i := 0; i < count; i++ {
		lastY -= p.spacing + next()*p.randomness

		var lane int
		if songID != "" {
			// Easier difficulties use fewer lanes
			available := math.Max(1, math.Floor(lanes*p.complexity))
			lane = int(math.Floor(next() * available))

			if difficulty == game.Expert && next() < 0.15 && i < count-1 {
				add(lane+1+int(math.Floor(next()*(lanes-1))), lastY)
			}
		} else {
			lane = rand.Intn(game.NLanes)
		}
		add(lane, lastY)
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Time < notes[j].Time
	})
	for i, n := range notes {
		n.ID = uint64(i + 1)
	}
	return notes
}
