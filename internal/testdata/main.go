package testdata

import (
	"strings"

	"git.lost.host/meutraa/frets/internal/game"
)

// Chart has a tempo change halfway, a sustain and two difficulties
const Chart = `[Song]
{
  Name = "House of the Rising Sun"
  Artist = "The Animals"
  Charter = "meutraa"
  Album = "The Animals"
  Year = ", 1964"
  Offset = 0
  Resolution = 192
}
[SyncTrack]
{
  0 = TS 4
  0 = B 120000
  768 = B 60000
  1536 = TS 3 3
}
[Events]
{
  0 = E "section Intro"
  768 = E "section Verse 1"
}
[MediumSingle]
{
  192 = N 0 0
  384 = N 1 0
  576 = N 2 0
  768 = N 3 192
  960 = N 4 0
}
[ExpertSingle]
{
  192 = N 0 0
  192 = N 2 0
  288 = N 1 0
  384 = N 7 0
  576 = N 4 0
  768 = N 3 0
  960 = N 4 384
  1152 = N 0 0
}
`

// MediumOnly has no expert track
const MediumOnly = `[Song]
{
  Name = "Medium Only"
  Resolution = "192"
}
[SyncTrack]
{
  0 = B 120000
}
[MediumSingle]
{
  0 = N 0 0
  192 = N 1 0
}
`

// TempoLast lists the SyncTrack after the notes
const TempoLast = `[Song]
{
  Resolution = 192
}
[ExpertSingle]
{
  384 = N 0 0
  768 = N 1 96
  1152 = N 2 0
}
[SyncTrack]
{
  384 = B 240000
  0 = B 120000
}
`

// TempoFirst is TempoLast with the SyncTrack in its usual place and order
const TempoFirst = `[Song]
{
  Resolution = 192
}
[SyncTrack]
{
  0 = B 120000
  384 = B 240000
}
[ExpertSingle]
{
  384 = N 0 0
  768 = N 1 96
  1152 = N 2 0
}
`

// EmptyExpert declares an expert track with no notes in it
const EmptyExpert = `[Song]
{
  Resolution = 480
}
[ExpertSingle]
{
}
[HardSingle]
{
  480 = N 2 0
  960 = N 3 0
}
`

// Malformed is full of lines that should be skipped
const Malformed = `[Song]
{
  Name = "Broken"
  Resolution = lots
}
[SyncTrack]
{
  0 = B
  x = B 120000
  192 = A 1
}
[EasySingle]
{
  192 = N 1 0
  not a note
  384 = N one 0
  576 = N 2
  768 = S 2 0
  960 = N 3 0
}
`

// GetChart builds a small chart without going through the parser
func GetChart() *game.Chart {
	notes := []*game.Note{
		game.NewNote(1, game.LaneGreen, 0, 1000, 0),
		game.NewNote(2, game.LaneRed, 0, 1500, 0),
		game.NewNote(3, game.LaneGreen, 0, 2000, 1000),
		game.NewNote(4, game.LaneYellow, 0, 2500, 0),
		game.NewNote(5, game.LaneGreen, 0, 2600, 0),
		game.NewNote(6, game.LaneBlue, 0, 6000, 0),
	}
	return &game.Chart{
		Metadata:  game.Metadata{Name: "fixture", Resolution: 192},
		Notes:     notes,
		NoteCount: len(notes),
		HoldCount: 1,
	}
}

func Reader(chart string) *strings.Reader {
	return strings.NewReader(chart)
}
