package library

import (
	"errors"

	"git.lost.host/meutraa/frets/internal/audio"
	"git.lost.host/meutraa/frets/internal/game"
	"git.lost.host/meutraa/frets/internal/generator"
	"git.lost.host/meutraa/frets/internal/logger"
	"git.lost.host/meutraa/frets/internal/parser"
	"git.lost.host/meutraa/frets/internal/timing"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// Notes generated for a song whose chart is missing or empty
const FallbackNotes = 100

type Loader struct {
	Library   *Library
	Parser    parser.Parser
	NoteSpeed float64 // px per second, spaces generated notes
	NoAudio   bool
	Clock     clock.PassiveClock // drives the wall clock when there is no audio
}

// Chart reads the song's chart. An unreadable or empty chart is replaced by generated notes.
func (l *Loader) Chart(song *Song, difficulty game.Difficulty) (*game.Chart, error) {
	log := logger.GetProjectLogger().WithFields(logrus.Fields{
		"song":       song.ID,
		"difficulty": difficulty,
	})

	if song.Chart != "" {
		chart, err := l.Parser.Parse(l.Library.Path(song.Chart), difficulty)
		var perr *parser.ParseError
		switch {
		case errors.As(err, &perr):
			log.WithError(err).Warn("unable to read chart, generating notes")
		case nil != err:
			return nil, err
		case len(chart.Notes) == 0:
			log.Warn("chart has no notes, generating notes")
		default:
			if chart.Metadata.Name == "" || chart.Metadata.Name == parser.UnknownSong {
				chart.Metadata.Name = song.Name
			}
			return chart, nil
		}
	}

	return l.generate(song, difficulty), nil
}

func (l *Loader) generate(song *Song, difficulty game.Difficulty) *game.Chart {
	notes := generator.Generate(song.ID, difficulty, FallbackNotes, l.NoteSpeed)
	holds := 0
	for _, n := range notes {
		if n.Sustainable() {
			holds++
		}
	}
	logger.GetProjectLogger().WithFields(logrus.Fields{
		"song":  song.ID,
		"notes": len(notes),
	}).Info("generated notes")

	return &game.Chart{
		Metadata: game.Metadata{
			Name:       song.Name,
			Artist:     song.Artist,
			Resolution: timing.DefaultResolution,
		},
		Tempos:     []game.TempoChange{{Tick: 0, BPM: timing.DefaultBPM, Time: 0}},
		Notes:      notes,
		Difficulty: difficulty,
		Available:  game.Difficulties[:],
		NoteCount:  len(notes),
		HoldCount:  holds,
		Generated:  true,
	}
}

// Track opens the song's audio. Without audio song time follows the wall clock
// and the track ends after length ms.
func (l *Loader) Track(song *Song, length float64) timing.Track {
	if !l.NoAudio && song.Audio != "" {
		player, err := audio.Open(l.Library.Path(song.Audio))
		if nil == err {
			return player
		}
		logger.GetProjectLogger().WithError(err).WithField("song", song.ID).Warn("unable to open audio, using the wall clock")
	}
	c := l.Clock
	if nil == c {
		c = clock.RealClock{}
	}
	return timing.NewWallClock(c, length)
}
