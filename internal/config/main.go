package config

import (
	"fmt"
	"time"

	"git.lost.host/meutraa/frets/internal/game"
	"gopkg.in/alecthomas/kingpin.v2"
)

const Version = "0.3.0"

const MaxTickRate = 1000

type Config struct {
	Library    string
	Song       string
	Difficulty game.Difficulty
	Offset     time.Duration
	Delay      time.Duration
	TickRate   int
	FrameRate  int
	NoteSpeed  float64
	FretRatio  float64
	Keys       string
	Device     string
	Database   string
	LogLevel   string
	LogFile    string
	NoAudio    bool

	// Set when --difficulty was not given, the song's own default applies
	DefaultDifficulty bool
}

func app(c *Config, difficulty *string) *kingpin.Application {
	a := kingpin.New("frets", "Five lane rhythm game for the terminal")
	a.Version(Version)
	a.Flag("library", "Song library manifest").Default("library.yaml").Short('l').StringVar(&c.Library)
	a.Arg("song", "Song id from the library").Required().StringVar(&c.Song)
	a.Flag("difficulty", "easy, medium, hard or expert").Short('D').StringVar(difficulty)
	a.Flag("offset", "Global offset").Default("0ms").Short('o').DurationVar(&c.Offset)
	a.Flag("delay", "Start delay").Default("1.5s").Short('d').DurationVar(&c.Delay)
	a.Flag("tick-rate", "Simulation updates per second").Default("120").IntVar(&c.TickRate)
	a.Flag("frame-rate", "Render frames per second").Default("60").Short('R').IntVar(&c.FrameRate)
	a.Flag("note-speed", "Highway speed in px per second, a terminal row is 10 px").Default("300").Short('s').Float64Var(&c.NoteSpeed)
	a.Flag("fret-ratio", "Height of the fret line as a fraction of the highway").Default("0.9").Float64Var(&c.FretRatio)
	a.Flag("keys", "Keys for the five lanes").Default("asjkl").Short('k').StringVar(&c.Keys)
	a.Flag("device", "Linux input device, reports key releases").Short('i').StringVar(&c.Device)
	a.Flag("db", "Score database").Default("scores.db").StringVar(&c.Database)
	a.Flag("log-level", "Log level").Default("info").EnumVar(&c.LogLevel, "trace", "debug", "info", "warn", "error")
	a.Flag("log-file", "Write logs here instead of discarding them").StringVar(&c.LogFile)
	a.Flag("no-audio", "Play without audio, time follows the wall clock").BoolVar(&c.NoAudio)
	return a
}

// Parse reads the command line, args excludes the program name
func Parse(args []string) (*Config, error) {
	c := &Config{}
	var difficulty string
	if _, err := app(c, &difficulty).Parse(args); nil != err {
		return nil, err
	}

	if difficulty == "" {
		c.Difficulty = game.Medium
		c.DefaultDifficulty = true
	} else {
		d, err := game.ParseDifficulty(difficulty)
		if nil != err {
			return nil, err
		}
		c.Difficulty = d
	}

	switch {
	case c.TickRate <= 0 || c.TickRate > MaxTickRate:
		return nil, fmt.Errorf("tick rate must be in (0, %d], got %d", MaxTickRate, c.TickRate)
	case c.FrameRate <= 0:
		return nil, fmt.Errorf("frame rate must be positive, got %d", c.FrameRate)
	case c.NoteSpeed <= 0:
		return nil, fmt.Errorf("note speed must be positive, got %v", c.NoteSpeed)
	case c.FretRatio <= 0 || c.FretRatio > 1:
		return nil, fmt.Errorf("fret ratio must be in (0, 1], got %v", c.FretRatio)
	}
	return c, nil
}
