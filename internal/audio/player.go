package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"git.lost.host/meutraa/frets/internal/logger"
	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"github.com/sirupsen/logrus"
)

// The speaker can only be initialised once per process, later tracks are resampled to it
var (
	speakerOnce sync.Once
	speakerRate beep.SampleRate
	speakerErr  error
)

func initSpeaker(rate beep.SampleRate) error {
	speakerOnce.Do(func() {
		speakerRate = rate
		speakerErr = speaker.Init(rate, rate.N(time.Second/60))
	})
	return speakerErr
}

// Player plays a decoded track and reports its position as song time
type Player struct {
	path     string
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	ended    atomic.Bool
	playing  bool
}

func decode(path string, f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".ogg":
		return vorbis.Decode(f)
	case ".wav":
		return wav.Decode(f)
	}
	return nil, beep.Format{}, fmt.Errorf("unsupported audio format %q", filepath.Ext(path))
}

// Open decodes the track at path, nothing is played until Start
func Open(path string) (*Player, error) {
	f, err := os.Open(path)
	if nil != err {
		return nil, fmt.Errorf("unable to open audio: %w", err)
	}
	streamer, format, err := decode(path, f)
	if nil != err {
		f.Close()
		return nil, fmt.Errorf("unable to decode %v: %w", path, err)
	}

	logger.GetProjectLogger().WithFields(logrus.Fields{
		"path":       path,
		"sampleRate": format.SampleRate,
		"length":     format.SampleRate.D(streamer.Len()),
	}).Debug("decoded audio")

	return &Player{path: path, streamer: streamer, format: format}, nil
}

// Start plays the track from the beginning
func (p *Player) Start() error {
	if err := initSpeaker(p.format.SampleRate); nil != err {
		return fmt.Errorf("unable to open speaker: %w", err)
	}
	if err := p.Stop(); nil != err {
		return err
	}

	speaker.Lock()
	err := p.streamer.Seek(0)
	speaker.Unlock()
	if nil != err {
		return fmt.Errorf("unable to rewind %v: %w", p.path, err)
	}

	p.ended.Store(false)
	var s beep.Streamer = p.streamer
	if p.format.SampleRate != speakerRate {
		s = beep.Resample(4, p.format.SampleRate, speakerRate, s)
	}
	p.ctrl = &beep.Ctrl{Streamer: beep.Seq(s, beep.Callback(func() {
		p.ended.Store(true)
	}))}
	speaker.Play(p.ctrl)
	p.playing = true
	return nil
}

// SongTime is the playback position in ms
func (p *Player) SongTime() float64 {
	if !p.playing {
		return 0
	}
	speaker.Lock()
	position := p.streamer.Position()
	speaker.Unlock()
	return float64(p.format.SampleRate.D(position)) / float64(time.Millisecond)
}

func (p *Player) Ended() bool {
	return p.ended.Load()
}

// Length of the track in ms
func (p *Player) Length() float64 {
	return float64(p.format.SampleRate.D(p.streamer.Len())) / float64(time.Millisecond)
}

func (p *Player) Stop() error {
	if !p.playing {
		return nil
	}
	speaker.Lock()
	p.ctrl.Streamer = nil
	p.ctrl.Paused = true
	speaker.Unlock()
	p.playing = false
	return nil
}

func (p *Player) Close() error {
	if err := p.Stop(); nil != err {
		return err
	}
	return p.streamer.Close()
}
