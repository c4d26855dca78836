package engine

import (
	"context"
	"fmt"
	"time"

	"git.lost.host/meutraa/frets/internal/game"
	"git.lost.host/meutraa/frets/internal/highway"
	"git.lost.host/meutraa/frets/internal/logger"
	"git.lost.host/meutraa/frets/internal/score"
	"git.lost.host/meutraa/frets/internal/session"
	"git.lost.host/meutraa/frets/internal/timing"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

const (
	DefaultTickRate  = 120
	DefaultFrameRate = 60
	MaxTickRate      = 1000
	MaxFrame         = 100 * time.Millisecond
	EndGrace         = 2 * time.Second
)

type Options struct {
	TickRate  int           // Simulation updates per second
	FrameRate int           // Render frames per second in Run
	Offset    time.Duration // Added to the track position
	Delay     time.Duration // Lead in before the track starts
	Layout    highway.Layout

	// Judge a sustain once it has been held for its full length.
	// Needed when the input source cannot report releases.
	AutoRelease bool
}

// Game runs one chart against one track. It is not safe for concurrent use,
// Run is the single owner of its state.
type Game struct {
	Chart   *game.Chart
	Session *session.Session

	// Called once when the session completes or fails
	OnEnd func(summary session.Summary, inputs []game.Input)

	opts    Options
	clock   clock.WithTicker
	track   timing.Track
	highway *highway.Manager
	judge   *score.Judge
	step    time.Duration

	startedAt    time.Time
	lastFrame    time.Time
	accumulator  time.Duration
	trackStarted bool
	songTime     float64
	trackEndedAt time.Time
	trackEnded   bool
	inputs       []game.Input
}

func New(chart *game.Chart, track timing.Track, c clock.WithTicker, opts Options) *Game {
	if opts.TickRate <= 0 {
		opts.TickRate = DefaultTickRate
	}
	if opts.TickRate > MaxTickRate {
		opts.TickRate = MaxTickRate
	}
	if opts.FrameRate <= 0 {
		opts.FrameRate = DefaultFrameRate
	}

	g := &Game{
		Chart:   chart,
		Session: session.New(c),
		opts:    opts,
		clock:   c,
		track:   track,
		highway: highway.NewManager(chart.Notes, opts.Layout),
		step:    time.Second / time.Duration(opts.TickRate),
	}
	g.judge = score.NewJudge(g.highway)
	g.Session.OnComplete = g.end
	g.Session.OnFail = g.end
	return g
}

func (g *Game) end(summary session.Summary) {
	if err := g.track.Stop(); nil != err {
		logger.GetProjectLogger().WithError(err).Warn("unable to stop track")
	}
	g.judge.Clear()
	if nil != g.OnEnd {
		g.OnEnd(summary, g.Inputs())
	}
}

// Start resets the chart and session and begins the lead in.
// The track starts once the delay has passed.
func (g *Game) Start() error {
	if err := g.track.Stop(); nil != err {
		return fmt.Errorf("unable to stop track: %w", err)
	}
	g.highway.Reset()
	g.judge.Clear()
	g.Session.Start()

	now := g.clock.Now()
	g.startedAt = now
	g.lastFrame = now
	g.accumulator = 0
	g.trackStarted = false
	g.trackEnded = false
	g.inputs = []game.Input{}
	g.songTime = g.pollSongTime()

	logger.GetProjectLogger().WithFields(logrus.Fields{
		"song":       g.Chart.Metadata.Name,
		"difficulty": g.Chart.Difficulty,
		"notes":      len(g.Chart.Notes),
		"delay":      g.opts.Delay,
	}).Info("starting")

	return g.startTrack()
}

func (g *Game) startTrack() error {
	if g.trackStarted || g.clock.Since(g.startedAt) < g.opts.Delay {
		return nil
	}
	g.trackStarted = true
	err := g.track.Start()
	if nil == err {
		return nil
	}

	// Play on without audio
	logger.GetProjectLogger().WithError(err).Warn("unable to start track, using wall clock")
	g.track = timing.NewWallClock(g.clock, g.Chart.Length())
	if err := g.track.Start(); nil != err {
		return fmt.Errorf("unable to start track: %w", err)
	}
	return nil
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Song time is negative during the lead in
func (g *Game) pollSongTime() float64 {
	offset := ms(g.opts.Offset)
	if !g.trackStarted {
		return ms(g.clock.Since(g.startedAt)-g.opts.Delay) + offset
	}
	return g.track.SongTime() + offset
}

// SongTime is the song time seen by the last frame
func (g *Game) SongTime() float64 {
	return g.songTime
}

// Frame advances the simulation by the real time since the previous frame,
// in fixed steps. Song time is read from the track once per frame.
func (g *Game) Frame() error {
	now := g.clock.Now()
	elapsed := now.Sub(g.lastFrame)
	g.lastFrame = now
	if g.Session.State() != session.Playing {
		return nil
	}
	if elapsed > MaxFrame {
		elapsed = MaxFrame
	}

	if err := g.startTrack(); nil != err {
		return err
	}
	g.songTime = g.pollSongTime()

	g.accumulator += elapsed
	for g.accumulator >= g.step && g.Session.State() == session.Playing {
		g.accumulator -= g.step
		g.tick()
	}

	if g.trackStarted && !g.trackEnded && g.track.Ended() {
		g.trackEnded = true
		g.trackEndedAt = now
		logger.GetProjectLogger().Debug("track ended")
	}
	if g.trackEnded && now.Sub(g.trackEndedAt) >= EndGrace {
		g.Session.Complete()
	}
	return nil
}

func (g *Game) tick() {
	g.highway.Advance(g.step, g.songTime)
	if missed := g.highway.DetectMisses(g.songTime); len(missed) > 0 {
		g.Session.ApplyMisses(len(missed))
	}
	if g.opts.AutoRelease {
		for _, r := range g.judge.AutoRelease(g.songTime) {
			g.Session.ApplyRelease(r.Sustained, r.Bonus)
		}
	}
}

// Press is a player striking a lane, judged at the current track position
func (g *Game) Press(lane game.Lane) score.HitResult {
	if g.Session.State() != session.Playing {
		return score.HitResult{}
	}
	t := g.pollSongTime()
	g.inputs = append(g.inputs, game.Input{Lane: lane, Time: t})

	result := g.judge.Hit(lane, t, g.highway.Visible())
	if result.Missed() {
		g.Session.ApplyEmptyHit()
	} else {
		g.Session.ApplyHit(result.Judgement)
	}
	return result
}

// Release is a player letting go of a lane
func (g *Game) Release(lane game.Lane) score.ReleaseResult {
	if g.Session.State() != session.Playing {
		return score.ReleaseResult{}
	}
	t := g.pollSongTime()
	g.inputs = append(g.inputs, game.Input{Lane: lane, Time: t, Release: true})

	result := g.judge.Release(lane, t)
	if nil != result.Note {
		g.Session.ApplyRelease(result.Sustained, result.Bonus)
	}
	return result
}

// Inputs is a copy of every action taken since Start
func (g *Game) Inputs() []game.Input {
	return append([]game.Input{}, g.inputs...)
}

// Handle applies a player action from an input source
func (g *Game) Handle(in game.Input) {
	if in.Release {
		g.Release(in.Lane)
	} else {
		g.Press(in.Lane)
	}
}

// Resize moves the fret line, for example after the terminal changed size
func (g *Game) Resize(layout highway.Layout) {
	g.highway.SetLayout(layout)
	g.opts.Layout = g.highway.Layout()
}

// Run starts the game and drives it until the session ends or ctx is done.
// Actions arrive on inputs and render is called after every frame.
func (g *Game) Run(ctx context.Context, inputs <-chan game.Input, render func(View)) error {
	defer g.Stop()

	if err := g.Start(); nil != err {
		return err
	}

	ticker := g.clock.NewTicker(time.Second / time.Duration(g.opts.FrameRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in, ok := <-inputs:
			if !ok {
				inputs = nil
				continue
			}
			g.Handle(in)
		case <-ticker.C():
			if err := g.Frame(); nil != err {
				return err
			}
			if nil != render {
				render(g.View())
			}
			if g.Session.State().Terminal() {
				return nil
			}
		}
	}
}

// Stop halts the track and drops held notes. The chart and session are left as they are.
func (g *Game) Stop() error {
	g.judge.Clear()
	return g.track.Stop()
}
