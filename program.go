package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"git.lost.host/meutraa/frets/internal/config"
	"git.lost.host/meutraa/frets/internal/engine"
	"git.lost.host/meutraa/frets/internal/game"
	"git.lost.host/meutraa/frets/internal/input"
	"git.lost.host/meutraa/frets/internal/library"
	"git.lost.host/meutraa/frets/internal/logger"
	"git.lost.host/meutraa/frets/internal/parser"
	"git.lost.host/meutraa/frets/internal/render"
	"git.lost.host/meutraa/frets/internal/score"
	"git.lost.host/meutraa/frets/internal/session"
	"git.lost.host/meutraa/frets/internal/theme"
	"git.lost.host/meutraa/frets/internal/timing"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

type Program struct {
	Config   *config.Config
	Parser   parser.Parser
	Store    score.Store
	Theme    theme.Theme
	Renderer *render.DefaultRenderer
	Input    input.Source
	Game     *engine.Game

	song    *library.Song
	chart   *game.Chart
	track   timing.Track
	logFile *os.File
}

func (p *Program) initLogger() error {
	// The terminal belongs to the highway, logs go to a file or nowhere
	var out io.Writer = io.Discard
	if p.Config.LogFile != "" {
		f, err := os.OpenFile(p.Config.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if nil != err {
			return fmt.Errorf("unable to open log file: %w", err)
		}
		p.logFile = f
		out = f
	}
	return logger.Configure(p.Config.LogLevel, out)
}

func (p *Program) Init() error {
	// Ensure our Default implementations are used as interfaces
	p.Parser = &parser.DefaultParser{}
	p.Theme = &theme.DefaultTheme{}
	p.Store = &score.DefaultStore{Path: p.Config.Database}
	p.Renderer = &render.DefaultRenderer{Theme: p.Theme}

	if err := p.initLogger(); nil != err {
		return err
	}
	log := logger.GetProjectLogger()

	lib, err := library.Load(p.Config.Library)
	if nil != err {
		return err
	}
	song, ok := lib.Find(p.Config.Song)
	if !ok {
		return fmt.Errorf("no song %q in %v", p.Config.Song, p.Config.Library)
	}
	p.song = song

	difficulty := p.Config.Difficulty
	if p.Config.DefaultDifficulty {
		difficulty = song.DefaultDifficulty()
	}

	loader := &library.Loader{
		Library:   lib,
		Parser:    p.Parser,
		NoteSpeed: p.Config.NoteSpeed,
		NoAudio:   p.Config.NoAudio,
	}
	p.chart, err = loader.Chart(song, difficulty)
	if nil != err {
		return err
	}
	p.track = loader.Track(song, p.chart.Length())

	if err := p.Store.Init(); nil != err {
		log.WithError(err).Warn("scores will not be saved")
		p.Store = nil
	}

	keymap, err := input.NewKeymap(p.Config.Keys)
	if nil != err {
		return err
	}
	if p.Config.Device != "" {
		p.Input, err = input.OpenEvdev(p.Config.Device, keymap)
	} else {
		p.Input, err = input.OpenKeyboard(keymap)
	}
	if nil != err {
		return err
	}

	if err := p.Renderer.Init(); nil != err {
		return err
	}

	p.Game = engine.New(p.chart, p.track, clock.RealClock{}, engine.Options{
		TickRate:    p.Config.TickRate,
		FrameRate:   p.Config.FrameRate,
		Offset:      p.Config.Offset,
		Delay:       p.Config.Delay,
		AutoRelease: !p.Input.Releases(),
	})
	p.Game.OnEnd = p.save
	p.Resize()

	log.WithFields(logrus.Fields{
		"song":       song.ID,
		"difficulty": p.chart.Difficulty,
		"notes":      p.chart.NoteCount,
		"holds":      p.chart.HoldCount,
		"generated":  p.chart.Generated,
	}).Info("loaded")
	return nil
}

func (p *Program) Resize() {
	_, rows := p.Renderer.Size()
	p.Game.Resize(render.Layout(rows, p.Config.FretRatio, p.Config.NoteSpeed))
}

func (p *Program) save(summary session.Summary, inputs []game.Input) {
	if nil == p.Store {
		return
	}
	log := logger.GetProjectLogger()
	if best, err := p.Store.Best(p.chart); nil == err && nil != best && summary.State == session.Completed && summary.Score > best.Score {
		log.WithField("previous", best.Score).Info("new best score")
	}

	err := p.Store.Save(p.chart, &score.Result{
		Song:     p.song.ID,
		Score:    summary.Score,
		MaxCombo: summary.MaxCombo,
		Currency: summary.Currency,
		Stats:    summary.Stats,
		Failed:   summary.State == session.Failed,
		Inputs:   inputs,
	})
	if nil != err {
		log.WithError(err).Warn("unable to save score")
	}
}

// Run plays the song until it ends or the player quits
func (p *Program) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-p.Input.Quit():
			cancel()
		case <-ctx.Done():
		}
	}()

	err := p.Game.Run(ctx, p.Input.Events(), p.Renderer.Draw)
	if nil != err && !errors.Is(err, context.Canceled) {
		return err
	}
	if !p.Game.Session.State().Terminal() {
		return nil
	}

	// Leave the results up until a key is pressed
	select {
	case <-p.Input.Quit():
	case <-p.Input.Events():
	}
	return nil
}

func (p *Program) Deinit() {
	if nil != p.Renderer {
		if err := p.Renderer.Deinit(); nil != err {
			logger.GetProjectLogger().WithError(err).Warn("unable to restore terminal")
		}
	}
	if nil != p.Input {
		p.Input.Close()
	}
	if nil != p.track {
		p.track.Close()
	}
	if nil != p.Store {
		p.Store.Deinit()
	}
	if nil != p.logFile {
		p.logFile.Close()
	}
}
