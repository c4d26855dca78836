package input

import (
	"fmt"
	"sync"

	"git.lost.host/meutraa/frets/internal/game"
	"git.lost.host/meutraa/frets/internal/logger"
	"github.com/eiannone/keyboard"
)

// Keyboard reads the terminal. Terminals only report presses.
type Keyboard struct {
	keymap *Keymap
	events chan game.Input
	quit   chan struct{}
	once   sync.Once
}

func OpenKeyboard(keymap *Keymap) (*Keyboard, error) {
	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return nil, fmt.Errorf("unable to open keyboard: %w", err)
	}
	k := newKeyboard(keymap)
	go k.read(keys)
	return k, nil
}

func newKeyboard(keymap *Keymap) *Keyboard {
	return &Keyboard{
		keymap: keymap,
		events: make(chan game.Input, 128),
		quit:   make(chan struct{}),
	}
}

func (k *Keyboard) read(keys <-chan keyboard.KeyEvent) {
	for key := range keys {
		if nil != key.Err {
			logger.GetProjectLogger().WithError(key.Err).Warn("unable to read keyboard")
			continue
		}
		switch key.Key {
		case keyboard.KeyEsc, keyboard.KeyCtrlC:
			k.stop()
			return
		}
		if lane, ok := k.keymap.Lane(key.Rune); ok {
			k.events <- game.Input{Lane: lane}
		}
	}
}

func (k *Keyboard) stop() {
	k.once.Do(func() { close(k.quit) })
}

func (k *Keyboard) Events() <-chan game.Input {
	return k.events
}

func (k *Keyboard) Quit() <-chan struct{} {
	return k.quit
}

func (k *Keyboard) Releases() bool {
	return false
}

func (k *Keyboard) Close() error {
	k.stop()
	return keyboard.Close()
}
