package input

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"syscall"

	"git.lost.host/meutraa/frets/internal/game"
	"git.lost.host/meutraa/frets/internal/logger"
)

// From linux/input-event-codes.h
const (
	evKey    = 0x01
	keyEsc   = 1
	released = 0
	pressed  = 1
)

var keyCodes = map[rune]uint16{
	'1': 2, '2': 3, '3': 4, '4': 5, '5': 6, '6': 7, '7': 8, '8': 9, '9': 10, '0': 11,
	'q': 16, 'w': 17, 'e': 18, 'r': 19, 't': 20, 'y': 21, 'u': 22, 'i': 23, 'o': 24, 'p': 25,
	'a': 30, 's': 31, 'd': 32, 'f': 33, 'g': 34, 'h': 35, 'j': 36, 'k': 37, 'l': 38, ';': 39,
	'z': 44, 'x': 45, 'c': 46, 'v': 47, 'b': 48, 'n': 49, 'm': 50, ',': 51, '.': 52, '/': 53,
	' ': 57,
}

type keyEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// Evdev reads a Linux input device, which reports releases as well as presses
type Evdev struct {
	file   io.ReadCloser
	lanes  map[uint16]game.Lane
	events chan game.Input
	quit   chan struct{}
	once   sync.Once
}

func OpenEvdev(device string, keymap *Keymap) (*Evdev, error) {
	file, err := os.Open(device)
	if err != nil {
		return nil, fmt.Errorf("unable to open input device: %w", err)
	}
	e, err := newEvdev(file, keymap)
	if nil != err {
		file.Close()
		return nil, err
	}
	go e.read()
	return e, nil
}

func newEvdev(file io.ReadCloser, keymap *Keymap) (*Evdev, error) {
	lanes := map[uint16]game.Lane{}
	for i := 0; i < game.NLanes; i++ {
		lane := game.Lane(i)
		code, ok := keyCodes[keymap.Key(lane)]
		if !ok {
			return nil, fmt.Errorf("no input code for key %q", keymap.Key(lane))
		}
		lanes[code] = lane
	}
	return &Evdev{
		file:   file,
		lanes:  lanes,
		events: make(chan game.Input, 128),
		quit:   make(chan struct{}),
	}, nil
}

func (e *Evdev) read() {
	defer e.stop()

	var ev keyEvent
	for {
		if err := binary.Read(e.file, binary.LittleEndian, &ev); nil != err {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				logger.GetProjectLogger().WithError(err).Warn("unable to read input device")
			}
			return
		}
		// Repeats have a value of 2
		if ev.Type != evKey || (ev.Value != pressed && ev.Value != released) {
			continue
		}
		if ev.Code == keyEsc {
			return
		}
		if lane, ok := e.lanes[ev.Code]; ok {
			e.events <- game.Input{Lane: lane, Release: ev.Value == released}
		}
	}
}

func (e *Evdev) stop() {
	e.once.Do(func() { close(e.quit) })
}

func (e *Evdev) Events() <-chan game.Input {
	return e.events
}

func (e *Evdev) Quit() <-chan struct{} {
	return e.quit
}

func (e *Evdev) Releases() bool {
	return true
}

func (e *Evdev) Close() error {
	e.stop()
	return e.file.Close()
}
