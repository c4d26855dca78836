package input

import (
	"fmt"

	"git.lost.host/meutraa/frets/internal/game"
)

// Source delivers player actions. Time is left at zero, the game stamps it when handled.
type Source interface {
	Events() <-chan game.Input
	// Closed when the player asks to leave
	Quit() <-chan struct{}
	// Releases reports whether the source can tell when a key is let go
	Releases() bool
	Close() error
}

// Keymap binds one key to each lane, in lane order
type Keymap struct {
	keys  []rune
	lanes map[rune]game.Lane
}

func NewKeymap(keys string) (*Keymap, error) {
	runes := []rune(keys)
	if len(runes) != game.NLanes {
		return nil, fmt.Errorf("need %d keys, got %q", game.NLanes, keys)
	}
	k := &Keymap{keys: runes, lanes: map[rune]game.Lane{}}
	for i, r := range runes {
		if _, ok := k.lanes[r]; ok {
			return nil, fmt.Errorf("key %q is bound twice", r)
		}
		k.lanes[r] = game.Lane(i)
	}
	return k, nil
}

func (k *Keymap) Lane(r rune) (game.Lane, bool) {
	lane, ok := k.lanes[r]
	return lane, ok
}

func (k *Keymap) Key(lane game.Lane) rune {
	return k.keys[lane]
}
