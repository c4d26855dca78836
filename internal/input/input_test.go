package input

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"git.lost.host/meutraa/frets/internal/game"
	"github.com/eiannone/keyboard"
	"github.com/stretchr/testify/require"
)

func TestKeymap(t *testing.T) {
	t.Parallel()

	k, err := NewKeymap("asjkl")
	require.NoError(t, err)

	lane, ok := k.Lane('j')
	require.True(t, ok)
	require.Equal(t, game.LaneYellow, lane)
	require.Equal(t, 'l', k.Key(game.LaneOrange))

	_, ok = k.Lane('x')
	require.False(t, ok)

	_, err = NewKeymap("asjk")
	require.Error(t, err)
	_, err = NewKeymap("asjka")
	require.ErrorContains(t, err, "bound twice")
}

func encode(t *testing.T, events ...keyEvent) io.ReadCloser {
	var buf bytes.Buffer
	for _, ev := range events {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, ev))
	}
	return io.NopCloser(&buf)
}

func drain(ch <-chan game.Input) []game.Input {
	out := []game.Input{}
	for {
		select {
		case in := <-ch:
			out = append(out, in)
		default:
			return out
		}
	}
}

func TestEvdev(t *testing.T) {
	t.Parallel()

	k, err := NewKeymap("asjkl")
	require.NoError(t, err)

	e, err := newEvdev(encode(t,
		keyEvent{Type: evKey, Code: 30, Value: pressed},
		keyEvent{Type: 0x04, Code: 4, Value: 30}, // scan code, ignored
		keyEvent{Type: evKey, Code: 30, Value: 2},
		keyEvent{Type: evKey, Code: 36, Value: pressed},
		keyEvent{Type: evKey, Code: 30, Value: released},
		keyEvent{Type: evKey, Code: 45, Value: pressed}, // unbound
	), k)
	require.NoError(t, err)
	require.True(t, e.Releases())

	e.read()
	require.Equal(t, []game.Input{
		{Lane: game.LaneGreen},
		{Lane: game.LaneYellow},
		{Lane: game.LaneGreen, Release: true},
	}, drain(e.Events()))

	// The end of the device closes quit
	_, open := <-e.Quit()
	require.False(t, open)
	require.NoError(t, e.Close())
}

func TestEvdevEscape(t *testing.T) {
	t.Parallel()

	k, err := NewKeymap("asjkl")
	require.NoError(t, err)
	e, err := newEvdev(encode(t,
		keyEvent{Type: evKey, Code: keyEsc, Value: pressed},
		keyEvent{Type: evKey, Code: 30, Value: pressed},
	), k)
	require.NoError(t, err)

	e.read()
	require.Empty(t, drain(e.Events()))
	_, open := <-e.Quit()
	require.False(t, open)
}

func TestEvdevUnknownKey(t *testing.T) {
	t.Parallel()

	k, err := NewKeymap("asjk@")
	require.NoError(t, err)
	_, err = newEvdev(encode(t), k)
	require.ErrorContains(t, err, "no input code")
}

func TestKeyboard(t *testing.T) {
	t.Parallel()

	k, err := NewKeymap("asjkl")
	require.NoError(t, err)
	kb := newKeyboard(k)
	require.False(t, kb.Releases())

	keys := make(chan keyboard.KeyEvent, 4)
	keys <- keyboard.KeyEvent{Rune: 's'}
	keys <- keyboard.KeyEvent{Rune: 'q'}
	keys <- keyboard.KeyEvent{Rune: 'l'}
	keys <- keyboard.KeyEvent{Key: keyboard.KeyEsc}
	close(keys)

	kb.read(keys)
	require.Equal(t, []game.Input{{Lane: game.LaneRed}, {Lane: game.LaneOrange}}, drain(kb.Events()))
	_, open := <-kb.Quit()
	require.False(t, open)
}
