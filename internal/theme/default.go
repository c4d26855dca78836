package theme

import (
	"fmt"
	"time"

	"git.lost.host/meutraa/frets/internal/game"
	"git.lost.host/meutraa/frets/internal/session"
	"github.com/fogleman/ease"
	"github.com/lucasb-eyer/go-colorful"
)

type DefaultTheme struct {
}

const (
	noteSym    = "⬤"
	sustainSym = "┃"
	barSym     = "━"
	pressedSym = "▀"
)

var (
	laneColors = [game.NLanes]colorful.Color{
		hex("#2ecc40"), // green
		hex("#ff4136"), // red
		hex("#ffdc00"), // yellow
		hex("#0074d9"), // blue
		hex("#ff851b"), // orange
	}
	background = hex("#000000")
	grey       = hex("#6a6a6a")
	white      = hex("#ffffff")

	feedbackColors = map[string]colorful.Color{
		"PERFECT!":                hex("#ecc300"),
		"GREAT!":                  hex("#00ec80"),
		"GOOD!":                   hex("#0076ec"),
		session.FeedbackMiss:      hex("#ec1e00"),
		session.FeedbackSustained: hex("#6a00ec"),
		session.FeedbackEarly:     hex("#ec8000"),
	}
)

func hex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if nil != err {
		panic(err)
	}
	return c
}

func paint(c colorful.Color, s string) string {
	r, g, b := c.Clamped().RGB255()
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", r, g, b, s)
}

func laneColor(lane game.Lane) colorful.Color {
	if !lane.Valid() {
		return white
	}
	return laneColors[lane]
}

// Missed notes fade to grey, struck ones flash towards white
func noteColor(lane game.Lane, status game.NoteStatus) colorful.Color {
	c := laneColor(lane)
	switch status {
	case game.Missed, game.SustainFailed:
		return c.BlendLab(grey, 0.7)
	case game.Hit, game.SustainReleased:
		return c.BlendLab(white, 0.5)
	}
	return c
}

func (t *DefaultTheme) RenderNote(lane game.Lane, status game.NoteStatus) string {
	return paint(noteColor(lane, status), noteSym)
}

func (t *DefaultTheme) RenderSustain(lane game.Lane, status game.NoteStatus) string {
	return paint(noteColor(lane, status), sustainSym)
}

func (t *DefaultTheme) RenderHitField(lane game.Lane, holding bool) string {
	if holding {
		return paint(laneColor(lane).BlendLab(white, 0.3), pressedSym)
	}
	return paint(laneColor(lane).BlendLab(background, 0.4), barSym)
}

// RenderFeedback fades the text out over its lifetime
func (t *DefaultTheme) RenderFeedback(text string, age time.Duration) string {
	c, ok := feedbackColors[text]
	if !ok {
		c = white
	}
	progress := float64(age) / float64(session.FeedbackDuration)
	if progress > 1 {
		progress = 1
	} else if progress < 0 {
		progress = 0
	}
	return paint(c.BlendRgb(background, ease.InQuad(progress)), text)
}
