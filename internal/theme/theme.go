package theme

import (
	"time"

	"git.lost.host/meutraa/frets/internal/game"
)

type Theme interface {
	RenderNote(lane game.Lane, status game.NoteStatus) string
	RenderSustain(lane game.Lane, status game.NoteStatus) string
	RenderHitField(lane game.Lane, holding bool) string
	RenderFeedback(text string, age time.Duration) string
}
