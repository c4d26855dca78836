package render

import "git.lost.host/meutraa/frets/internal/engine"

type Renderer interface {
	Init() error
	Deinit() error
	Size() (columns, rows int)
	AddDecoration(col, row int, content string, frames int)
	Draw(view engine.View)
}
