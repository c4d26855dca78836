package parser

import (
	"fmt"
	"io"

	"git.lost.host/meutraa/frets/internal/game"
)

type Parser interface {
	// Parse reads a .chart file from disk
	Parse(file string, difficulty game.Difficulty) (*game.Chart, error)

	// Decode reads chart text from r
	Decode(r io.Reader, difficulty game.Difficulty) (*game.Chart, error)
}

// ParseError is returned when the chart text could not be read at all
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("unable to read chart: %v", e.Err)
	}
	return fmt.Sprintf("unable to read chart %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
