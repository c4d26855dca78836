package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"git.lost.host/meutraa/frets/internal/engine"
	"git.lost.host/meutraa/frets/internal/game"
	"git.lost.host/meutraa/frets/internal/highway"
	"git.lost.host/meutraa/frets/internal/session"
	"git.lost.host/meutraa/frets/internal/theme"
	"golang.org/x/term"
)

// Render space is measured in px, one terminal row is this many
const PixelsPerRow = 10.0

type DefaultRenderer struct {
	Theme   theme.Theme
	Out     io.Writer
	Spacing int // columns between lanes

	columns, rows int
	buffer        strings.Builder
	restoreState  *term.State
	decorations   []*decoration
	lastMisses    int
}

type decoration struct {
	X, Y    int
	Content string
	Frames  int // remaining frames until removed
}

// Layout places the fret line on a terminal of the given height
func Layout(rows int, fretRatio, noteSpeed float64) highway.Layout {
	return highway.Layout{
		FretY:        math.Floor(float64(rows-1)*fretRatio) * PixelsPerRow,
		NoteSpeed:    noteSpeed,
		HitThreshold: game.HitThreshold,
	}
}

func (r *DefaultRenderer) out() io.Writer {
	if nil == r.Out {
		return os.Stdout
	}
	return r.Out
}

func (r *DefaultRenderer) Init() error {
	fd := int(os.Stdout.Fd())
	columns, rows, err := term.GetSize(fd)
	if nil != err {
		return fmt.Errorf("unable to get terminal size: %w", err)
	}
	r.columns, r.rows = columns, rows

	state, err := term.MakeRaw(fd)
	if nil != err {
		return err
	}
	r.restoreState = state

	fmt.Fprintf(r.out(), "%s%s%s",
		"\033[?1049h", // Enable alternate buffer
		"\033[?25l",   // Make the cursor invisible
		"\033[J",      // Clear the screen
	)
	return nil
}

func (r *DefaultRenderer) Deinit() error {
	if nil == r.restoreState {
		return nil
	}
	fmt.Fprintf(r.out(), "%s%s",
		"\033[?1049l", // Disable alternate buffer
		"\033[?25h",   // Make the cursor visible
	)
	return term.Restore(int(os.Stdout.Fd()), r.restoreState)
}

func (r *DefaultRenderer) Size() (int, int) {
	return r.columns, r.rows
}

// SetSize is for renderers that do not own a terminal
func (r *DefaultRenderer) SetSize(columns, rows int) {
	r.columns, r.rows = columns, rows
}

func (r *DefaultRenderer) AddDecoration(col, row int, content string, frames int) {
	r.decorations = append(r.decorations, &decoration{
		X:       col,
		Y:       row,
		Content: content,
		Frames:  frames,
	})
}

func (r *DefaultRenderer) tickDecorations() {
	nd := make([]*decoration, 0, len(r.decorations))
	for _, d := range r.decorations {
		if d.Frames == 0 {
			r.Fill(d.Y, d.X, " ")
			continue
		}
		r.Fill(d.Y, d.X, d.Content)
		nd = append(nd, d)
		d.Frames--
	}
	r.decorations = nd
}

func (r *DefaultRenderer) spacing() int {
	if r.Spacing <= 0 {
		return 6
	}
	return r.Spacing
}

// Column of each lane, centred on the terminal
func (r *DefaultRenderer) laneColumn(lane game.Lane) int {
	mid := r.columns >> 1
	return mid + (int(lane)-game.NLanes/2)*r.spacing()
}

func row(y float64) int {
	return int(math.Floor(y/PixelsPerRow)) + 1
}

func (r *DefaultRenderer) inField(rw int) bool {
	return rw > 0 && rw <= r.rows
}

func (r *DefaultRenderer) Draw(view engine.View) {
	fretRow := row(view.Layout.FretY)

	// Clear the highway
	blank := strings.Repeat(" ", r.spacing()*game.NLanes)
	left := r.laneColumn(0) - r.spacing()/2
	for rw := 1; rw <= r.rows; rw++ {
		r.Fill(rw, left, blank)
	}

	for i := 0; i < game.NLanes; i++ {
		lane := game.Lane(i)
		r.Fill(fretRow, r.laneColumn(lane), r.Theme.RenderHitField(lane, view.Holding[i]))
	}

	for _, n := range view.Notes {
		col := r.laneColumn(n.Lane)
		head := row(n.Y)
		if n.Sustain > 0 && n.Status() != game.Missed {
			tail := row(n.Y - n.Sustain/1000*view.Layout.NoteSpeed)
			for rw := tail; rw < head; rw++ {
				if r.inField(rw) {
					r.Fill(rw, col, r.Theme.RenderSustain(n.Lane, n.Status()))
				}
			}
		}
		// Struck taps disappear, sustains keep their head on the fret line
		if n.Status() == game.Hit {
			continue
		}
		if r.inField(head) {
			r.Fill(head, col, r.Theme.RenderNote(n.Lane, n.Status()))
		}
	}

	s := view.Session
	if s.MissCount > r.lastMisses {
		cen := fretRow
		for i := 0; i < game.NLanes; i++ {
			col := r.laneColumn(game.Lane(i))
			r.AddDecoration(col-1, cen-1, "\033[1;31m╭\033[0m", 30)
			r.AddDecoration(col+1, cen-1, "\033[1;31m╮\033[0m", 30)
			r.AddDecoration(col-1, cen+1, "\033[1;31m╰\033[0m", 30)
			r.AddDecoration(col+1, cen+1, "\033[1;31m╯\033[0m", 30)
		}
	}
	r.lastMisses = s.MissCount
	r.tickDecorations()

	feedbackCol := r.laneColumn(game.LaneYellow) - 7
	r.Fill(fretRow-4, feedbackCol, strings.Repeat(" ", 16))
	if s.Feedback != "" {
		r.Fill(fretRow-4, feedbackCol, r.Theme.RenderFeedback(s.Feedback, s.FeedbackAge))
	}

	r.drawPanel(view)
	r.flush()
}

func (r *DefaultRenderer) drawPanel(view engine.View) {
	s := view.Session
	col := r.laneColumn(0) - r.spacing() - 32
	if col < 2 {
		col = 2
	}

	lives := strings.Repeat("♥", s.Lives) + strings.Repeat("♡", session.MaxMisses-s.Lives)
	bar := int(math.Round(view.Progress * 20))
	lines := []string{
		view.Metadata.Name,
		view.Metadata.Artist,
		view.Section,
		"",
		fmt.Sprintf("     Score:  %8.0f", s.Score),
		fmt.Sprintf("     Combo:  %8v", s.Combo),
		fmt.Sprintf(" Max Combo:  %8v", s.MaxCombo),
		fmt.Sprintf("  Accuracy:  %7v%%", s.Accuracy),
		fmt.Sprintf("   Emerald:  %8v", s.Currency),
		fmt.Sprintf("     Lives:  %v", lives),
		"",
		fmt.Sprintf("   Perfect:  %8v", s.Stats.Perfect),
		fmt.Sprintf("     Great:  %8v", s.Stats.Great),
		fmt.Sprintf("      Good:  %8v", s.Stats.Good),
		fmt.Sprintf("    Missed:  %8v", s.Stats.Missed),
		"",
		"[" + strings.Repeat("=", bar) + strings.Repeat(" ", 20-bar) + "]",
	}
	if s.MissWarning && s.State == session.Playing {
		lines = append(lines, "\033[1;31mCAREFUL!\033[0m")
	}
	switch s.State {
	case session.Completed:
		lines = append(lines, "", "SONG COMPLETE", strings.Repeat("★", s.Rating.Stars)+" "+s.Rating.Text)
	case session.Failed:
		lines = append(lines, "", "\033[1;31mSONG FAILED\033[0m")
	}

	for i, l := range lines {
		r.Fill(2+i, col, fmt.Sprintf("%-30v", l))
	}
}

func (r *DefaultRenderer) Fill(row, column int, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.FormatInt(int64(row), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(column), 10))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

func (r *DefaultRenderer) flush() {
	r.out().Write([]byte(r.buffer.String()))
	r.buffer.Reset()
}
