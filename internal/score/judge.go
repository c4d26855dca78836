package score

import (
	"math"
	"sort"

	"git.lost.host/meutraa/frets/internal/game"
	"git.lost.host/meutraa/frets/internal/highway"
	"git.lost.host/meutraa/frets/internal/logger"
	"github.com/sirupsen/logrus"
)

// Fraction of a sustain that has to be held for the release to count
const SustainRatio = 0.9

// Held is a sustain currently being held down
type Held struct {
	Note  *game.Note
	Start float64 // song time of the press
}

type HitResult struct {
	Note      *game.Note // nil when nothing could be hit
	Judgement game.Judgement
	Distance  float64 // px from the fret line
	Held      bool    // the note is now being sustained
}

func (r HitResult) Missed() bool {
	return nil == r.Note
}

type ReleaseResult struct {
	Note      *game.Note // nil when the lane was not holding anything
	Duration  float64    // ms held
	Sustained bool
	Bonus     int
}

// Judge matches player actions to notes. Status changes go through the highway.
type Judge struct {
	highway *highway.Manager
	held    map[game.Lane]*Held
}

func NewJudge(h *highway.Manager) *Judge {
	return &Judge{highway: h, held: map[game.Lane]*Held{}}
}

// Hit finds the pending note in the lane closest to the fret line that is inside
// both the distance and time windows. The first of two equally close notes wins.
func (j *Judge) Hit(lane game.Lane, t float64, visible []*game.Note) HitResult {
	var closest *game.Note
	best := math.Inf(1)

	for _, n := range visible {
		if n.Lane != lane || n.Status() != game.Pending {
			continue
		}
		d := j.highway.Distance(n)
		if d >= j.highway.Layout().HitThreshold || math.Abs(n.Time-t) >= game.HitWindow {
			continue
		}
		if d < best {
			best = d
			closest = n
		}
	}

	if nil == closest {
		return HitResult{}
	}

	if err := j.highway.Transition(closest, game.Hit); nil != err {
		logger.GetProjectLogger().WithError(err).Warn("unable to hit note")
		return HitResult{}
	}

	result := HitResult{Note: closest, Judgement: game.Judge(best), Distance: best}
	if closest.Sustainable() {
		if err := j.highway.Transition(closest, game.SustainHeld); nil == err {
			j.held[lane] = &Held{Note: closest, Start: t}
			result.Held = true
		}
	}

	logger.GetProjectLogger().WithFields(logrus.Fields{
		"note":     closest.ID,
		"lane":     lane,
		"distance": best,
		"quality":  result.Judgement.Name,
	}).Debug("note hit")
	return result
}

// Release ends the sustain held on a lane. The record is removed whatever the outcome.
func (j *Judge) Release(lane game.Lane, t float64) ReleaseResult {
	h, ok := j.held[lane]
	if !ok {
		return ReleaseResult{}
	}
	delete(j.held, lane)

	n := h.Note
	result := ReleaseResult{Note: n, Duration: t - h.Start}
	to := game.SustainFailed
	if result.Duration >= n.Sustain*SustainRatio {
		to = game.SustainReleased
		result.Sustained = true
		result.Bonus = int(math.Floor(n.Sustain/100)) * 10
	}
	if err := j.highway.Transition(n, to); nil != err {
		logger.GetProjectLogger().WithError(err).Warn("unable to release note")
	}
	return result
}

// AutoRelease releases every sustain that has been held for its full length, in lane order
func (j *Judge) AutoRelease(t float64) []ReleaseResult {
	lanes := []game.Lane{}
	for lane, h := range j.held {
		if t-h.Start >= h.Note.Sustain {
			lanes = append(lanes, lane)
		}
	}
	sort.Slice(lanes, func(a, b int) bool { return lanes[a] < lanes[b] })

	results := []ReleaseResult{}
	for _, lane := range lanes {
		results = append(results, j.Release(lane, t))
	}
	return results
}

func (j *Judge) Holding(lane game.Lane) bool {
	_, ok := j.held[lane]
	return ok
}

func (j *Judge) HeldCount() int {
	return len(j.held)
}

// Clear forgets every held note without judging it
func (j *Judge) Clear() {
	j.held = map[game.Lane]*Held{}
}
