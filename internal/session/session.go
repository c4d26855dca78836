package session

import (
	"errors"
	"time"

	"git.lost.host/meutraa/frets/internal/game"
	"git.lost.host/meutraa/frets/internal/logger"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

type State uint8

const (
	NotStarted State = iota
	Playing
	Completed
	Failed
)

var stateNames = [...]string{"not started", "playing", "completed", "failed"}

func (s State) String() string {
	if int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal states only change on Start
func (s State) Terminal() bool {
	return s == Completed || s == Failed
}

const (
	MaxMisses        = 10
	WarningMisses    = MaxMisses - 3
	FeedbackDuration = 500 * time.Millisecond
)

const (
	FeedbackMiss      = "MISS!"
	FeedbackSustained = "SUSTAINED"
	FeedbackEarly     = "RELEASED EARLY"
)

var ErrNotPlaying = errors.New("session is not playing")

// Summary is handed to the completion and failure callbacks
type Summary struct {
	State     State
	Score     float64
	Currency  int
	MaxCombo  int
	MissCount int
	Stats     game.AccuracyStats
}

// Snapshot is a read only copy of everything the view shows
type Snapshot struct {
	Summary
	Combo       int
	Lives       int
	Accuracy    int
	Rating      game.Rating
	Feedback    string
	FeedbackAge time.Duration
	MissWarning bool
}

// Session is the only writer of score, combo and lives
type Session struct {
	// Called once when the session completes, with the rewards earned
	OnComplete func(Summary)
	// Called once when the session fails
	OnFail func(Summary)

	clock clock.PassiveClock

	state     State
	score     float64
	combo     int
	maxCombo  int
	missCount int
	currency  int
	stats     game.AccuracyStats
	rewarded  bool

	feedback   string
	feedbackAt time.Time
}

func New(c clock.PassiveClock) *Session {
	return &Session{clock: c}
}

// Start resets everything and begins playing, from any state
func (s *Session) Start() {
	s.state = Playing
	s.score = 0
	s.combo = 0
	s.maxCombo = 0
	s.missCount = 0
	s.currency = 0
	s.stats = game.AccuracyStats{}
	s.rewarded = false
	s.feedback = ""
	logger.GetProjectLogger().Info("session started")
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) setFeedback(text string) {
	s.feedback = text
	s.feedbackAt = s.clock.Now()
}

// Feedback is the latest feedback text, empty once it has expired
func (s *Session) Feedback() string {
	if s.feedback == "" || s.clock.Since(s.feedbackAt) >= FeedbackDuration {
		return ""
	}
	return s.feedback
}

// ApplyHit scores a note, using the combo from before the hit as the multiplier
func (s *Session) ApplyHit(j game.Judgement) error {
	if s.state != Playing {
		return ErrNotPlaying
	}
	s.score += float64(j.Points) * (1 + float64(s.combo)*0.1)
	s.combo++
	if s.combo > s.maxCombo {
		s.maxCombo = s.combo
	}
	s.currency += j.Currency
	s.stats.Add(j.Quality)
	s.setFeedback(j.Name)
	return nil
}

// ApplyEmptyHit is a press with nothing to hit. It breaks the combo but costs no life.
func (s *Session) ApplyEmptyHit() error {
	if s.state != Playing {
		return ErrNotPlaying
	}
	s.combo = 0
	s.setFeedback(FeedbackMiss)
	return nil
}

// ApplyMisses records the notes that scrolled past in one tick.
// However many there are they cost a single life.
func (s *Session) ApplyMisses(count int) error {
	if s.state != Playing {
		return ErrNotPlaying
	}
	if count <= 0 {
		return nil
	}
	s.stats.Missed += count
	s.missCount++
	s.combo = 0
	s.setFeedback(FeedbackMiss)

	logger.GetProjectLogger().WithFields(logrus.Fields{
		"notes":  count,
		"misses": s.missCount,
	}).Debug("missed")

	if s.missCount >= MaxMisses {
		s.Fail()
	}
	return nil
}

// ApplyRelease adds the bonus of a sustain that was held long enough
func (s *Session) ApplyRelease(sustained bool, bonus int) error {
	if s.state != Playing {
		return ErrNotPlaying
	}
	if sustained {
		s.score += float64(bonus)
		s.setFeedback(FeedbackSustained)
	} else {
		s.setFeedback(FeedbackEarly)
	}
	return nil
}

func (s *Session) summary() Summary {
	return Summary{
		State:     s.state,
		Score:     s.score,
		Currency:  s.currency,
		MaxCombo:  s.maxCombo,
		MissCount: s.missCount,
		Stats:     s.stats,
	}
}

// Fail ends a session that is playing, later calls do nothing
func (s *Session) Fail() {
	if s.state != Playing {
		return
	}
	s.state = Failed
	logger.GetProjectLogger().WithFields(logrus.Fields{
		"score":  s.score,
		"misses": s.missCount,
	}).Info("session failed")
	if nil != s.OnFail {
		s.OnFail(s.summary())
	}
}

// Complete ends a session that is playing and hands out the rewards
func (s *Session) Complete() {
	if s.state != Playing {
		return
	}
	s.finish()
}

// CompleteWithScore finishes with a known score, such as a session being resumed.
// It is allowed before Start.
func (s *Session) CompleteWithScore(score float64) {
	if s.state.Terminal() {
		return
	}
	s.score = score
	s.finish()
}

func (s *Session) finish() {
	s.state = Completed
	logger.GetProjectLogger().WithFields(logrus.Fields{
		"score":    s.score,
		"maxCombo": s.maxCombo,
		"accuracy": s.stats.Accuracy(),
	}).Info("session completed")

	if s.rewarded {
		return
	}
	s.rewarded = true
	if nil != s.OnComplete {
		s.OnComplete(s.summary())
	}
}

func (s *Session) Snapshot() Snapshot {
	lives := MaxMisses - s.missCount
	if lives < 0 {
		lives = 0
	}
	feedback := s.Feedback()
	var age time.Duration
	if feedback != "" {
		age = s.clock.Since(s.feedbackAt)
	}
	return Snapshot{
		Summary:     s.summary(),
		Combo:       s.combo,
		Lives:       lives,
		Accuracy:    s.stats.Accuracy(),
		Rating:      s.stats.Rating(),
		Feedback:    feedback,
		FeedbackAge: age,
		MissWarning: s.missCount >= WarningMisses,
	}
}
