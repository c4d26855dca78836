package game

import "math"

type AccuracyStats struct {
	Perfect int
	Great   int
	Good    int
	Missed  int
}

type Rating struct {
	Stars int
	Text  string
}

func (s *AccuracyStats) Add(q Quality) {
	switch q {
	case Perfect:
		s.Perfect++
	case Great:
		s.Great++
	case Good:
		s.Good++
	}
}

func (s AccuracyStats) Total() int {
	return s.Perfect + s.Great + s.Good + s.Missed
}

// Accuracy is a weighted percentage, 0 when nothing has been judged
func (s AccuracyStats) Accuracy() int {
	total := s.Total()
	if total == 0 {
		return 0
	}
	weighted := float64(s.Perfect)*1.0 + float64(s.Great)*0.7 + float64(s.Good)*0.4
	return int(math.Round(weighted / float64(total) * 100))
}

func (s AccuracyStats) Rating() Rating {
	accuracy := s.Accuracy()
	switch {
	case accuracy >= 95:
		return Rating{Stars: 5, Text: "PERFECT!"}
	case accuracy >= 85:
		return Rating{Stars: 4, Text: "AMAZING!"}
	case accuracy >= 75:
		return Rating{Stars: 3, Text: "GREAT!"}
	case accuracy >= 60:
		return Rating{Stars: 2, Text: "GOOD"}
	}
	return Rating{Stars: 1, Text: "PASSED"}
}
