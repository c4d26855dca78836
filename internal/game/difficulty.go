package game

import (
	"fmt"
	"strings"
)

// Difficulty is ranked, Easy being the lowest
type Difficulty uint8

const (
	Easy Difficulty = iota
	Medium
	Hard
	Expert
)

// Difficulties in ascending rank
var Difficulties = [...]Difficulty{Easy, Medium, Hard, Expert}

var difficultyNames = [...]string{"easy", "medium", "hard", "expert"}

func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range difficultyNames {
		if name == s {
			return Difficulty(i), nil
		}
	}
	return Medium, fmt.Errorf("unknown difficulty %q", s)
}

// DifficultyFromSection maps a chart section header such as ExpertSingle
func DifficultyFromSection(section string) (Difficulty, bool) {
	for _, d := range Difficulties {
		if d.Section() == section {
			return d, true
		}
	}
	return Easy, false
}

func (d Difficulty) String() string {
	if int(d) >= len(difficultyNames) {
		return "unknown"
	}
	return difficultyNames[d]
}

// Section is the chart section header holding this difficulty's notes
func (d Difficulty) Section() string {
	switch d {
	case Easy:
		return "EasySingle"
	case Medium:
		return "MediumSingle"
	case Hard:
		return "HardSingle"
	case Expert:
		return "ExpertSingle"
	}
	return ""
}
