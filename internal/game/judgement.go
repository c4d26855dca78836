package game

type Quality uint8

const (
	Perfect Quality = iota
	Great
	Good
)

type Judgement struct {
	Quality  Quality
	Name     string
	Distance float64 // Upper bound, in px from the fret line
	Points   int
	Currency int
}

// Hits farther than HitThreshold from the fret line are not hits at all
const (
	HitThreshold = 30.0
	HitWindow    = 300.0 // ms either side of the note
)

var Judgements = [...]Judgement{
	{Quality: Perfect, Name: "PERFECT!", Distance: 10, Points: 100, Currency: 3},
	{Quality: Great, Name: "GREAT!", Distance: 20, Points: 50, Currency: 2},
	{Quality: Good, Name: "GOOD!", Distance: HitThreshold, Points: 25, Currency: 1},
}

// Judge classifies a distance that has already passed the hit gates
func Judge(distance float64) Judgement {
	for _, j := range Judgements[:len(Judgements)-1] {
		if distance < j.Distance {
			return j
		}
	}
	return Judgements[len(Judgements)-1]
}

func (q Quality) String() string {
	if int(q) >= len(Judgements) {
		return "unknown"
	}
	return Judgements[q].Name
}
