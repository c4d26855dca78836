package game

// Lane is one of the five fret columns
type Lane uint8

const (
	LaneGreen Lane = iota
	LaneRed
	LaneYellow
	LaneBlue
	LaneOrange
)

const NLanes = 5

var laneNames = [NLanes]string{"green", "red", "yellow", "blue", "orange"}

// LaneFromIndex maps a chart note number to a lane, anything unknown is green
func LaneFromIndex(i int) Lane {
	if i < 0 || i >= NLanes {
		return LaneGreen
	}
	return Lane(i)
}

func (l Lane) String() string {
	if int(l) >= NLanes {
		return "unknown"
	}
	return laneNames[l]
}

func (l Lane) Valid() bool {
	return l < NLanes
}
