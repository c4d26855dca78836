package game

// Input is a single player action on a lane, Time is song time in ms
type Input struct {
	Lane    Lane
	Time    float64
	Release bool
}
