package core

// Intents are the control requests for one tick, produced by the input
// gateway or a replay
type Intents struct {
	Up, Down, Left, Right bool
	Shoot                 bool
	Aim                   Vec2 // world position the craft fires toward
	Restart               bool
}

// Direction returns the held direction per axis in {-1, 0, 1}
func (in Intents) Direction() (x, y float64) {
	if in.Left {
		x--
	}
	if in.Right {
		x++
	}
	if in.Up {
		y--
	}
	if in.Down {
		y++
	}
	return x, y
}
