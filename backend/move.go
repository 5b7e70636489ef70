package main

type Move struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Depth int `json:"depth,omitempty"`
}

// NoMove is the sentinel returned when no legal move exists.
var NoMove = Move{X: -1, Y: -1}

func NewMove(x, y int) Move {
	return Move{X: x, Y: y}
}

func (m Move) IsNone() bool {
	return m.X < 0 || m.Y < 0
}

func (m Move) InBounds(width, height int) bool {
	return m.X >= 0 && m.Y >= 0 && m.X < width && m.Y < height
}

func (m Move) Equals(other Move) bool {
	return m.X == other.X && m.Y == other.Y
}
