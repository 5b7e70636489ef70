package main

type Cell int

const (
	CellBlank Cell = iota
	CellBlackTrail
	CellWhiteTrail
)

// Board records which cells have been visited. A visited cell keeps the
// color of the player that landed on it and stays blocked for the rest
// of the game.
type Board struct {
	width  int
	height int
	cells  []Cell
}

func NewBoard(width, height int) Board {
	b := Board{}
	b.Reset(width, height)
	return b
}

func (b *Board) Reset(width, height int) {
	b.width = width
	b.height = height
	b.cells = make([]Cell, width*height)
}

func (b Board) At(x, y int) Cell {
	return b.cells[b.index(x, y)]
}

func (b *Board) Set(x, y int, value Cell) {
	b.cells[b.index(x, y)] = value
}

func (b Board) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height
}

func (b Board) IsBlank(x, y int) bool {
	return b.InBounds(x, y) && b.At(x, y) == CellBlank
}

func (b Board) CountBlank() int {
	count := 0
	for _, cell := range b.cells {
		if cell == CellBlank {
			count++
		}
	}
	return count
}

func (b Board) Width() int {
	return b.width
}

func (b Board) Height() int {
	return b.height
}

func (b Board) Clone() Board {
	clone := Board{width: b.width, height: b.height}
	clone.cells = make([]Cell, len(b.cells))
	copy(clone.cells, b.cells)
	return clone
}

func (b Board) index(x, y int) int {
	return y*b.width + x
}

func (c Cell) String() string {
	switch c {
	case CellBlackTrail:
		return "Black"
	case CellWhiteTrail:
		return "White"
	default:
		return "Blank"
	}
}

func TrailFromPlayer(player PlayerColor) Cell {
	if player == PlayerBlack {
		return CellBlackTrail
	}
	return CellWhiteTrail
}
