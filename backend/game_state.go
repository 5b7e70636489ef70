package main

type PlayerColor int

type GameStatus int

const (
	PlayerBlack PlayerColor = iota
	PlayerWhite
)

const (
	StatusNotStarted GameStatus = iota
	StatusRunning
	StatusBlackWon
	StatusWhiteWon
)

// knightOffsets enumerates the L-shaped jumps available to a placed
// player, in the fixed order legal moves are generated.
var knightOffsets = [8][2]int{
	{-2, -1}, {-2, 1},
	{-1, -2}, {-1, 2},
	{1, -2}, {1, 2},
	{2, -1}, {2, 1},
}

// GameState is one isolation position. Each player occupies at most one
// cell; every cell a player has visited stays blocked. A player still
// off the board may claim any blank cell; afterwards only knight jumps
// to blank cells are legal. The player to move with no legal move loses.
type GameState struct {
	Board       Board
	BlackPos    Move
	WhitePos    Move
	ToMove      PlayerColor
	Status      GameStatus
	MovesPlayed int
	HasLastMove bool
	LastMove    Move
	LastMessage string
}

func DefaultGameState(settings GameSettings) GameState {
	state := GameState{}
	state.Reset(settings)
	return state
}

func (s *GameState) Reset(settings GameSettings) {
	s.Board = NewBoard(settings.BoardWidth, settings.BoardHeight)
	s.BlackPos = NoMove
	s.WhitePos = NoMove
	if settings.BlackStarts {
		s.ToMove = PlayerBlack
	} else {
		s.ToMove = PlayerWhite
	}
	s.Status = StatusNotStarted
	s.MovesPlayed = 0
	s.HasLastMove = false
	s.LastMove = NoMove
	s.LastMessage = ""
}

func (s GameState) Clone() GameState {
	clone := s
	clone.Board = s.Board.Clone()
	return clone
}

func otherPlayer(player PlayerColor) PlayerColor {
	if player == PlayerBlack {
		return PlayerWhite
	}
	return PlayerBlack
}

func (s GameState) ActivePlayer() PlayerColor {
	return s.ToMove
}

func (s GameState) InactivePlayer() PlayerColor {
	return otherPlayer(s.ToMove)
}

func (s GameState) MoveCount() int {
	return s.MovesPlayed
}

func (s GameState) Dimensions() (int, int) {
	return s.Board.Width(), s.Board.Height()
}

func (s GameState) PositionOf(player PlayerColor) Move {
	if player == PlayerBlack {
		return s.BlackPos
	}
	return s.WhitePos
}

// LegalMoves enumerates the moves available to the player to move.
func (s GameState) LegalMoves() []Move {
	return s.LegalMovesFor(s.ToMove)
}

func (s GameState) LegalMovesFor(player PlayerColor) []Move {
	position := s.PositionOf(player)
	if position.IsNone() {
		moves := make([]Move, 0, s.Board.CountBlank())
		for y := 0; y < s.Board.Height(); y++ {
			for x := 0; x < s.Board.Width(); x++ {
				if s.Board.IsBlank(x, y) {
					moves = append(moves, Move{X: x, Y: y})
				}
			}
		}
		return moves
	}
	moves := make([]Move, 0, len(knightOffsets))
	for _, offset := range knightOffsets {
		x, y := position.X+offset[0], position.Y+offset[1]
		if s.Board.IsBlank(x, y) {
			moves = append(moves, Move{X: x, Y: y})
		}
	}
	return moves
}

func (s GameState) IsLegal(move Move, player PlayerColor) bool {
	if player != s.ToMove || !move.InBounds(s.Board.Width(), s.Board.Height()) {
		return false
	}
	for _, candidate := range s.LegalMovesFor(player) {
		if candidate.Equals(move) {
			return true
		}
	}
	return false
}

// IsLoser reports whether the given player is to move and has nowhere
// left to go.
func (s GameState) IsLoser(player PlayerColor) bool {
	return player == s.ToMove && len(s.LegalMovesFor(player)) == 0
}

func (s GameState) IsWinner(player PlayerColor) bool {
	return s.IsLoser(otherPlayer(player))
}

// Forecast returns the position after the player to move plays the given
// move. The receiver is never mutated.
func (s GameState) Forecast(move Move) State {
	next := s.Clone()
	next.apply(move)
	return next
}

func (s *GameState) apply(move Move) {
	s.Board.Set(move.X, move.Y, TrailFromPlayer(s.ToMove))
	if s.ToMove == PlayerBlack {
		s.BlackPos = move
	} else {
		s.WhitePos = move
	}
	s.LastMove = move
	s.HasLastMove = true
	s.MovesPlayed++
	s.ToMove = otherPlayer(s.ToMove)
}
