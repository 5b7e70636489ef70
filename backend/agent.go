package main

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// State is the narrow contract the search engine needs from a game
// position. Implementations must treat positions as immutable: Forecast
// returns a new state and never mutates the receiver.
type State interface {
	LegalMoves() []Move
	LegalMovesFor(player PlayerColor) []Move
	Forecast(move Move) State
	ActivePlayer() PlayerColor
	InactivePlayer() PlayerColor
	IsWinner(player PlayerColor) bool
	IsLoser(player PlayerColor) bool
	MoveCount() int
	Dimensions() (width, height int)
}

type Algorithm int

const (
	AlgorithmMinimax Algorithm = iota
	AlgorithmAlphaBeta
)

func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "minimax":
		return AlgorithmMinimax, nil
	case "alphabeta":
		return AlgorithmAlphaBeta, nil
	}
	return AlgorithmMinimax, fmt.Errorf("unknown search algorithm %q", name)
}

func (a Algorithm) String() string {
	if a == AlgorithmAlphaBeta {
		return "alphabeta"
	}
	return "minimax"
}

// ErrSearchTimeout unwinds an in-flight search once the remaining time
// drops below the configured threshold. It never escapes SelectMove.
var ErrSearchTimeout = errors.New("search timeout")

// SearchResult pairs the utility computed for a position with the root
// move that produced it. Move is NoMove for leaf evaluations and for
// roots without a legal move.
type SearchResult struct {
	Utility float64
	Move    Move
}

type AgentConfig struct {
	Depth            int
	Algorithm        Algorithm
	Iterative        bool
	MaxDepth         int // deepening cap, <= 0 means unbounded
	TimeoutThreshold time.Duration
	OpeningCenter    bool
	Score            EvalFunc
}

// Agent selects moves by bounded adversarial search. It keeps no state
// between calls besides its configuration.
type Agent struct {
	config AgentConfig
}

func NewAgent(config AgentConfig) (*Agent, error) {
	if config.Depth <= 0 {
		return nil, fmt.Errorf("search depth must be positive, got %d", config.Depth)
	}
	if config.Algorithm != AlgorithmMinimax && config.Algorithm != AlgorithmAlphaBeta {
		return nil, fmt.Errorf("unknown search algorithm %d", int(config.Algorithm))
	}
	if config.TimeoutThreshold < 0 {
		return nil, fmt.Errorf("timeout threshold must not be negative, got %s", config.TimeoutThreshold)
	}
	if config.Score == nil {
		config.Score = MobilityScore
	}
	return &Agent{config: config}, nil
}

// SelectMove returns a legal move for the player to move, or NoMove when
// the position has none. timeLeft is polled during search; once the
// remaining time drops below the configured threshold the current depth
// is abandoned and the best move from the last fully completed depth is
// returned. A nil timeLeft means an unlimited budget.
func (a *Agent) SelectMove(state State, timeLeft func() time.Duration) Move {
	return a.SelectMoveWithStats(state, timeLeft, nil)
}

func (a *Agent) SelectMoveWithStats(state State, timeLeft func() time.Duration, stats *SearchStats) Move {
	if len(state.LegalMoves()) == 0 {
		return NoMove
	}
	if a.config.OpeningCenter && state.MoveCount() == 0 {
		width, height := state.Dimensions()
		return Move{X: width / 2, Y: height / 2}
	}
	search := a.minimax
	if a.config.Algorithm == AlgorithmAlphaBeta {
		search = a.alphabeta
	}
	ctx := &searchContext{
		timeLeft:  timeLeft,
		threshold: a.config.TimeoutThreshold,
		score:     a.config.Score,
		stats:     stats,
	}
	if !a.config.Iterative {
		result, err := search(ctx, state, a.config.Depth)
		if err != nil {
			// Out of time before the fixed depth completed; there is no
			// earlier depth to fall back on.
			return NoMove
		}
		if stats != nil && !result.Move.IsNone() {
			stats.CompletedDepth = a.config.Depth
		}
		return result.Move
	}
	best := NoMove
	for depth := 1; a.config.MaxDepth <= 0 || depth <= a.config.MaxDepth; depth++ {
		result, err := search(ctx, state, depth)
		if err != nil {
			break
		}
		if !result.Move.IsNone() {
			best = result.Move
			if stats != nil {
				stats.CompletedDepth = depth
			}
		}
		if ctx.expired() {
			break
		}
	}
	return best
}

type searchContext struct {
	timeLeft  func() time.Duration
	threshold time.Duration
	score     EvalFunc
	stats     *SearchStats
}

func (c *searchContext) expired() bool {
	return c.timeLeft != nil && c.timeLeft() < c.threshold
}

func (c *searchContext) checkTimeout() error {
	if c.expired() {
		return ErrSearchTimeout
	}
	return nil
}

func (c *searchContext) countNode() {
	if c.stats != nil {
		c.stats.Nodes++
	}
}

func (c *searchContext) countCutoff() {
	if c.stats != nil {
		c.stats.Cutoffs++
	}
}

// minimax explores the full tree to the given depth. Ties at the root
// keep the earliest maximal move; a timeout discards the whole depth.
func (a *Agent) minimax(ctx *searchContext, state State, depth int) (SearchResult, error) {
	best := SearchResult{Move: NoMove}
	found := false
	for _, move := range state.LegalMoves() {
		utility, err := a.minValue(ctx, state.Forecast(move), depth-1)
		if err != nil {
			return SearchResult{Move: NoMove}, err
		}
		if !found || utility > best.Utility {
			best = SearchResult{Utility: utility, Move: move}
			found = true
		}
	}
	return best, nil
}

func (a *Agent) maxValue(ctx *searchContext, state State, depth int) (float64, error) {
	if err := ctx.checkTimeout(); err != nil {
		return 0, err
	}
	ctx.countNode()
	if depth <= 0 {
		return ctx.score(state, state.ActivePlayer()), nil
	}
	utility := math.Inf(-1)
	for _, move := range state.LegalMoves() {
		value, err := a.minValue(ctx, state.Forecast(move), depth-1)
		if err != nil {
			return 0, err
		}
		utility = math.Max(utility, value)
	}
	return utility, nil
}

func (a *Agent) minValue(ctx *searchContext, state State, depth int) (float64, error) {
	if err := ctx.checkTimeout(); err != nil {
		return 0, err
	}
	ctx.countNode()
	if depth <= 0 {
		// Min nodes evaluate for the player who moved one ply up.
		return ctx.score(state, state.InactivePlayer()), nil
	}
	utility := math.Inf(1)
	for _, move := range state.LegalMoves() {
		value, err := a.maxValue(ctx, state.Forecast(move), depth-1)
		if err != nil {
			return 0, err
		}
		utility = math.Min(utility, value)
	}
	return utility, nil
}

// alphabeta returns the same root utility as minimax while skipping
// subtrees that cannot change the decision. The chosen move is threaded
// up through the recursion rather than recovered by re-scoring.
func (a *Agent) alphabeta(ctx *searchContext, state State, depth int) (SearchResult, error) {
	if err := ctx.checkTimeout(); err != nil {
		return SearchResult{Move: NoMove}, err
	}
	if len(state.LegalMoves()) == 0 {
		return SearchResult{Utility: 0, Move: NoMove}, nil
	}
	return a.alphaBetaMax(ctx, state, depth, math.Inf(-1), math.Inf(1))
}

func (a *Agent) alphaBetaMax(ctx *searchContext, state State, depth int, alpha, beta float64) (SearchResult, error) {
	if err := ctx.checkTimeout(); err != nil {
		return SearchResult{}, err
	}
	ctx.countNode()
	if depth <= 0 {
		return SearchResult{Utility: ctx.score(state, state.ActivePlayer()), Move: NoMove}, nil
	}
	best := SearchResult{Utility: math.Inf(-1), Move: NoMove}
	found := false
	for _, move := range state.LegalMoves() {
		child, err := a.alphaBetaMin(ctx, state.Forecast(move), depth-1, alpha, beta)
		if err != nil {
			return SearchResult{}, err
		}
		if !found || child.Utility > best.Utility {
			best = SearchResult{Utility: child.Utility, Move: move}
			found = true
		}
		if best.Utility >= beta {
			ctx.countCutoff()
			return best, nil
		}
		if best.Utility > alpha {
			alpha = best.Utility
		}
	}
	return best, nil
}

func (a *Agent) alphaBetaMin(ctx *searchContext, state State, depth int, alpha, beta float64) (SearchResult, error) {
	if err := ctx.checkTimeout(); err != nil {
		return SearchResult{}, err
	}
	ctx.countNode()
	if depth <= 0 {
		return SearchResult{Utility: ctx.score(state, state.InactivePlayer()), Move: NoMove}, nil
	}
	best := SearchResult{Utility: math.Inf(1), Move: NoMove}
	found := false
	for _, move := range state.LegalMoves() {
		child, err := a.alphaBetaMax(ctx, state.Forecast(move), depth-1, alpha, beta)
		if err != nil {
			return SearchResult{}, err
		}
		if !found || child.Utility < best.Utility {
			best = SearchResult{Utility: child.Utility, Move: move}
			found = true
		}
		if best.Utility <= alpha {
			ctx.countCutoff()
			return best, nil
		}
		if best.Utility < beta {
			beta = best.Utility
		}
	}
	return best, nil
}

type SearchStats struct {
	Start          time.Time
	Nodes          int64
	Cutoffs        int64
	CompletedDepth int
}
