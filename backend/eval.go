package main

import (
	"log"
	"math"
)

// EvalFunc scores a position from the point of view of the given player.
// Decisive terminals must map to +Inf (player has won) and -Inf (player
// has lost); everything else is a finite heuristic.
type EvalFunc func(state State, player PlayerColor) float64

// MobilityScore is the reference heuristic: own mobility minus twice the
// opponent's. Penalizing opponent mobility harder is deliberate, so the
// score is not symmetric between the two players.
func MobilityScore(state State, player PlayerColor) float64 {
	return WeightedMobilityScore(state, player, 1.0, 2.0)
}

func WeightedMobilityScore(state State, player PlayerColor, ownWeight, oppWeight float64) float64 {
	if state.IsLoser(player) {
		return math.Inf(-1)
	}
	if state.IsWinner(player) {
		return math.Inf(1)
	}
	own := float64(len(state.LegalMovesFor(player)))
	opp := float64(len(state.LegalMovesFor(otherPlayer(player))))
	return ownWeight*own - oppWeight*opp
}

// OpenMoveScore counts only the player's own mobility.
func OpenMoveScore(state State, player PlayerColor) float64 {
	if state.IsLoser(player) {
		return math.Inf(-1)
	}
	if state.IsWinner(player) {
		return math.Inf(1)
	}
	return float64(len(state.LegalMovesFor(player)))
}

// scoreForConfig resolves the evaluation function selected by config.
// Unavailable evaluators degrade to the reference heuristic so a bad
// script or missing weights never stop the game loop.
func scoreForConfig(config Config) EvalFunc {
	switch config.AiEval {
	case "open_moves":
		return OpenMoveScore
	case "lua":
		eval, err := NewLuaEvaluator(config.AiLuaScriptPath)
		if err != nil {
			log.Printf("[backend] lua evaluator unavailable, using mobility: %v", err)
			return MobilityScore
		}
		return eval.Score
	case "neural":
		eval, ok := sharedNeuralStore.Evaluator()
		if !ok {
			log.Printf("[backend] neural evaluator has no weights loaded, using mobility")
			return MobilityScore
		}
		return eval.Score
	default:
		weights := config.Heuristics
		return func(state State, player PlayerColor) float64 {
			return WeightedMobilityScore(state, player, weights.OwnMobility, weights.OppMobility)
		}
	}
}
