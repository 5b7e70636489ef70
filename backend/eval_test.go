package main

import (
	"math"
	"testing"
)

// symmetricState gives both players eight open jumps.
func symmetricState() GameState {
	return placedState(7, 7, Move{X: 2, Y: 2}, Move{X: 4, Y: 4}, PlayerBlack)
}

func TestMobilityScoreTerminalSentinels(t *testing.T) {
	state := blockedState()
	if score := MobilityScore(state, PlayerBlack); !math.IsInf(score, -1) {
		t.Fatalf("expected -Inf for the losing player, got %v", score)
	}
	if score := MobilityScore(state, PlayerWhite); !math.IsInf(score, 1) {
		t.Fatalf("expected +Inf for the winning player, got %v", score)
	}
}

func TestMobilityScoreReferenceValue(t *testing.T) {
	state := symmetricState()
	// Both players have 8 jumps: 1*8 - 2*8.
	if score := MobilityScore(state, PlayerBlack); score != -8 {
		t.Fatalf("expected -8, got %v", score)
	}
}

func TestMobilityScoreIsNotSymmetric(t *testing.T) {
	state := symmetricState()
	black := MobilityScore(state, PlayerBlack)
	white := MobilityScore(state, PlayerWhite)
	// The heavier opponent weight makes both sides score -8 here; the
	// function is not a zero-sum evaluation.
	if black == -white {
		t.Fatalf("expected asymmetric scores, got black=%v white=%v", black, white)
	}
}

func TestWeightedMobilityScore(t *testing.T) {
	state := symmetricState()
	if score := WeightedMobilityScore(state, PlayerBlack, 2.0, 1.0); score != 8 {
		t.Fatalf("expected 2*8 - 1*8 = 8, got %v", score)
	}
	if score := WeightedMobilityScore(state, PlayerBlack, 1.0, 1.0); score != 0 {
		t.Fatalf("expected balanced weights to cancel, got %v", score)
	}
}

func TestOpenMoveScore(t *testing.T) {
	if score := OpenMoveScore(symmetricState(), PlayerBlack); score != 8 {
		t.Fatalf("expected 8 open moves, got %v", score)
	}
	if score := OpenMoveScore(threeMoveState(), PlayerBlack); score != 3 {
		t.Fatalf("expected 3 open moves, got %v", score)
	}
	if score := OpenMoveScore(blockedState(), PlayerBlack); !math.IsInf(score, -1) {
		t.Fatalf("expected -Inf for the losing player, got %v", score)
	}
}
