package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeLuaScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "score.lua")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestLuaEvaluatorScoresPosition(t *testing.T) {
	path := writeLuaScript(t, `function score(s) return s.own_moves - s.opp_moves end`)
	eval, err := NewLuaEvaluator(path)
	if err != nil {
		t.Fatalf("NewLuaEvaluator: %v", err)
	}
	defer eval.Close()

	// Black has 3 jumps, white has 2.
	if got := eval.Score(threeMoveState(), PlayerBlack); got != 1 {
		t.Fatalf("expected 3-2=1, got %v", got)
	}
	if got := eval.Score(threeMoveState(), PlayerWhite); got != -1 {
		t.Fatalf("expected 2-3=-1, got %v", got)
	}
}

func TestLuaEvaluatorSeesPositionFields(t *testing.T) {
	path := writeLuaScript(t, `function score(s) return s.width * 1000 + s.height * 100 + s.move_count end`)
	eval, err := NewLuaEvaluator(path)
	if err != nil {
		t.Fatalf("NewLuaEvaluator: %v", err)
	}
	defer eval.Close()

	if got := eval.Score(symmetricState(), PlayerBlack); got != 7702 {
		t.Fatalf("expected 7702, got %v", got)
	}
}

func TestLuaEvaluatorAppliesTerminalSentinels(t *testing.T) {
	path := writeLuaScript(t, `function score(s) return 42 end`)
	eval, err := NewLuaEvaluator(path)
	if err != nil {
		t.Fatalf("NewLuaEvaluator: %v", err)
	}
	defer eval.Close()

	if got := eval.Score(blockedState(), PlayerBlack); !math.IsInf(got, -1) {
		t.Fatalf("expected -Inf for the losing player, got %v", got)
	}
	if got := eval.Score(blockedState(), PlayerWhite); !math.IsInf(got, 1) {
		t.Fatalf("expected +Inf for the winning player, got %v", got)
	}
}

func TestLuaEvaluatorRejectsBadScripts(t *testing.T) {
	if _, err := NewLuaEvaluator(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := NewLuaEvaluator(filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	path := writeLuaScript(t, `x = 1`)
	if _, err := NewLuaEvaluator(path); err == nil {
		t.Fatalf("expected error for a script without a score function")
	}
}

func TestLuaEvaluatorDrivesSearch(t *testing.T) {
	path := writeLuaScript(t, `function score(s) return s.own_moves - 2 * s.opp_moves end`)
	eval, err := NewLuaEvaluator(path)
	if err != nil {
		t.Fatalf("NewLuaEvaluator: %v", err)
	}
	defer eval.Close()

	state := symmetricState()
	agent := newTestAgent(t, AgentConfig{Depth: 2, Algorithm: AlgorithmAlphaBeta, Score: eval.Score})
	move := agent.SelectMove(state, nil)
	if !state.IsLegal(move, PlayerBlack) {
		t.Fatalf("expected a legal move, got %+v", move)
	}
}
