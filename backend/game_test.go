package main

import "testing"

func TestTryApplyMoveRequiresRunningGame(t *testing.T) {
	game := NewGame(DefaultGameSettings())
	if ok, msg := game.TryApplyMove(Move{X: 3, Y: 3}); ok || msg != "game not running" {
		t.Fatalf("expected rejection before start, got ok=%v msg=%q", ok, msg)
	}
}

func TestTryApplyMoveRejectsIllegalMove(t *testing.T) {
	game := NewGame(DefaultGameSettings())
	game.Start()
	if ok, _ := game.TryApplyMove(Move{X: 9, Y: 9}); ok {
		t.Fatalf("out-of-bounds move accepted")
	}
	if game.State().LastMessage != "Illegal move" {
		t.Fatalf("expected illegal move message, got %q", game.State().LastMessage)
	}
	if game.History().Size() != 0 {
		t.Fatalf("rejected move must not enter the history")
	}
}

func TestTryApplyMoveRecordsHistory(t *testing.T) {
	game := NewGame(DefaultGameSettings())
	game.Start()
	if ok, msg := game.TryApplyMove(Move{X: 3, Y: 3}); !ok {
		t.Fatalf("placement rejected: %s", msg)
	}
	history := game.History()
	if history.Size() != 1 {
		t.Fatalf("expected one history entry, got %d", history.Size())
	}
	entry := history.All()[0]
	if entry.Player != PlayerBlack || entry.IsAi {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if !entry.Move.Equals(Move{X: 3, Y: 3}) {
		t.Fatalf("unexpected recorded move %+v", entry.Move)
	}
	if len(entry.Features) != neuralInputs {
		t.Fatalf("expected %d recorded features, got %d", neuralInputs, len(entry.Features))
	}
	if game.State().ToMove != PlayerWhite {
		t.Fatalf("turn did not pass to white")
	}
}

func TestTryApplyMoveDetectsWin(t *testing.T) {
	game := NewGame(DefaultGameSettings())
	state := placedState(7, 7, Move{X: 3, Y: 3}, Move{X: 0, Y: 0}, PlayerBlack)
	// White's only escape squares from the corner are (1,2) and (2,1);
	// one is already blocked and black's jump takes the other.
	state.Board.Set(1, 2, CellBlackTrail)
	game.state = state

	if ok, msg := game.TryApplyMove(Move{X: 2, Y: 1}); !ok {
		t.Fatalf("winning move rejected: %s", msg)
	}
	if game.State().Status != StatusBlackWon {
		t.Fatalf("expected black win, got status %d", game.State().Status)
	}
}

func TestGameTickAppliesPendingHumanMove(t *testing.T) {
	game := NewGame(DefaultGameSettings())
	game.Start()
	if game.Tick() {
		t.Fatalf("tick applied a move with nothing pending")
	}
	if !game.SubmitHumanMove(Move{X: 3, Y: 3}) {
		t.Fatalf("human move not accepted")
	}
	if !game.Tick() {
		t.Fatalf("tick did not apply the pending move")
	}
	if !game.State().BlackPos.Equals(Move{X: 3, Y: 3}) {
		t.Fatalf("black not placed, got %+v", game.State().BlackPos)
	}
}

func TestGameResetClearsHistoryAndState(t *testing.T) {
	game := NewGame(DefaultGameSettings())
	game.Start()
	game.TryApplyMove(Move{X: 3, Y: 3})
	game.Reset(DefaultGameSettings())
	if game.History().Size() != 0 {
		t.Fatalf("reset kept the history")
	}
	state := game.State()
	if state.Status != StatusNotStarted || state.MovesPlayed != 0 {
		t.Fatalf("reset kept game progress: %+v", state)
	}
	if !state.BlackPos.IsNone() || !state.WhitePos.IsNone() {
		t.Fatalf("reset kept player positions")
	}
}

func TestControllerRejectsHumanMoveOnAITurn(t *testing.T) {
	settings := DefaultGameSettings()
	settings.BlackType = PlayerAI
	controller := NewGameController(settings)
	controller.StartGame(settings)
	if ok, msg := controller.ApplyHumanMove(Move{X: 3, Y: 3}); ok || msg != "not human turn" {
		t.Fatalf("expected rejection on ai turn, got ok=%v msg=%q", ok, msg)
	}
}

func TestControllerApplyHumanMove(t *testing.T) {
	settings := DefaultGameSettings()
	controller := NewGameController(settings)
	controller.StartGame(settings)
	if ok, msg := controller.ApplyHumanMove(Move{X: 2, Y: 2}); !ok {
		t.Fatalf("human move rejected: %s", msg)
	}
	if entry, ok := controller.LatestHistoryEntry(); !ok || !entry.Move.Equals(Move{X: 2, Y: 2}) {
		t.Fatalf("history entry missing or wrong: %+v ok=%v", entry, ok)
	}
	if controller.State().MovesPlayed != 1 {
		t.Fatalf("expected one move played")
	}
}
