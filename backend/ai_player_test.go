package main

import (
	"testing"
	"time"
)

// withTestConfig swaps the shared config for the duration of a test.
func withTestConfig(t *testing.T, config Config) {
	t.Helper()
	previous := configStore.Get()
	configStore.Update(config)
	t.Cleanup(func() { configStore.Update(previous) })
}

func fastSearchConfig() Config {
	config := DefaultConfig()
	config.AiDepth = 2
	config.AiMaxDepth = 4
	config.AiTimeBudgetMs = 200
	config.AiOpeningCenter = false
	return config
}

func TestAIPlayerChooseMoveReturnsLegalMove(t *testing.T) {
	withTestConfig(t, fastSearchConfig())
	state := placedState(7, 7, Move{X: 2, Y: 2}, Move{X: 4, Y: 4}, PlayerBlack)
	ai := NewAIPlayer()
	move := ai.ChooseMove(state)
	if !state.IsLegal(move, PlayerBlack) {
		t.Fatalf("expected a legal move, got %+v", move)
	}
	if move.Depth == 0 {
		t.Fatalf("expected the completed depth to be attached to the move")
	}
}

func TestAIPlayerChooseMoveRejectsBadConfig(t *testing.T) {
	config := fastSearchConfig()
	config.AiMethod = "negamax"
	withTestConfig(t, config)
	ai := NewAIPlayer()
	if move := ai.ChooseMove(placedState(7, 7, Move{X: 2, Y: 2}, Move{X: 4, Y: 4}, PlayerBlack)); !move.Equals(NoMove) {
		t.Fatalf("expected NoMove with an invalid config, got %+v", move)
	}
}

func TestAIPlayerAsyncThinking(t *testing.T) {
	withTestConfig(t, fastSearchConfig())
	state := placedState(7, 7, Move{X: 2, Y: 2}, Move{X: 4, Y: 4}, PlayerBlack)
	ai := NewAIPlayer()
	ai.StartThinking(state)

	deadline := time.Now().Add(2 * time.Second)
	for !ai.HasMoveReady() {
		if time.Now().After(deadline) {
			t.Fatalf("no move ready within the deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
	move := ai.TakeMove()
	if !state.IsLegal(move, PlayerBlack) {
		t.Fatalf("expected a legal move, got %+v", move)
	}
	if ai.HasMoveReady() {
		t.Fatalf("taking the move must clear the ready flag")
	}
	if ai.IsThinking() {
		t.Fatalf("worker still marked as thinking")
	}
}

func TestAIPlayerStopThinkingDiscardsSearch(t *testing.T) {
	config := fastSearchConfig()
	config.AiDepth = 10
	config.AiMaxDepth = 30
	config.AiTimeBudgetMs = 10_000
	withTestConfig(t, config)

	state := placedState(7, 7, Move{X: 2, Y: 2}, Move{X: 4, Y: 4}, PlayerBlack)
	ai := NewAIPlayer()
	ai.StartThinking(state)
	ai.StopThinking()

	if ai.HasMoveReady() {
		t.Fatalf("cancelled search left a move behind")
	}
	if ai.IsThinking() {
		t.Fatalf("worker still marked as thinking after stop")
	}
}

func TestGameLoopPlaysAIMove(t *testing.T) {
	withTestConfig(t, fastSearchConfig())
	settings := DefaultGameSettings()
	settings.BlackType = PlayerAI
	settings.WhiteType = PlayerAI
	game := NewGame(settings)
	game.Start()

	deadline := time.Now().Add(3 * time.Second)
	for game.History().Size() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("ai did not move within the deadline")
		}
		game.Tick()
		time.Sleep(5 * time.Millisecond)
	}
	entry := game.History().All()[0]
	if !entry.IsAi {
		t.Fatalf("expected an ai move, got %+v", entry)
	}
	if game.State().MovesPlayed == 0 {
		t.Fatalf("move not applied to the state")
	}
}
