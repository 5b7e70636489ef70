package main

import (
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// AIPlayer wraps the search engine for the game loop: moves are computed
// on a worker goroutine so Tick never blocks, and StopThinking cancels
// an in-flight search through its time oracle.
type AIPlayer struct {
	moveMutex  sync.Mutex
	workerDone chan struct{}
	thinking   atomic.Bool
	moveReady  atomic.Bool
	stopSignal atomic.Bool
	readyMove  Move
}

func NewAIPlayer() *AIPlayer {
	return &AIPlayer{}
}

func (a *AIPlayer) IsHuman() bool {
	return false
}

// ChooseMove runs a full search synchronously under the configured time
// budget.
func (a *AIPlayer) ChooseMove(state GameState) Move {
	config := GetConfig()
	stats := &SearchStats{Start: time.Now()}
	move := a.searchMove(state, config, stats)
	if config.AiLogSearchStats {
		logSearchStats("choose", stats, config)
	}
	return move
}

func (a *AIPlayer) StartThinking(state GameState) {
	if a.thinking.Load() {
		return
	}
	if a.workerDone != nil {
		<-a.workerDone
	}
	a.thinking.Store(true)
	a.moveReady.Store(false)
	a.stopSignal.Store(false)

	stateCopy := state.Clone()
	done := make(chan struct{})
	a.workerDone = done
	config := GetConfig()
	go func() {
		defer close(done)
		stats := &SearchStats{Start: time.Now()}
		move := a.searchMove(stateCopy, config, stats)
		if a.stopSignal.Load() {
			a.moveReady.Store(false)
			a.thinking.Store(false)
			return
		}
		if config.AiLogSearchStats {
			logSearchStats("think", stats, config)
		}
		a.moveMutex.Lock()
		a.readyMove = move
		a.moveMutex.Unlock()
		a.moveReady.Store(true)
		a.thinking.Store(false)
	}()
}

func (a *AIPlayer) searchMove(state GameState, config Config, stats *SearchStats) Move {
	agentConfig, err := agentConfigFromConfig(config)
	if err != nil {
		log.Printf("[backend] invalid ai config: %v", err)
		return NoMove
	}
	agent, err := NewAgent(agentConfig)
	if err != nil {
		log.Printf("[backend] invalid ai config: %v", err)
		return NoMove
	}
	deadline := time.Now().Add(time.Duration(config.AiTimeBudgetMs) * time.Millisecond)
	timeLeft := func() time.Duration {
		if a.stopSignal.Load() {
			return -time.Second
		}
		return time.Until(deadline)
	}
	move := agent.SelectMoveWithStats(state, timeLeft, stats)
	move.Depth = stats.CompletedDepth
	return move
}

func (a *AIPlayer) IsThinking() bool {
	return a.thinking.Load()
}

func (a *AIPlayer) HasMoveReady() bool {
	return a.moveReady.Load()
}

func (a *AIPlayer) TakeMove() Move {
	a.moveMutex.Lock()
	defer a.moveMutex.Unlock()
	a.moveReady.Store(false)
	return a.readyMove
}

func (a *AIPlayer) StopThinking() {
	a.stopSignal.Store(true)
	if a.workerDone != nil {
		<-a.workerDone
		a.workerDone = nil
	}
	a.moveReady.Store(false)
	a.stopSignal.Store(false)
}

func logSearchStats(tag string, stats *SearchStats, config Config) {
	if stats == nil {
		return
	}
	elapsed := time.Since(stats.Start)
	nps := 0.0
	if elapsed > 0 {
		nps = float64(stats.Nodes) / elapsed.Seconds()
	}
	log.Printf("[ai:%s] t=%dms method=%s depth=%d completed=%d nodes=%d cutoffs=%d nps=%.0f",
		tag,
		elapsed.Milliseconds(),
		config.AiMethod,
		config.AiDepth,
		stats.CompletedDepth,
		stats.Nodes,
		stats.Cutoffs,
		nps,
	)
}
