package main

import (
	"errors"
	"fmt"
	"math"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// LuaEvaluator scores positions with a user-supplied script. The script
// must define a global `score(s)` function taking a table with the
// fields own_moves, opp_moves, move_count, blanks, width and height and
// returning a number. Win/loss sentinels are applied host-side, so
// scripts only ever see non-terminal positions.
type LuaEvaluator struct {
	mu    sync.Mutex
	state *lua.LState
}

func NewLuaEvaluator(path string) (*LuaEvaluator, error) {
	if path == "" {
		return nil, errors.New("lua script path not set")
	}
	L := lua.NewState()
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("load lua script: %w", err)
	}
	if L.GetGlobal("score").Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("lua script %s does not define a score function", path)
	}
	return &LuaEvaluator{state: L}, nil
}

func (e *LuaEvaluator) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Close()
}

func (e *LuaEvaluator) Score(state State, player PlayerColor) float64 {
	if state.IsLoser(player) {
		return math.Inf(-1)
	}
	if state.IsWinner(player) {
		return math.Inf(1)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	width, height := state.Dimensions()
	position := e.state.NewTable()
	position.RawSetString("own_moves", lua.LNumber(len(state.LegalMovesFor(player))))
	position.RawSetString("opp_moves", lua.LNumber(len(state.LegalMovesFor(otherPlayer(player)))))
	position.RawSetString("move_count", lua.LNumber(state.MoveCount()))
	position.RawSetString("blanks", lua.LNumber(width*height-state.MoveCount()))
	position.RawSetString("width", lua.LNumber(width))
	position.RawSetString("height", lua.LNumber(height))

	err := e.state.CallByParam(lua.P{
		Fn:      e.state.GetGlobal("score"),
		NRet:    1,
		Protect: true,
	}, position)
	if err != nil {
		return 0
	}
	value := e.state.Get(-1)
	e.state.Pop(1)
	if number, ok := value.(lua.LNumber); ok {
		return float64(number)
	}
	return 0
}
