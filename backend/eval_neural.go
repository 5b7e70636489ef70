package main

import (
	"fmt"
	"math"
	"sync"

	deep "github.com/patrikeh/go-deep"
)

// neuralInputs is the width of the feature vector fed to the learned
// evaluator and recorded per move for the trainer.
const neuralInputs = 5

// NetworkWeights is the wire format exchanged with the trainer over
// /api/eval/weights.
type NetworkWeights struct {
	Inputs  int           `json:"inputs"`
	Layout  []int         `json:"layout"`
	Weights [][][]float64 `json:"weights"`
}

// NeuralEvaluator scores positions with a small regression network over
// the same normalized features the move history records.
type NeuralEvaluator struct {
	mu      sync.RWMutex
	network *deep.Neural
	layout  []int
}

func newNeuralNetwork(layout []int) *deep.Neural {
	return deep.NewNeural(&deep.Config{
		Inputs:     neuralInputs,
		Layout:     layout,
		Activation: deep.ActivationReLU,
		Mode:       deep.ModeRegression,
		Weight:     deep.NewNormal(0.0, 0.1),
		Bias:       true,
	})
}

func NewNeuralEvaluator(weights NetworkWeights) (*NeuralEvaluator, error) {
	if weights.Inputs != neuralInputs {
		return nil, fmt.Errorf("expected %d inputs, got %d", neuralInputs, weights.Inputs)
	}
	if len(weights.Layout) == 0 || weights.Layout[len(weights.Layout)-1] != 1 {
		return nil, fmt.Errorf("network layout must end in a single output, got %v", weights.Layout)
	}
	network := newNeuralNetwork(weights.Layout)
	if weights.Weights != nil {
		network.ApplyWeights(weights.Weights)
	}
	return &NeuralEvaluator{network: network, layout: weights.Layout}, nil
}

func (e *NeuralEvaluator) Score(state State, player PlayerColor) float64 {
	if state.IsLoser(player) {
		return math.Inf(-1)
	}
	if state.IsWinner(player) {
		return math.Inf(1)
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.network.Predict(evalFeatures(state, player))[0]
}

func (e *NeuralEvaluator) Weights() NetworkWeights {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return NetworkWeights{
		Inputs:  neuralInputs,
		Layout:  append([]int(nil), e.layout...),
		Weights: e.network.Dump().Weights,
	}
}

// evalFeatures normalizes a position into the feature vector used by the
// learned evaluator, from the given player's point of view.
func evalFeatures(state State, player PlayerColor) []float64 {
	width, height := state.Dimensions()
	cells := float64(width * height)
	if cells == 0 {
		cells = 1
	}
	own := float64(len(state.LegalMovesFor(player)))
	opp := float64(len(state.LegalMovesFor(otherPlayer(player))))
	active := 0.0
	if state.ActivePlayer() == player {
		active = 1.0
	}
	return []float64{
		own / cells,
		opp / cells,
		(own - opp) / cells,
		float64(state.MoveCount()) / cells,
		active,
	}
}

type neuralStore struct {
	mu   sync.RWMutex
	eval *NeuralEvaluator
}

var sharedNeuralStore = &neuralStore{}

func (s *neuralStore) Evaluator() (*NeuralEvaluator, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eval, s.eval != nil
}

func (s *neuralStore) Load(weights NetworkWeights) error {
	eval, err := NewNeuralEvaluator(weights)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.eval = eval
	s.mu.Unlock()
	return nil
}
