package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	deep "github.com/patrikeh/go-deep"
	"github.com/patrikeh/go-deep/training"
)

// featureInputs must match the feature vector the backend records per
// history entry.
const featureInputs = 5

type trainer struct {
	client       *http.Client
	baseURL      string
	pollInterval time.Duration
	logger       *log.Logger

	games        int
	batchGames   int
	epochs       int
	learningRate float64
	layout       []int
	outPath      string

	network *deep.Neural
	data    training.Examples

	wins   [3]int
	played int
}

type statusResponse struct {
	Status  string         `json:"status"`
	Winner  int            `json:"winner"`
	History []historyEntry `json:"history"`
}

type historyEntry struct {
	Player   int       `json:"player"`
	IsAi     bool      `json:"is_ai"`
	Features []float64 `json:"features"`
}

type networkWeights struct {
	Inputs  int           `json:"inputs"`
	Layout  []int         `json:"layout"`
	Weights [][][]float64 `json:"weights"`
}

func main() {
	baseURL := flag.String("addr", "http://localhost:8080", "backend base URL")
	games := flag.Int("games", 200, "number of self-play games")
	batchGames := flag.Int("batch", 10, "games per training batch")
	epochs := flag.Int("epochs", 8, "training iterations per batch")
	learningRate := flag.Float64("lr", 0.01, "SGD learning rate")
	hidden := flag.String("hidden", "16,8", "hidden layer sizes, comma separated")
	poll := flag.Duration("poll", 250*time.Millisecond, "status poll interval")
	outPath := flag.String("out", "", "optional path to save the final weights JSON")
	flag.Parse()

	layout, err := parseLayout(*hidden)
	if err != nil {
		log.Fatalf("[trainer] invalid -hidden: %v", err)
	}

	t := &trainer{
		client:       &http.Client{Timeout: 10 * time.Second},
		baseURL:      strings.TrimRight(*baseURL, "/"),
		pollInterval: *poll,
		logger:       log.New(os.Stdout, "[trainer] ", log.LstdFlags),
		games:        *games,
		batchGames:   *batchGames,
		epochs:       *epochs,
		learningRate: *learningRate,
		layout:       layout,
		outPath:      *outPath,
		network: deep.NewNeural(&deep.Config{
			Inputs:     featureInputs,
			Layout:     layout,
			Activation: deep.ActivationReLU,
			Mode:       deep.ModeRegression,
			Weight:     deep.NewNormal(0.0, 0.1),
			Bias:       true,
		}),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := t.run(ctx); err != nil {
		t.logger.Fatalf("training aborted: %v", err)
	}
}

func (t *trainer) run(ctx context.Context) error {
	start := time.Now()
	t.logger.Printf("self-play against %s: %d games, batch=%d, lr=%g, layout=%v",
		t.baseURL, t.games, t.batchGames, t.learningRate, t.layout)

	for game := 1; game <= t.games; game++ {
		if ctx.Err() != nil {
			break
		}
		status, err := t.playGame(ctx)
		if err != nil {
			return err
		}
		t.collectExamples(status)
		t.played++
		t.wins[status.Winner]++

		if t.played%t.batchGames == 0 {
			if err := t.trainBatch(); err != nil {
				return err
			}
			t.logger.Printf("[%d/%d] black=%d white=%d | %.1f games/min",
				t.played, t.games, t.wins[1], t.wins[2],
				float64(t.played)/time.Since(start).Minutes())
		}
	}
	if len(t.data) > 0 {
		if err := t.trainBatch(); err != nil {
			return err
		}
	}
	if t.outPath != "" {
		if err := t.saveWeights(); err != nil {
			return err
		}
		t.logger.Printf("weights saved to %s", t.outPath)
	}
	t.logger.Printf("done: %d games in %s", t.played, time.Since(start).Round(time.Second))
	return nil
}

// playGame starts one ai-vs-ai game on the backend and polls until it
// reaches a result.
func (t *trainer) playGame(ctx context.Context) (statusResponse, error) {
	payload := map[string]any{
		"settings": map[string]any{"mode": "ai_vs_ai"},
	}
	if err := t.postJSON("/api/start", payload, nil); err != nil {
		return statusResponse{}, fmt.Errorf("start game: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return statusResponse{}, ctx.Err()
		case <-time.After(t.pollInterval):
		}
		var status statusResponse
		if err := t.getJSON("/api/status", &status); err != nil {
			return statusResponse{}, fmt.Errorf("poll status: %w", err)
		}
		if status.Status == "black_won" || status.Status == "white_won" {
			return status, nil
		}
	}
}

// collectExamples labels every recorded position with the final result
// from the mover's point of view.
func (t *trainer) collectExamples(status statusResponse) {
	for _, entry := range status.History {
		if len(entry.Features) != featureInputs {
			continue
		}
		reward := -1.0
		if entry.Player == status.Winner {
			reward = 1.0
		}
		t.data = append(t.data, training.Example{
			Input:    entry.Features,
			Response: []float64{reward},
		})
	}
}

func (t *trainer) trainBatch() error {
	if len(t.data) == 0 {
		return nil
	}
	t.data.Shuffle()
	sgd := training.NewSGD(t.learningRate, 0.5, 0.0, false)
	training.NewTrainer(sgd, 0).Train(t.network, t.data, nil, t.epochs)
	t.logger.Printf("trained on %d examples", len(t.data))
	t.data = nil
	return t.pushWeights()
}

func (t *trainer) pushWeights() error {
	weights := networkWeights{
		Inputs:  featureInputs,
		Layout:  t.layout,
		Weights: t.network.Dump().Weights,
	}
	if err := t.postJSON("/api/eval/weights", weights, nil); err != nil {
		return fmt.Errorf("push weights: %w", err)
	}
	return nil
}

func (t *trainer) saveWeights() error {
	weights := networkWeights{
		Inputs:  featureInputs,
		Layout:  t.layout,
		Weights: t.network.Dump().Weights,
	}
	data, err := json.MarshalIndent(weights, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(t.outPath, data, 0o644)
}

func (t *trainer) getJSON(path string, out any) error {
	resp, err := t.client.Get(t.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.New("unexpected status " + resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (t *trainer) postJSON(path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := t.client.Post(t.baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.New("unexpected status " + resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func parseLayout(hidden string) ([]int, error) {
	var layout []int
	for _, part := range strings.Split(hidden, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		size, err := strconv.Atoi(part)
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("bad layer size %q", part)
		}
		layout = append(layout, size)
	}
	if len(layout) == 0 {
		return nil, errors.New("no hidden layers")
	}
	// single regression output
	return append(layout, 1), nil
}
