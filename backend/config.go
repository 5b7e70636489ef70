package main

import (
	"sync"
	"time"
)

type Config struct {
	AiDepth          int             `json:"ai_depth"`
	AiMethod         string          `json:"ai_method"`
	AiIterative      bool            `json:"ai_iterative"`
	AiMaxDepth       int             `json:"ai_max_depth"`
	AiTimeBudgetMs   int             `json:"ai_time_budget_ms"`
	AiTimeoutMs      int             `json:"ai_timeout_ms"`
	AiOpeningCenter  bool            `json:"ai_opening_center"`
	AiEval           string          `json:"ai_eval"`
	AiLuaScriptPath  string          `json:"ai_lua_script_path"`
	AiLogSearchStats bool            `json:"ai_log_search_stats"`
	Heuristics       HeuristicConfig `json:"heuristics"`
}

type HeuristicConfig struct {
	OwnMobility float64 `json:"own_mobility"`
	OppMobility float64 `json:"opp_mobility"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		AiDepth:     3,
		AiMethod:    "alphabeta",
		AiIterative: true,
		AiMaxDepth:  25,

		// Per-move wall-clock budget; search aborts once the remaining
		// time drops below the threshold.
		AiTimeBudgetMs: 500,
		AiTimeoutMs:    10,

		AiOpeningCenter:  true,
		AiEval:           "mobility",
		AiLogSearchStats: false,

		Heuristics: HeuristicConfig{
			OwnMobility: 1.0,
			OppMobility: 2.0,
		},
	}
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
}

// agentConfigFromConfig translates the runtime config into an engine
// configuration. Invalid settings surface here, before any search runs.
func agentConfigFromConfig(config Config) (AgentConfig, error) {
	algorithm, err := ParseAlgorithm(config.AiMethod)
	if err != nil {
		return AgentConfig{}, err
	}
	return AgentConfig{
		Depth:            config.AiDepth,
		Algorithm:        algorithm,
		Iterative:        config.AiIterative,
		MaxDepth:         config.AiMaxDepth,
		TimeoutThreshold: time.Duration(config.AiTimeoutMs) * time.Millisecond,
		OpeningCenter:    config.AiOpeningCenter,
		Score:            scoreForConfig(config),
	}, nil
}
