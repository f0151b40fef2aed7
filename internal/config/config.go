// Package config resolves the host harness's runtime configuration: the
// episode seed/map identity, agent count, and tick budget a driver needs to
// call init_env/setup_env with. The simulation core itself (internal/sim)
// never reads the environment directly — init_env takes explicit
// parameters — this package exists only for cmd/arenabench and any other
// out-of-process driver, matching the teacher's single-source-of-truth
// configuration discipline (internal/config/config.go) adapted from stream
// encoder settings to simulation-harness settings.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// SimConfig holds the parameters a host harness needs to construct and run
// an environment: the episode's map/seed identity, its agent/drone count,
// and the tick budget described in spec.md §2/§4.6.
type SimConfig struct {
	Seed       int64
	MapIndex   int
	NumDrones  int
	NumAgents  int
	RoundSteps int // steps_left's starting value
	FrameSkip  int // physics steps executed per step_env call
	Discrete   bool
	Eval       bool
	Training   bool
}

// DefaultSim returns the default simulation configuration.
func DefaultSim() SimConfig {
	return SimConfig{
		Seed:       1,
		MapIndex:   0,
		NumDrones:  2,
		NumAgents:  2,
		RoundSteps: 1800, // original_source/src/settings.h's ROUND_STEPS=30 read as seconds at the 60Hz physics tick
		FrameSkip:  6,    // 60Hz physics tick / 10Hz TRAINING_ACTIONS_PER_SECOND
		Discrete:   false,
		Eval:       false,
		Training:   true,
	}
}

// LoadDotEnv loads a ".env" file if present, trying the working directory
// then its parent, matching the teacher's cmd/server fallback search. It is
// not an error for no file to exist — CI and container deployments supply
// configuration purely through the environment.
func LoadDotEnv() {
	if err := godotenv.Load(".env"); err != nil {
		_ = godotenv.Load("../.env")
	}
}

// SimFromEnv returns SimConfig with environment variable overrides, used by
// cmd/arenabench so a benchmark run can be reparameterized without a
// rebuild. Unset or unparsable variables fall back to the default.
func SimFromEnv() SimConfig {
	cfg := DefaultSim()

	if v := getEnvInt64("ARENA_SEED", 0); v != 0 {
		cfg.Seed = v
	}
	if v := getEnvInt("ARENA_MAP_INDEX", -1); v >= 0 {
		cfg.MapIndex = v
	}
	if v := getEnvInt("ARENA_NUM_DRONES", 0); v > 0 {
		cfg.NumDrones = v
	}
	if v := getEnvInt("ARENA_NUM_AGENTS", 0); v > 0 {
		cfg.NumAgents = v
	}
	if v := getEnvInt("ARENA_ROUND_STEPS", 0); v > 0 {
		cfg.RoundSteps = v
	}
	if v := getEnvInt("ARENA_FRAMESKIP", 0); v > 0 {
		cfg.FrameSkip = v
	}
	if os.Getenv("ARENA_DISCRETE") == "true" {
		cfg.Discrete = true
	}
	if os.Getenv("ARENA_EVAL") == "true" {
		cfg.Eval = true
	}
	if os.Getenv("ARENA_TRAINING") == "false" {
		cfg.Training = false
	}

	return cfg
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return defaultVal
}
