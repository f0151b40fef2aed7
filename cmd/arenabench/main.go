// Command arenabench is a minimal host harness exercising init_env/step_env/
// reset_env/destroy_env end to end, in the teacher's cmd/server wiring style
// (flag/env parsing -> construct -> run loop -> report) adapted from an HTTP
// server bootstrap to a benchmark driver. It is not the training loop or
// human-play client spec.md places out of scope; it just proves the
// simulation core runs standalone.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"dronearena/internal/config"
	"dronearena/internal/mathx"
	"dronearena/internal/sim"
	"dronearena/internal/simlog"
	"dronearena/internal/simmetrics"
)

func main() {
	var episodes int
	var metricsAddr string
	var verbose bool
	var csvPath string

	root := &cobra.Command{
		Use:   "arenabench",
		Short: "Runs drone-arena episodes against random actions and reports aggregate stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(episodes, metricsAddr, verbose, csvPath)
		},
	}
	root.Flags().IntVar(&episodes, "episodes", 10, "number of episodes to run")
	root.Flags().StringVar(&metricsAddr, "metrics-addr", "", "if set, serve Prometheus metrics on this loopback address (e.g. 127.0.0.1:9090)")
	root.Flags().BoolVar(&verbose, "verbose", false, "print a line per episode instead of just the summary")
	root.Flags().StringVar(&csvPath, "csv", "", "if set, write per-drone per-episode stats to this CSV file")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(episodes int, metricsAddr string, verbose bool, csvPath string) error {
	config.LoadDotEnv()
	cfg := config.SimFromEnv()

	if metricsAddr != "" {
		simmetrics.Serve(simmetrics.ServeConfig{Enabled: true, ListenAddr: metricsAddr})
	}

	bold := color.New(color.Bold)
	bold.Println("arenabench: drone-arena simulation harness")
	log.Printf("map_index=%d num_drones=%d num_agents=%d seed=%d round_steps=%d frame_skip=%d discrete=%v",
		cfg.MapIndex, cfg.NumDrones, cfg.NumAgents, cfg.Seed, cfg.RoundSteps, cfg.FrameSkip, cfg.Discrete)

	env := sim.NewEnv(sim.EnvParams{
		NumDrones:  cfg.NumDrones,
		NumAgents:  cfg.NumAgents,
		Seed:       cfg.Seed,
		MapIndex:   cfg.MapIndex,
		Discrete:   cfg.Discrete,
		RoundSteps: cfg.RoundSteps,
		FrameSkip:  cfg.FrameSkip,
	})
	defer env.DestroyEnv()

	actionRNG := mathx.NewRNG(cfg.Seed + 1) // a stream of its own, independent of the env's internal RNG
	start := time.Now()

	for ep := 0; ep < episodes; ep++ {
		epStart := time.Now()
		steps := 0
		for {
			stepRandomActions(env, actionRNG)
			steps++
			if env.NeedsReset {
				break
			}
		}
		if verbose {
			log.Printf("episode %d: %d agent-steps in %s", ep, steps, time.Since(epStart).Round(time.Millisecond))
		}
	}

	entries := env.Logs.AggregateAndClear()
	elapsed := time.Since(start)

	if csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := simlog.ExportCSV(entries, f); err != nil {
			return err
		}
	}

	green := color.New(color.FgGreen)
	green.Printf("ran %d episodes in %s (%d logged)\n", episodes, elapsed.Round(time.Millisecond), len(entries))
	for i, e := range entries {
		fmt.Printf("  [%d] episode=%s length=%d winner=%d reward=%v\n", i, e.EpisodeID, e.Length, e.Winner, e.Reward)
	}
	return nil
}

// stepRandomActions drives one step_env call with uniform random continuous
// actions, standing in for the trained policy a real host would supply.
func stepRandomActions(env *sim.Env, rng *mathx.RNG) {
	cont := make([]sim.ContinuousAction, env.NumAgents)
	for i := range cont {
		cont[i] = sim.ContinuousAction{
			rng.UniformRange(-1, 1), rng.UniformRange(-1, 1), // move
			rng.UniformRange(-1, 1), rng.UniformRange(-1, 1), // aim
			boolFloat(rng.Float64() < 0.3),
			boolFloat(rng.Float64() < 0.05),
			boolFloat(rng.Float64() < 0.02),
		}
	}
	env.StepEnv(cont, nil)
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
