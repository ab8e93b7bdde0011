// Command microcosm runs the evolutionary simulation headless: it steps the
// world at a fixed dt, logs aggregate statistics, and writes CSV telemetry.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/microcosm/config"
	"github.com/pthm-cable/microcosm/sim"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	speed := flag.Float64("speed", 0, "Speed multiplier (0 = use config)")
	logStats := flag.Bool("log-stats", false, "Log window stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV telemetry and config snapshot")
	realtime := flag.Bool("realtime", false, "Pace ticks with the scheduler instead of stepping flat out")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	s, err := sim.New(cfg, sim.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
	})
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	if err := s.Initialize(); err != nil {
		slog.Error("failed to initialize simulation", "error", err)
		os.Exit(1)
	}

	speedMult := cfg.Simulation.Speed
	if *speed > 0 {
		speedMult = *speed
	}

	slog.Info("starting simulation",
		"seed", rngSeed,
		"population", cfg.Population.Initial,
		"world", [2]float64{cfg.World.Width, cfg.World.Height},
		"max_ticks", *maxTicks,
		"speed", speedMult,
		"realtime", *realtime,
	)

	if *realtime {
		runRealtime(s, speedMult, *maxTicks)
	} else {
		runFlatOut(s, cfg, *maxTicks)
	}

	final := s.Statistics()
	slog.Info("simulation finished",
		"ticks", s.Tick(),
		"sim_time", final.RunTime,
		"population", final.Population,
		"generation", final.Generation,
		"mean_energy", final.Averages.Energy,
		"mean_fitness", final.Averages.Fitness,
	)
}

// runRealtime drives the simulation through the scheduler at the configured
// tick rate until the tick cap or an interrupt.
func runRealtime(s *sim.Simulation, speed float64, maxTicks int64) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	s.Start(speed)
	defer s.Stop()

	poll := time.NewTicker(250 * time.Millisecond)
	defer poll.Stop()

	for {
		select {
		case <-sigs:
			slog.Info("interrupted")
			return
		case <-poll.C:
			if maxTicks > 0 && s.Tick() >= maxTicks {
				return
			}
		}
	}
}

// runFlatOut steps the simulation as fast as the CPU allows at a fixed dt.
func runFlatOut(s *sim.Simulation, cfg *config.Config, maxTicks int64) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	dt := cfg.Simulation.DT
	for maxTicks == 0 || s.Tick() < maxTicks {
		select {
		case <-sigs:
			slog.Info("interrupted")
			return
		default:
		}
		s.Step(dt)

		if cfg.Population.Min == 0 && s.Tick()%1000 == 0 {
			if s.Statistics().Population == 0 {
				slog.Info("population extinct", "tick", s.Tick())
				return
			}
		}
	}
}
