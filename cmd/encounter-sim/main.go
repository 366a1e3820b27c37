// Command encounter-sim runs the boss stage without a window. The autopilot
// plays player 0 until the encounter leaves or the tick limit is reached.
package main

import (
	"flag"
	"os"

	"github.com/milk9111/drillboss/config"
	"github.com/milk9111/drillboss/ecs/system"
	"github.com/milk9111/drillboss/logging"
	"github.com/milk9111/drillboss/session"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		l := logging.New("info", os.Stderr, false)
		l.Fatal().Err(err).Msg("config")
	}

	levelName := flag.String("level", cfg.Level, "level name in levels/")
	ticks := flag.Int("ticks", cfg.SimTicks, "maximum ticks to run")
	seed := flag.Int64("seed", cfg.Seed, "random seed")
	logLevel := flag.String("log", cfg.LogLevel, "log level")
	dump := flag.Bool("dump", false, "print the final state as yaml")
	flag.Parse()

	log := logging.New(*logLevel, os.Stderr, false)

	s, err := session.New(session.Options{
		Level:     *levelName,
		Seed:      *seed,
		Autopilot: true,
		Metrics:   system.NewEncounterMetrics(),
		Logger:    log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("load stage")
	}

	s.RunUntilDone(*ticks)

	snap := s.Snapshot()
	log.Info().
		Int("ticks", s.Tick()).
		Bool("escaped", s.Done()).
		Str("phase", snap.Phase).
		Int("health", snap.Health).
		Int("score", snap.Score).
		Msg("encounter finished")

	if *dump {
		out, err := snap.YAML()
		if err != nil {
			log.Fatal().Err(err).Msg("encode snapshot")
		}
		os.Stdout.Write(out)
	}
	if !s.Done() {
		os.Exit(1)
	}
}
