package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/drillboss/assets"
	"github.com/milk9111/drillboss/config"
	"github.com/milk9111/drillboss/ecs/system"
	"github.com/milk9111/drillboss/logging"
	"github.com/milk9111/drillboss/prefabs"
	"github.com/milk9111/drillboss/session"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		l := logging.New("info", os.Stderr, false)
		l.Fatal().Err(err).Msg("config")
	}

	debug := flag.Bool("debug", cfg.Debug, "show the encounter debug overlay")
	levelName := flag.String("level", cfg.Level, "level name in levels/ (basename, .json optional)")
	autopilot := flag.Bool("autopilot", cfg.Autopilot, "let the autopilot play")
	hotReload := flag.Bool("reload", cfg.HotReload, "reload prefabs/ on change")
	scale := flag.Int("scale", cfg.WindowScale, "window scale")
	seed := flag.Int64("seed", cfg.Seed, "random seed")
	logLevel := flag.String("log", cfg.LogLevel, "log level")
	flag.Parse()

	log := logging.New(*logLevel, os.Stderr, false)

	bank, err := assets.NewSoundBank(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("sound bank")
	}

	s, err := session.New(session.Options{
		Level:     *levelName,
		Seed:      *seed,
		Input:     keyboardInput,
		Autopilot: *autopilot,
		Sounds:    bank,
		Tracks:    bank.Track,
		Metrics:   system.NewEncounterMetrics(),
		Logger:    log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("load stage")
	}

	renderer, err := system.NewRenderSystem()
	if err != nil {
		log.Fatal().Err(err).Msg("renderer")
	}
	renderer.Debug = *debug

	var watcher *prefabs.Watcher
	if *hotReload {
		watcher, err = prefabs.NewWatcher("prefabs", filepath.Join("prefabs", "scripts"))
		if err != nil {
			log.Warn().Err(err).Msg("hot reload disabled")
		} else {
			defer watcher.Close()
		}
	}

	factor := max(*scale, 1)
	ebiten.SetWindowSize(s.Level.ScreenWidth*factor, s.Level.ScreenHeight*factor)
	ebiten.SetWindowTitle("drillboss - " + s.Level.Name)

	if err := ebiten.RunGame(NewGame(s, renderer, watcher, log)); err != nil {
		log.Fatal().Err(err).Msg("run")
	}
}
