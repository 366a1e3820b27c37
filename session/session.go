// Package session builds a playable world from a level and runs its systems
// in tick order. The windowed game and the headless runner share it.
package session

import (
	"fmt"

	"github.com/milk9111/drillboss/ecs"
	"github.com/milk9111/drillboss/ecs/component"
	"github.com/milk9111/drillboss/ecs/entity"
	"github.com/milk9111/drillboss/ecs/system"
	"github.com/milk9111/drillboss/levels"
	"github.com/milk9111/drillboss/prefabs"
	"github.com/rs/zerolog"
)

type Options struct {
	Level string
	Seed  int64

	// Input samples the keyboard. Ignored when Autopilot is set.
	Input     system.InputSource
	Autopilot bool

	// Sounds defaults to a silent bank.
	Sounds entity.SoundBank
	Tracks system.TrackLoader

	Metrics *system.EncounterMetrics
	Logger  zerolog.Logger
}

type Session struct {
	World *ecs.World
	Level *levels.Level

	scheduler ecs.Scheduler
	encounter *system.EncounterSystem
	vehicle   *system.VehicleSystem
	explosion *system.ExplosionSystem
	player    *system.PlayerControllerSystem

	log  zerolog.Logger
	tick int
}

func New(opts Options) (*Session, error) {
	lvl, err := levels.LoadLevelFromFS(opts.Level)
	if err != nil {
		return nil, err
	}
	encSpec, err := prefabs.LoadEncounterSpec()
	if err != nil {
		return nil, fmt.Errorf("encounter tuning: %w", err)
	}
	playerSpec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return nil, fmt.Errorf("player tuning: %w", err)
	}

	sounds := opts.Sounds
	if sounds == nil {
		sounds = Silent{}
	}
	tracks := opts.Tracks
	if tracks == nil {
		tracks = sounds.Player
	}

	w := ecs.NewWorld()
	if err := entity.LoadLevelToWorld(w, lvl, entity.Deps{Encounter: encSpec, Player: playerSpec, Sounds: sounds}); err != nil {
		return nil, err
	}

	s := &Session{
		World:     w,
		Level:     lvl,
		encounter: system.NewEncounterSystem(encSpec, opts.Logger),
		vehicle:   system.NewVehicleSystem(&encSpec.Vehicle),
		explosion: system.NewExplosionSystem(&encSpec.Explosion, system.NewRandom(opts.Seed, "explosion")),
		player:    system.NewPlayerControllerSystem(playerSpec),
		log:       opts.Logger.With().Str("level", lvl.Name).Logger(),
	}
	s.encounter.SetMetrics(opts.Metrics)
	s.explosion.SetMetrics(opts.Metrics)

	if encSpec.Script != "" {
		script, err := system.LoadPhaseScript(encSpec.Script)
		if err != nil {
			s.log.Warn().Err(err).Msg("phase script disabled")
		} else {
			s.encounter.SetScript(script)
		}
	}

	var input ecs.System = system.NewInputSystem(opts.Input)
	if opts.Autopilot || opts.Input == nil {
		input = system.NewAutopilotSystem()
	}

	s.scheduler = ecs.NewScheduler(
		input,
		s.player,
		s.encounter,
		s.vehicle,
		s.explosion,
		system.NewCameraSystem(system.NewRandom(opts.Seed, "camera")),
		system.NewInvulnerableSystem(),
		system.NewTTLSystem(),
		system.NewAnimationSystem(),
		system.NewAudioSystem(),
		system.NewMusicSystem(tracks, opts.Logger),
		system.NewStageSystem(),
	)
	return s, nil
}

// Update advances the world by one tick.
func (s *Session) Update() {
	s.scheduler.Update(s.World)
	s.tick++
}

func (s *Session) Tick() int {
	return s.tick
}

// RunUntilDone advances at most ticks ticks, stopping once the encounter
// controller is gone. It returns the number of ticks run.
func (s *Session) RunUntilDone(ticks int) int {
	n := s.scheduler.Run(s.World, ticks, s.Done)
	s.tick += n
	return n
}

// Done reports whether the encounter controller has left the registry.
func (s *Session) Done() bool {
	_, ok := ecs.First(s.World, component.EncounterComponent.Kind())
	return !ok
}

// Reload applies edited tuning files and scripts. Changes that fail to load
// leave the running values in place.
func (s *Session) Reload(changes []prefabs.Change) error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	for _, c := range changes {
		switch c.Kind {
		case prefabs.ChangeSpec:
			enc, err := prefabs.LoadEncounterSpec()
			if err != nil {
				keep(fmt.Errorf("reload %s: %w", c.Path, err))
				continue
			}
			s.encounter.SetSpec(enc)
			s.vehicle.SetSpec(&enc.Vehicle)
			s.explosion.SetSpec(&enc.Explosion)

			player, err := prefabs.LoadPlayerSpec()
			if err != nil {
				keep(fmt.Errorf("reload %s: %w", c.Path, err))
				continue
			}
			s.player.SetSpec(player)
			s.log.Info().Str("path", c.Path).Msg("tuning reloaded")
		case prefabs.ChangeScript:
			enc, err := prefabs.LoadEncounterSpec()
			if err != nil {
				keep(err)
				continue
			}
			script, err := system.LoadPhaseScript(enc.Script)
			if err != nil {
				keep(fmt.Errorf("reload %s: %w", c.Path, err))
				continue
			}
			s.encounter.SetScript(script)
			s.log.Info().Str("path", c.Path).Msg("phase script reloaded")
		}
	}
	return firstErr
}
