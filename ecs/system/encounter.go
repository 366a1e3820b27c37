package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/drillboss/ecs"
	"github.com/milk9111/drillboss/ecs/component"
	"github.com/milk9111/drillboss/fixed"
	"github.com/milk9111/drillboss/prefabs"
	"github.com/rs/zerolog"
)

// Pilot and rotor animation names.
const (
	pilotIdle    = "idle"
	pilotLaugh   = "laugh"
	pilotHit     = "hit"
	pilotToasted = "toasted"

	rotorActive     = "active"
	rotorStop       = "stop"
	rotorRetracting = "retracting"
	rotorExtending  = "extending"
)

// EncounterSystem runs the boss controller: hit arbitration, the phase
// machine and the cascades into the vehicle assembly and world bounds.
type EncounterSystem struct {
	spec    *prefabs.EncounterSpec
	log     zerolog.Logger
	script  *PhaseScript
	metrics *EncounterMetrics
}

func NewEncounterSystem(spec *prefabs.EncounterSpec, logger zerolog.Logger) *EncounterSystem {
	return &EncounterSystem{
		spec: spec,
		log:  logger.With().Str("system", "encounter").Logger(),
	}
}

func (s *EncounterSystem) SetSpec(spec *prefabs.EncounterSpec) {
	if spec != nil {
		s.spec = spec
	}
}

func (s *EncounterSystem) SetScript(script *PhaseScript) {
	s.script = script
}

func (s *EncounterSystem) SetMetrics(m *EncounterMetrics) {
	s.metrics = m
}

// encounterTick is everything one controller update reads and writes.
type encounterTick struct {
	w      *ecs.World
	e      ecs.Entity
	enc    *component.Encounter
	tr     *component.Transform
	stage  *component.Stage
	bounds *component.WorldBounds
}

func (s *EncounterSystem) Update(w *ecs.World) {
	if w == nil || s.spec == nil {
		return
	}

	st := stageOf(w)
	bounds := worldBounds(w)
	ecs.ForEach2(w, component.EncounterComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, enc *component.Encounter, tr *component.Transform) {
		s.tick(&encounterTick{w: w, e: e, enc: enc, tr: tr, stage: st, bounds: bounds})
	})
}

func (s *EncounterSystem) tick(t *encounterTick) {
	enc := t.enc
	if enc.Health > 0 {
		if enc.InvincibilityTimer > 0 {
			enc.InvincibilityTimer--
			enc.Flash = enc.InvincibilityTimer&1 == 1
		}
		s.arbitrateHits(t)
	}

	s.updateReaction(enc)

	if !s.runPhase(t) {
		return
	}
	enc.Rotor.Advance()
	enc.Pilot.Advance()
}

// runPhase executes one tick of the current phase. It reports false once the
// controller has been destroyed.
func (s *EncounterSystem) runPhase(t *encounterTick) bool {
	enc, tr, spec := t.enc, t.tr, s.spec

	switch enc.Phase {
	case component.PhaseAwaitPlayer:
		if !s.onScreen(t) {
			return true
		}
		s.activate(t)
		s.setPhase(t, component.PhaseFlyIn)

	case component.PhaseFlyIn:
		s.playEngine(t)
		tr.Position = tr.Position.Add(spec.FlyInVelocity.Vector())
		enc.Timer++
		if enc.Timer == spec.Phases.FlyIn {
			enc.Rotor.Set(rotorStop)
			s.setPhase(t, component.PhaseEnterCar)
		}

	case component.PhaseEnterCar:
		s.setPhase(t, component.PhaseStartCar)

	case component.PhaseStartCar:
		enc.Timer++
		if enc.Timer == spec.Phases.StartCar {
			enc.Rotor.Set(rotorRetracting)
			enc.Health = spec.Health
			s.setPhase(t, component.PhaseInCar)
			StartDriving(t.w, spec.Vehicle.DriveVelocityX)
		}

	case component.PhaseInCar:

	case component.PhaseExplode:
		enc.Timer++
		if enc.Timer == spec.Phases.Explode {
			enc.Rotor.Set(rotorExtending)
			s.setPhase(t, component.PhaseExitCar)
			trackName := ""
			width := 0
			if t.stage != nil {
				trackName = t.stage.StageTrack
				width = t.stage.Width
			}
			s.requestMusic(t.w, trackName)
			ReleaseArena(t.bounds, 0, width)
		}

	case component.PhaseExitCar:
		enc.Exploding = false
		s.setPhase(t, component.PhaseFlee)

	case component.PhaseFlee:
		s.playEngine(t)
		tr.Position.Y += spec.FleeVelocityY
		if enc.Rotor.Current == rotorExtending && enc.Rotor.AtLastFrame() {
			enc.Rotor.Set(rotorActive)
		}
		enc.Timer++
		if enc.Timer == spec.Phases.Flee {
			enc.FacingFlipped = true
			s.setPhase(t, component.PhaseEscape)
		}

	case component.PhaseEscape:
		if s.onScreen(t) {
			s.playEngine(t)
		}
		tr.Position.X += spec.EscapeVelocityX
		if !s.onScreen(t) {
			removed := DestroyVehicles(t.w, t.e)
			ecs.DestroyEntity(t.w, t.e)
			s.log.Info().Int("members", removed).Msg("encounter left the arena")
			return false
		}
	}
	return true
}

// activate is the AwaitPlayer entry: lock the arena, switch music, build the
// drill car and move the controller to its fly-in start.
func (s *EncounterSystem) activate(t *encounterTick) {
	enc, tr := t.enc, t.tr
	enc.Spawn = tr.Position

	centerX := 0
	if t.stage != nil {
		centerX = t.stage.CenterX()
	}
	LockArena(t.bounds, 0, tr.Position, centerX)

	enc.Pilot.Set(pilotIdle)
	enc.Rotor.Set(rotorActive)
	s.requestMusic(t.w, s.spec.Music.BossTrack)

	cameraX := 0
	if cam := cameraFor(t.w, 0); cam != nil {
		cameraX = cam.X
	}
	asm, err := BuildVehicleAssembly(t.w, t.e, tr.Position, &s.spec.Vehicle, cameraX, centerX)
	if err != nil {
		panic("encounter system: " + err.Error())
	}
	s.log.Debug().
		Int("slot", t.e.Slot()).
		Int("chassis", asm.Chassis.Slot()).
		Int("weapon", asm.Weapon.Slot()).
		Msg("vehicle assembled")

	tr.Position = tr.Position.Add(s.spec.ApproachOffset.Vector())
}

func (s *EncounterSystem) setPhase(t *encounterTick, next component.EncounterPhase) {
	prev := t.enc.Phase
	t.enc.Phase = next
	t.enc.Timer = 0

	s.log.Info().
		Str("from", prev.String()).
		Str("to", next.String()).
		Int("health", t.enc.Health).
		Msg("encounter phase")
	s.metrics.transition(next.String())
	s.runScript(t, next)
}

func (s *EncounterSystem) runScript(t *encounterTick, phase component.EncounterPhase) {
	if s.script == nil {
		return
	}
	actions, err := s.script.Enter(phase.String(), map[string]interface{}{
		"health":          t.enc.Health,
		"explode_frames":  s.spec.Phases.Explode,
		"flee_frames":     s.spec.Phases.Flee,
		"player_defeated": t.enc.PlayerDefeated,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("phase", phase.String()).Msg("phase script failed")
		return
	}

	for _, a := range actions {
		if a.CameraShakeFrames > 0 {
			req := ecs.CreateEntity(t.w)
			_ = ecs.Add(t.w, req, component.CameraShakeRequestComponent.Kind(), &component.CameraShakeRequest{
				Frames:    a.CameraShakeFrames,
				Intensity: a.CameraShakeIntensity,
			})
		}
		if a.Sound != "" {
			s.playSound(t.w, t.e, a.Sound)
		}
		if a.Log != "" {
			s.log.Info().Str("phase", phase.String()).Msg(a.Log)
		}
	}
}

// arbitrateHits checks every player against the controller. At most one
// strike lands per tick since a strike either starts the invincibility
// window or empties health.
func (s *EncounterSystem) arbitrateHits(t *encounterTick) {
	enc := t.enc
	box := hitboxBB(t.tr.Position, component.Hitbox{
		Left:   s.spec.Hitbox.Left,
		Top:    s.spec.Hitbox.Top,
		Right:  s.spec.Hitbox.Right,
		Bottom: s.spec.Hitbox.Bottom,
	})

	ecs.ForEach2(t.w, component.PlayerComponent.Kind(), component.TransformComponent.Kind(), func(pe ecs.Entity, p *component.Player, ptr *component.Transform) {
		if enc.InvincibilityTimer != 0 || enc.Health == 0 {
			return
		}

		if anim, ok := ecs.Get(t.w, pe, component.AnimationComponent.Kind()); ok && playerIsDown(anim.Current) {
			if enc.Pilot.Current != pilotLaugh {
				enc.Pilot.Set(pilotLaugh)
			}
			if p.Index == 0 {
				enc.PlayerDefeated = true
			}
		}

		hb, ok := ecs.Get(t.w, pe, component.HitboxComponent.Kind())
		if !ok || !box.Intersects(hitboxBB(ptr.Position, *hb)) {
			return
		}
		if !s.checkBossHit(t, pe, p) {
			return
		}
		s.strike(t, p)
	})
}

// checkBossHit validates a strike. An attacking player bounces off; anyone
// else touching the controller gets hurt.
func (s *EncounterSystem) checkBossHit(t *encounterTick, pe ecs.Entity, p *component.Player) bool {
	if p.Attacking {
		if v, ok := ecs.Get(t.w, pe, component.VelocityComponent.Kind()); ok {
			v.X = -v.X
			v.Y = -v.Y
		}
		return true
	}

	if ecs.Has(t.w, pe, component.InvulnerableComponent.Kind()) || p.HurtFrames > 0 {
		return false
	}
	_ = ecs.Add(t.w, pe, component.DamageKnockbackRequestComponent.Kind(), &component.DamageKnockback{
		SourceX:      t.tr.Position.X,
		SourceEntity: uint64(t.e),
	})
	return false
}

func (s *EncounterSystem) strike(t *encounterTick, p *component.Player) {
	enc := t.enc
	enc.Health--
	s.metrics.hit()

	if enc.Health > 0 {
		enc.Pilot.Set(pilotHit)
		enc.InvincibilityTimer = s.spec.InvincibilityFrames
		s.playSound(t.w, t.e, s.spec.Sounds.Hit)
		s.log.Debug().Int("health", enc.Health).Int("player", p.Index).Msg("encounter hit")
		return
	}

	p.Score += s.spec.ScoreBonus
	enc.Pilot.Set(pilotToasted)
	enc.Exploding = true
	s.setPhase(t, component.PhaseExplode)
	DetonateVehicles(t.w, s.spec.Vehicle.DetonateVelocityY, s.spec.Vehicle.WeaponReleaseSpeed, enc.FacingFlipped)
	s.log.Info().Int("player", p.Index).Int("score", p.Score).Msg("encounter defeated")
}

// updateReaction returns the pilot to idle once a hit or laugh finishes, and
// forces the toasted face whenever health is gone so a reaction in progress
// at the moment of defeat cannot leave the pilot idle.
func (s *EncounterSystem) updateReaction(enc *component.Encounter) {
	if enc.Pilot.Current != pilotHit && enc.Pilot.Current != pilotLaugh {
		return
	}
	if enc.Pilot.AtLastFrame() {
		enc.Pilot.Set(pilotIdle)
	}
	if enc.Health == 0 {
		enc.Pilot.Set(pilotToasted)
	}
}

// playEngine plays the engine loop on the first tick of every cycle.
func (s *EncounterSystem) playEngine(t *encounterTick) {
	if t.enc.EngineSFXTimer == 0 {
		s.playSound(t.w, t.e, s.spec.Sounds.Engine)
	}
	cycle := s.spec.EngineSFXCycle
	if cycle <= 0 {
		cycle = 1
	}
	t.enc.EngineSFXTimer = (t.enc.EngineSFXTimer + 1) % cycle
}

func (s *EncounterSystem) playSound(w *ecs.World, e ecs.Entity, name string) {
	if name == "" {
		return
	}
	if a, ok := ecs.Get(w, e, component.AudioComponent.Kind()); ok {
		a.Request(name)
	}
}

func (s *EncounterSystem) requestMusic(w *ecs.World, track string) {
	if track == "" {
		return
	}
	RequestMusicWithOptions(w, &component.MusicRequest{
		Track:         track,
		Loop:          true,
		FadeOutFrames: fadeFrames(s.spec.Music.FadeSpeed),
	})
}

// onScreen reports whether the controller is inside player 0's view grown
// by the visible range. Without a camera everything counts as visible.
func (s *EncounterSystem) onScreen(t *encounterTick) bool {
	cam := cameraFor(t.w, 0)
	if cam == nil || t.stage == nil {
		return true
	}
	r := s.spec.VisibleRange
	view := cp.BB{
		L: float64(cam.X - r),
		B: float64(cam.Y - r),
		R: float64(cam.X + t.stage.ScreenWidth + r),
		T: float64(cam.Y + t.stage.ScreenHeight + r),
	}
	return view.ContainsVect(cp.Vector{X: t.tr.Position.X.Float(), Y: t.tr.Position.Y.Float()})
}

func playerIsDown(anim string) bool {
	return anim == component.PlayerAnimHurt || anim == component.PlayerAnimDie || anim == component.PlayerAnimDrown
}

// fadeFrames converts a per-tick fade speed into a fade length.
func fadeFrames(speed float64) int {
	if speed <= 0 {
		return 0
	}
	return int(math.Round(1 / speed))
}

// hitboxBB places a pixel hitbox at a fixed-point position. Y grows
// downward, so B holds the top edge.
func hitboxBB(pos fixed.Vector2, hb component.Hitbox) cp.BB {
	x, y := pos.X.Float(), pos.Y.Float()
	return cp.BB{L: x + float64(hb.Left), B: y + float64(hb.Top), R: x + float64(hb.Right), T: y + float64(hb.Bottom)}
}
