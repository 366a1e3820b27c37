package system

import (
	"strings"
	"testing"

	"github.com/milk9111/drillboss/ecs"
	"github.com/milk9111/drillboss/ecs/component"
	"github.com/milk9111/drillboss/ecs/entity"
	"github.com/milk9111/drillboss/fixed"
	"github.com/milk9111/drillboss/prefabs"
	"github.com/rs/zerolog"
)

func TestEncounterActivation(t *testing.T) {
	f := newEncounterFixture(t, 3)
	f.step(1)

	enc := f.enc()
	if enc.Phase != component.PhaseFlyIn || enc.Timer != 0 {
		t.Fatalf("expected fly_in with timer 0, got %s/%d", enc.Phase, enc.Timer)
	}
	spawn := fixed.Vec(fixed.FromInt(testBossX), fixed.FromInt(testBossY))
	if enc.Spawn != spawn {
		t.Fatalf("spawn %+v, want %+v", enc.Spawn, spawn)
	}
	if got, want := f.bossPos(), spawn.Add(f.spec.ApproachOffset.Vector()); got != want {
		t.Fatalf("controller at %+v, want %+v", got, want)
	}
	if enc.Rotor.Current != rotorActive || enc.Pilot.Current != pilotIdle {
		t.Fatalf("unexpected animations rotor=%s pilot=%s", enc.Rotor.Current, enc.Pilot.Current)
	}
	if n := len(f.members()); n != 5 {
		t.Fatalf("expected 5 assembly members, got %d", n)
	}

	b := f.bounds()
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"camera_l", b.CameraL[0], testBossX - testScreenW/2},
		{"camera_r", b.CameraR[0], testBossX + testScreenW/2},
		{"camera_b", b.CameraB[0], testBossY},
		{"camera_t", b.CameraT[0], 0},
		{"other_player_r", b.CameraR[1], testStageWidth},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Fatalf("got %d, want %d", tc.got, tc.want)
			}
		})
	}
	if !b.ActiveL[0] || !b.ActiveR[0] || !b.ActiveB[0] || b.ActiveT[0] {
		t.Fatalf("unexpected active flags L=%v R=%v B=%v T=%v", b.ActiveL[0], b.ActiveR[0], b.ActiveB[0], b.ActiveT[0])
	}
	if b.ActiveL[1] || b.ActiveR[1] {
		t.Fatalf("other player indices must not be locked")
	}

	req := findMusicRequest(f.w, f.spec.Music.BossTrack)
	if req == nil {
		t.Fatalf("expected a %q music request", f.spec.Music.BossTrack)
	}
	if req.FadeOutFrames != 40 || !req.Loop {
		t.Fatalf("unexpected music request %+v", req)
	}
}

func TestEncounterWaitsUntilVisible(t *testing.T) {
	f := newEncounterFixture(t, 3)
	cam := cameraFor(f.w, 0)
	cam.X = 0

	f.step(10)
	if f.enc().Phase != component.PhaseAwaitPlayer {
		t.Fatalf("controller activated off screen")
	}
	if n := len(f.members()); n != 0 {
		t.Fatalf("assembly built before activation: %d members", n)
	}
	if f.bounds().ActiveR[0] {
		t.Fatalf("arena locked before activation")
	}

	cam.X = testBossX - testScreenW/2
	f.step(1)
	if f.enc().Phase != component.PhaseFlyIn {
		t.Fatalf("expected fly_in once visible, got %s", f.enc().Phase)
	}
}

func TestEncounterPhaseTimings(t *testing.T) {
	f := newEncounterFixture(t, 3)
	f.step(1)
	start := f.bossPos()

	if got := f.stepUntil(component.PhaseEnterCar, 400); got != 320 {
		t.Fatalf("fly_in lasted %d ticks, want 320", got)
	}
	if f.enc().Timer != 0 {
		t.Fatalf("timer not reset on transition: %d", f.enc().Timer)
	}
	if f.enc().Rotor.Current != rotorStop {
		t.Fatalf("rotor %s, want %s", f.enc().Rotor.Current, rotorStop)
	}
	flyIn := f.spec.FlyInVelocity.Vector()
	want := start.Add(fixed.Vec(flyIn.X*320, flyIn.Y*320))
	if got := f.bossPos(); got != want {
		t.Fatalf("fly_in ended at %+v, want %+v", got, want)
	}

	if got := f.stepUntil(component.PhaseStartCar, 5); got != 1 {
		t.Fatalf("enter_car lasted %d ticks, want 1", got)
	}
	if f.enc().Health != 0 {
		t.Fatalf("health set before start_car finished")
	}
	if got := f.stepUntil(component.PhaseInCar, 100); got != 24 {
		t.Fatalf("start_car lasted %d ticks, want 24", got)
	}

	enc := f.enc()
	if enc.Health != 8 || enc.Timer != 0 {
		t.Fatalf("expected health 8 timer 0, got %d/%d", enc.Health, enc.Timer)
	}
	if enc.Rotor.Current != rotorRetracting {
		t.Fatalf("rotor %s, want %s", enc.Rotor.Current, rotorRetracting)
	}

	driving := 0
	ecs.ForEach2(f.w, component.VehicleMemberComponent.Kind(), component.VelocityComponent.Kind(), func(_ ecs.Entity, m *component.VehicleMember, v *component.Velocity) {
		if m.Role != component.RoleChassis {
			return
		}
		if m.State != component.LocomotionDriving || v.X != -0x20000 {
			t.Fatalf("chassis state=%s vx=%#x", m.State, v.X)
		}
		driving++
	})
	if driving != 1 {
		t.Fatalf("expected one driving chassis, got %d", driving)
	}

	f.step(1000)
	if f.enc().Phase != component.PhaseInCar {
		t.Fatalf("in_car must not end on its own, got %s", f.enc().Phase)
	}
}

func TestEncounterEightHits(t *testing.T) {
	f := newEncounterFixture(t, 3)
	f.toInCar()

	for i := 1; i <= 7; i++ {
		f.strike()
		enc := f.enc()
		if enc.Health != 8-i || enc.Phase != component.PhaseInCar {
			t.Fatalf("hit %d: health=%d phase=%s", i, enc.Health, enc.Phase)
		}
		if enc.InvincibilityTimer != 32 {
			t.Fatalf("hit %d: invincibility %d, want 32", i, enc.InvincibilityTimer)
		}
		if enc.Pilot.Current != pilotHit {
			t.Fatalf("hit %d: pilot %s, want %s", i, enc.Pilot.Current, pilotHit)
		}
		for want := 31; want >= 0; want-- {
			f.step(1)
			if enc.InvincibilityTimer != want {
				t.Fatalf("hit %d: invincibility %d, want %d", i, enc.InvincibilityTimer, want)
			}
			if enc.Flash != (want&1 == 1) {
				t.Fatalf("hit %d: flash %v at %d", i, enc.Flash, want)
			}
		}
	}

	f.strike()
	enc := f.enc()
	if enc.Health != 0 || enc.Phase != component.PhaseExplode || !enc.Exploding {
		t.Fatalf("expected defeat, got health=%d phase=%s exploding=%v", enc.Health, enc.Phase, enc.Exploding)
	}
	if enc.InvincibilityTimer != 0 {
		t.Fatalf("defeating hit must not grant invincibility, got %d", enc.InvincibilityTimer)
	}
	if enc.Pilot.Current != pilotToasted {
		t.Fatalf("pilot %s, want %s", enc.Pilot.Current, pilotToasted)
	}
	p, _ := f.playerState()
	if p.Score != 1000 {
		t.Fatalf("score %d, want 1000", p.Score)
	}

	ecs.ForEach2(f.w, component.VehicleMemberComponent.Kind(), component.VelocityComponent.Kind(), func(_ ecs.Entity, m *component.VehicleMember, v *component.Velocity) {
		switch m.Role {
		case component.RoleChassis:
			if m.State != component.LocomotionDetonating || v.Y != -0x18000 {
				t.Fatalf("chassis state=%s vy=%#x", m.State, v.Y)
			}
		case component.RoleWeapon:
			if m.State != component.LocomotionReleased || v.X != -0x30000 {
				t.Fatalf("weapon state=%s vx=%#x", m.State, v.X)
			}
		}
	})

	f.step(f.spec.Phases.Explode - 10)
	if enc := f.enc(); enc.Health != 0 || enc.Phase != component.PhaseExplode {
		t.Fatalf("health=%d phase=%s after defeat", enc.Health, enc.Phase)
	}
}

func TestEncounterWeaponReleaseFollowsFacing(t *testing.T) {
	tests := []struct {
		name    string
		flipped bool
		want    fixed.Fixed
	}{
		{"facing_left", false, -0x30000},
		{"flipped", true, 0x30000},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newEncounterFixture(t, 3)
			f.toInCar()
			f.enc().Health = 1
			f.enc().FacingFlipped = tc.flipped
			f.strike()

			ecs.ForEach2(f.w, component.VehicleMemberComponent.Kind(), component.VelocityComponent.Kind(), func(_ ecs.Entity, m *component.VehicleMember, v *component.Velocity) {
				if m.Role == component.RoleWeapon && v.X != tc.want {
					t.Fatalf("weapon vx=%#x, want %#x", v.X, tc.want)
				}
			})
		})
	}
}

func TestEncounterHitArbitration(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T, f *encounterFixture)
	}{
		{
			name: "no_hits_before_health_is_set",
			run: func(t *testing.T, f *encounterFixture) {
				f.step(1)
				f.touch(true)
				f.step(10)
				if f.enc().Health != 0 || f.enc().InvincibilityTimer != 0 {
					t.Fatalf("hit landed during fly_in")
				}
			},
		},
		{
			name: "one_hit_per_invincibility_window",
			run: func(t *testing.T, f *encounterFixture) {
				f.toInCar()
				f.touch(true)
				f.step(5)
				if f.enc().Health != 7 {
					t.Fatalf("health %d, want 7", f.enc().Health)
				}
				if f.enc().InvincibilityTimer != 28 {
					t.Fatalf("invincibility %d, want 28", f.enc().InvincibilityTimer)
				}
			},
		},
		{
			name: "strike_bounces_player",
			run: func(t *testing.T, f *encounterFixture) {
				f.toInCar()
				f.touch(true)
				v, _ := ecs.Get(f.w, f.player, component.VelocityComponent.Kind())
				v.X, v.Y = 0x10000, 0x20000
				f.step(1)
				if v.X != -0x10000 || v.Y != -0x20000 {
					t.Fatalf("velocity %+v not reflected", v.Vector2)
				}
			},
		},
		{
			name: "contact_without_attack_hurts_player",
			run: func(t *testing.T, f *encounterFixture) {
				f.toInCar()
				f.touch(false)
				f.step(1)
				if f.enc().Health != 8 {
					t.Fatalf("plain contact damaged the controller")
				}
				req, ok := ecs.Get(f.w, f.player, component.DamageKnockbackRequestComponent.Kind())
				if !ok {
					t.Fatalf("expected a knockback request on the player")
				}
				if req.SourceX != f.bossPos().X {
					t.Fatalf("knockback source %#x, want %#x", req.SourceX, f.bossPos().X)
				}
			},
		},
		{
			name: "invulnerable_player_is_not_hurt",
			run: func(t *testing.T, f *encounterFixture) {
				f.toInCar()
				_ = ecs.Add(f.w, f.player, component.InvulnerableComponent.Kind(), &component.Invulnerable{Frames: 10})
				f.touch(false)
				f.step(1)
				if ecs.Has(f.w, f.player, component.DamageKnockbackRequestComponent.Kind()) {
					t.Fatalf("invulnerable player received knockback")
				}
			},
		},
		{
			name: "down_player_triggers_taunt",
			run: func(t *testing.T, f *encounterFixture) {
				f.toInCar()
				anim, _ := ecs.Get(f.w, f.player, component.AnimationComponent.Kind())
				anim.Set(component.PlayerAnimHurt)
				f.step(1)
				if f.enc().Pilot.Current != pilotLaugh {
					t.Fatalf("pilot %s, want %s", f.enc().Pilot.Current, pilotLaugh)
				}
				if !f.enc().PlayerDefeated {
					t.Fatalf("player defeated flag not set")
				}
			},
		},
		{
			name: "defeat_counts_once_with_two_attackers",
			run: func(t *testing.T, f *encounterFixture) {
				pspec, err := prefabs.LoadPlayerSpec()
				if err != nil {
					t.Fatal(err)
				}
				second := ecs.CreateEntity(f.w)
				if err := entity.NewPlayerAt(f.w, second, 1, 0, 0, pspec); err != nil {
					t.Fatal(err)
				}
				f.toInCar()
				f.enc().Health = 1
				f.touch(true)
				p2, _ := ecs.Get(f.w, second, component.PlayerComponent.Kind())
				tr2, _ := ecs.Get(f.w, second, component.TransformComponent.Kind())
				p2.Attacking = true
				tr2.Position = f.bossPos()

				f.step(1)
				if f.enc().Health != 0 {
					t.Fatalf("health %d, want 0", f.enc().Health)
				}
				p1, _ := f.playerState()
				if p1.Score != 1000 || p2.Score != 0 {
					t.Fatalf("scores p1=%d p2=%d, want 1000/0", p1.Score, p2.Score)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.run(t, newEncounterFixture(t, 3))
		})
	}
}

func TestEncounterReactionOverride(t *testing.T) {
	spec := loadEncounterSpec(t)
	sys := NewEncounterSystem(spec, zerolog.Nop())

	tests := []struct {
		name      string
		anim      string
		lastFrame bool
		health    int
		want      string
	}{
		{"hit_finished", pilotHit, true, 3, pilotIdle},
		{"laugh_finished", pilotLaugh, true, 3, pilotIdle},
		{"hit_playing", pilotHit, false, 3, pilotHit},
		{"laugh_playing_at_defeat", pilotLaugh, false, 0, pilotToasted},
		{"hit_finished_at_defeat", pilotHit, true, 0, pilotToasted},
		{"idle_untouched_at_zero_health", pilotIdle, false, 0, pilotIdle},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			enc := &component.Encounter{Health: tc.health}
			enc.Pilot.Defs = map[string]component.AnimationDef{}
			for _, a := range spec.Animations.Pilot {
				enc.Pilot.Defs[a.Name] = component.AnimationDef{Name: a.Name, FrameCount: a.Frames, FPS: a.FPS, Loop: a.Loop}
			}
			enc.Pilot.Set(tc.anim)
			if tc.lastFrame {
				enc.Pilot.Frame = enc.Pilot.FrameCount() - 1
			}

			sys.updateReaction(enc)
			if enc.Pilot.Current != tc.want {
				t.Fatalf("pilot %s, want %s", enc.Pilot.Current, tc.want)
			}
		})
	}
}

func TestEncounterExplodeExitFleeAndEscape(t *testing.T) {
	f := newEncounterFixture(t, 3)
	f.toInCar()
	f.enc().Health = 1
	f.strike()

	// The defeating tick already ran the first Explode tick.
	if f.enc().Timer != 1 {
		t.Fatalf("explode timer %d, want 1", f.enc().Timer)
	}
	if got := f.stepUntil(component.PhaseExitCar, 400); got != f.spec.Phases.Explode-1 {
		t.Fatalf("explode lasted %d more ticks, want %d", got, f.spec.Phases.Explode-1)
	}

	enc := f.enc()
	b := f.bounds()
	if !enc.Exploding {
		t.Fatalf("destruction flag cleared before the spawner saw the last explode tick")
	}
	if b.ActiveR[0] || b.CameraR[0] != testStageWidth {
		t.Fatalf("right bound not released: active=%v r=%d", b.ActiveR[0], b.CameraR[0])
	}
	if !b.ActiveL[0] || !b.ActiveB[0] {
		t.Fatalf("only the right lock may be released")
	}
	if enc.Rotor.Current != rotorExtending {
		t.Fatalf("rotor %s, want %s", enc.Rotor.Current, rotorExtending)
	}
	if findMusicRequest(f.w, "stage") == nil {
		t.Fatalf("expected the stage track to be requested")
	}

	if got := f.stepUntil(component.PhaseFlee, 5); got != 1 {
		t.Fatalf("exit_car lasted %d ticks, want 1", got)
	}
	if f.enc().Exploding {
		t.Fatalf("destruction flag still set after exit_car")
	}
	fleeStart := f.bossPos()
	if got := f.stepUntil(component.PhaseEscape, 200); got != 96 {
		t.Fatalf("flee lasted %d ticks, want 96", got)
	}
	if !f.enc().FacingFlipped {
		t.Fatalf("facing not flipped on escape")
	}
	if got, want := f.bossPos().Y, fleeStart.Y+f.spec.FleeVelocityY*96; got != want {
		t.Fatalf("flee y %#x, want %#x", got, want)
	}
	if f.enc().Rotor.Current != rotorActive {
		t.Fatalf("rotor %s, want %s after extending", f.enc().Rotor.Current, rotorActive)
	}

	cam := cameraFor(f.w, 0)
	right := float64(cam.X + testScreenW + f.spec.VisibleRange)
	for tick := 1; tick < 1000; tick++ {
		next := f.bossPos().X + f.spec.EscapeVelocityX
		f.step(1)
		visible := next.Float() <= right
		if alive := ecs.IsAlive(f.w, f.boss); alive != visible {
			t.Fatalf("tick %d: alive=%v visible=%v", tick, alive, visible)
		}
		if !visible {
			if n := len(f.members()); n != 0 {
				t.Fatalf("%d assembly members survived the escape", n)
			}
			return
		}
	}
	t.Fatalf("controller never left the screen")
}

func TestExplosionOnFinalExplodeTick(t *testing.T) {
	f := newEncounterFixture(t, 3)
	explosions := NewExplosionSystem(&f.spec.Explosion, &scriptedRandom{})
	f.toInCar()
	f.enc().Health = 1
	f.strike()
	f.step(f.spec.Phases.Explode - 2)

	st := stageOf(f.w)
	tick := func() int {
		before := len(f.w.Query(component.EffectTagComponent.Kind()))
		st.Timer = 0
		f.sys.Update(f.w)
		explosions.Update(f.w)
		return len(f.w.Query(component.EffectTagComponent.Kind())) - before
	}

	if got := tick(); got != 1 || f.enc().Phase != component.PhaseExitCar {
		t.Fatalf("final explode tick spawned %d effects, phase %s", got, f.enc().Phase)
	}
	if got := tick(); got != 0 || f.enc().Phase != component.PhaseFlee {
		t.Fatalf("exit_car tick spawned %d effects, phase %s", got, f.enc().Phase)
	}
}

func TestEncounterEngineDutyCycle(t *testing.T) {
	f := newEncounterFixture(t, 3)
	audio := NewAudioSystem()
	f.step(1)

	for i := 0; i < 64; i++ {
		f.step(1)
		audio.Update(f.w)
	}
	engine := f.bank.players[f.spec.Sounds.Engine]
	if engine == nil || engine.plays != 2 {
		t.Fatalf("engine played %v times in 64 ticks, want 2", engine)
	}
}

func TestEncounterHitSound(t *testing.T) {
	f := newEncounterFixture(t, 3)
	audio := NewAudioSystem()
	f.toInCar()
	f.strike()
	audio.Update(f.w)

	if hit := f.bank.players[f.spec.Sounds.Hit]; hit == nil || hit.plays != 1 {
		t.Fatalf("hit sound not played once")
	}
}

func TestEncounterPhaseScript(t *testing.T) {
	f := newEncounterFixture(t, 3)
	script, err := LoadPhaseScript(f.spec.Script)
	if err != nil {
		t.Fatal(err)
	}
	f.sys.SetScript(script)
	f.toInCar()
	f.enc().Health = 1
	f.strike()

	var shake *component.CameraShakeRequest
	ecs.ForEach(f.w, component.CameraShakeRequestComponent.Kind(), func(_ ecs.Entity, req *component.CameraShakeRequest) {
		shake = req
	})
	if shake == nil {
		t.Fatalf("explode hook did not request a camera shake")
	}
	if shake.Frames != f.spec.Phases.Explode || shake.Intensity != 2 {
		t.Fatalf("unexpected shake %+v", shake)
	}
}

func TestEncounterIgnoresFaultingScript(t *testing.T) {
	f := newEncounterFixture(t, 3)
	script, err := CompilePhaseScript("fault.tengo", []byte(`on_enter := func(phase, ctx) { return ctx.health / 0 }`))
	if err != nil {
		t.Fatal(err)
	}
	f.sys.SetScript(script)
	f.toInCar()
	f.enc().Health = 1
	f.strike()

	if f.enc().Phase != component.PhaseExplode {
		t.Fatalf("expected explode after a faulting hook, got %s", f.enc().Phase)
	}
	f.step(10)
	if f.enc().Timer != 11 {
		t.Fatalf("explode timer %d after 10 more ticks", f.enc().Timer)
	}
}

func TestEncounterMissingSlotPanics(t *testing.T) {
	f := newEncounterFixture(t, 1)
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic for a controller without a slot below it")
		}
		if msg, ok := r.(string); !ok || !strings.Contains(msg, "encounter system") {
			t.Fatalf("unexpected panic %v", r)
		}
	}()
	f.step(1)
}

func findMusicRequest(w *ecs.World, track string) *component.MusicRequest {
	var found *component.MusicRequest
	ecs.ForEach(w, component.MusicRequestComponent.Kind(), func(_ ecs.Entity, req *component.MusicRequest) {
		if req.Track == track {
			found = req
		}
	})
	return found
}
