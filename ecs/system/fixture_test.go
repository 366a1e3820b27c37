package system

import (
	"testing"

	"github.com/milk9111/drillboss/ecs"
	"github.com/milk9111/drillboss/ecs/component"
	"github.com/milk9111/drillboss/ecs/entity"
	"github.com/milk9111/drillboss/fixed"
	"github.com/milk9111/drillboss/prefabs"
	"github.com/rs/zerolog"
)

type fakePlayer struct {
	plays   int
	playing bool
	volume  float64
}

func (p *fakePlayer) Play()               { p.plays++; p.playing = true }
func (p *fakePlayer) Pause()              { p.playing = false }
func (p *fakePlayer) Rewind() error       { return nil }
func (p *fakePlayer) IsPlaying() bool     { return p.playing }
func (p *fakePlayer) SetVolume(v float64) { p.volume = v }

type fakeBank struct {
	players map[string]*fakePlayer
}

func newFakeBank() *fakeBank {
	return &fakeBank{players: map[string]*fakePlayer{}}
}

func (b *fakeBank) Player(name string) (component.SoundPlayer, error) {
	p := &fakePlayer{}
	b.players[name] = p
	return p, nil
}

func (b *fakeBank) Volume(string) float64 { return 1 }

// scriptedRandom returns queued values, then min.
type scriptedRandom struct {
	values []int
	calls  [][2]int
}

func (r *scriptedRandom) Rand(min, max int) int {
	r.calls = append(r.calls, [2]int{min, max})
	if len(r.values) == 0 {
		return min
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v
}

const (
	testBossX       = 2320
	testBossY       = 440
	testStageWidth  = 2816
	testStageHeight = 512
	testScreenW     = 424
	testScreenH     = 240
)

type encounterFixture struct {
	t      *testing.T
	w      *ecs.World
	spec   *prefabs.EncounterSpec
	sys    *EncounterSystem
	bank   *fakeBank
	boss   ecs.Entity
	player ecs.Entity
}

func loadEncounterSpec(t *testing.T) *prefabs.EncounterSpec {
	t.Helper()
	spec, err := prefabs.LoadEncounterSpec()
	if err != nil {
		t.Fatalf("load encounter spec: %v", err)
	}
	return spec
}

// newEncounterFixture places the controller at slot with the camera already
// looking at it, and player 0 parked outside the hitbox.
func newEncounterFixture(t *testing.T, slot int) *encounterFixture {
	t.Helper()

	spec := loadEncounterSpec(t)
	pspec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		t.Fatalf("load player spec: %v", err)
	}

	w := ecs.NewWorld()
	w.ReserveSlots(slot + 4)
	bank := newFakeBank()

	boss, err := ecs.ResetSlot(w, slot)
	if err != nil {
		t.Fatal(err)
	}
	if err := entity.NewDrillBoss(w, boss, testBossX, testBossY, spec, bank); err != nil {
		t.Fatal(err)
	}

	player := ecs.CreateEntity(w)
	if err := entity.NewPlayerAt(w, player, 0, testBossX-300, 428, pspec); err != nil {
		t.Fatal(err)
	}

	st := ecs.CreateEntity(w)
	if err := ecs.Add(w, st, component.StageComponent.Kind(), &component.Stage{
		Name:         "test",
		Width:        testStageWidth,
		Height:       testStageHeight,
		GroundY:      448,
		ScreenWidth:  testScreenW,
		ScreenHeight: testScreenH,
		StageTrack:   "stage",
	}); err != nil {
		t.Fatal(err)
	}
	bounds := &component.WorldBounds{}
	bounds.ResetToStage(testStageWidth, testStageHeight)
	if err := ecs.Add(w, st, component.WorldBoundsComponent.Kind(), bounds); err != nil {
		t.Fatal(err)
	}
	if _, err := entity.NewCamera(w, 0, testBossX-testScreenW/2, 200); err != nil {
		t.Fatal(err)
	}

	return &encounterFixture{
		t:      t,
		w:      w,
		spec:   spec,
		sys:    NewEncounterSystem(spec, zerolog.Nop()),
		bank:   bank,
		boss:   boss,
		player: player,
	}
}

func (f *encounterFixture) enc() *component.Encounter {
	f.t.Helper()
	enc, ok := ecs.Get(f.w, f.boss, component.EncounterComponent.Kind())
	if !ok {
		f.t.Fatal("encounter controller is gone")
	}
	return enc
}

func (f *encounterFixture) bossPos() fixed.Vector2 {
	f.t.Helper()
	tr, ok := ecs.Get(f.w, f.boss, component.TransformComponent.Kind())
	if !ok {
		f.t.Fatal("encounter controller has no transform")
	}
	return tr.Position
}

func (f *encounterFixture) bounds() *component.WorldBounds {
	return worldBounds(f.w)
}

func (f *encounterFixture) step(n int) {
	for i := 0; i < n; i++ {
		f.sys.Update(f.w)
	}
}

// stepUntil runs single ticks until the controller reaches phase and
// returns how many ticks that took.
func (f *encounterFixture) stepUntil(phase component.EncounterPhase, limit int) int {
	f.t.Helper()
	for i := 1; i <= limit; i++ {
		f.sys.Update(f.w)
		if f.enc().Phase == phase {
			return i
		}
	}
	f.t.Fatalf("phase %s not reached within %d ticks (at %s)", phase, limit, f.enc().Phase)
	return 0
}

// toInCar runs the encounter from activation until the pilot is seated.
func (f *encounterFixture) toInCar() {
	f.t.Helper()
	f.step(1)
	f.stepUntil(component.PhaseInCar, 400)
}

func (f *encounterFixture) playerState() (*component.Player, *component.Transform) {
	f.t.Helper()
	p, ok := ecs.Get(f.w, f.player, component.PlayerComponent.Kind())
	if !ok {
		f.t.Fatal("player missing")
	}
	tr, _ := ecs.Get(f.w, f.player, component.TransformComponent.Kind())
	return p, tr
}

// touch moves the player onto the controller; attacking selects a strike
// or plain contact.
func (f *encounterFixture) touch(attacking bool) {
	f.t.Helper()
	p, tr := f.playerState()
	p.Attacking = attacking
	tr.Position = f.bossPos()
}

func (f *encounterFixture) retreat() {
	f.t.Helper()
	_, tr := f.playerState()
	tr.Position = f.bossPos().Add(fixed.Vec(fixed.FromInt(-200), 0))
}

// strike lands one valid hit and moves the player away again.
func (f *encounterFixture) strike() {
	f.t.Helper()
	f.touch(true)
	f.step(1)
	f.retreat()
}

func (f *encounterFixture) members() []*component.VehicleMember {
	var out []*component.VehicleMember
	ecs.ForEach(f.w, component.VehicleMemberComponent.Kind(), func(_ ecs.Entity, m *component.VehicleMember) {
		out = append(out, m)
	})
	return out
}
