package system

import (
	"testing"

	"github.com/milk9111/drillboss/ecs"
	"github.com/milk9111/drillboss/ecs/component"
	"github.com/milk9111/drillboss/ecs/entity"
	"github.com/milk9111/drillboss/fixed"
)

func TestLockAndReleaseArena(t *testing.T) {
	b := &component.WorldBounds{}
	b.ResetToStage(testStageWidth, testStageHeight)
	pos := fixed.Vec(fixed.FromInt(testBossX), fixed.FromInt(testBossY))

	LockArena(b, 1, pos, testScreenW/2)
	if b.CameraL[1] != testBossX-212 || b.CameraR[1] != testBossX+212 || b.CameraB[1] != testBossY {
		t.Fatalf("unexpected lock L=%d R=%d B=%d", b.CameraL[1], b.CameraR[1], b.CameraB[1])
	}
	if b.ActiveL[0] || b.CameraR[0] != testStageWidth {
		t.Fatalf("lock leaked into index 0")
	}

	ReleaseArena(b, 1, testStageWidth)
	if b.ActiveR[1] || b.CameraR[1] != testStageWidth {
		t.Fatalf("right edge not released")
	}
	if !b.ActiveL[1] || !b.ActiveB[1] || b.CameraL[1] != testBossX-212 {
		t.Fatalf("release touched the left or bottom lock")
	}

	// Out of range indices are ignored.
	LockArena(b, component.PlayerCount, pos, 10)
	ReleaseArena(b, -1, 0)
	LockArena(nil, 0, pos, 10)
}

type cameraFixture struct {
	w      *ecs.World
	bounds *component.WorldBounds
	cam    *component.Camera
	tr     *component.Transform
	v      *component.Velocity
}

func newCameraFixture(t *testing.T) *cameraFixture {
	t.Helper()
	w := ecs.NewWorld()

	st := ecs.CreateEntity(w)
	if err := ecs.Add(w, st, component.StageComponent.Kind(), &component.Stage{
		Width: testStageWidth, Height: testStageHeight, ScreenWidth: testScreenW, ScreenHeight: testScreenH,
	}); err != nil {
		t.Fatal(err)
	}
	bounds := &component.WorldBounds{}
	bounds.ResetToStage(testStageWidth, testStageHeight)
	if err := ecs.Add(w, st, component.WorldBoundsComponent.Kind(), bounds); err != nil {
		t.Fatal(err)
	}

	p := ecs.CreateEntity(w)
	tr := &component.Transform{}
	v := &component.Velocity{}
	_ = ecs.Add(w, p, component.PlayerComponent.Kind(), &component.Player{Index: 0})
	_ = ecs.Add(w, p, component.TransformComponent.Kind(), tr)
	_ = ecs.Add(w, p, component.VelocityComponent.Kind(), v)
	_ = ecs.Add(w, p, component.HitboxComponent.Kind(), &component.Hitbox{Left: -8, Top: -16, Right: 8, Bottom: 16})

	camEnt, err := entity.NewCamera(w, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	cam, _ := ecs.Get(w, camEnt, component.CameraComponent.Kind())
	return &cameraFixture{w: w, bounds: bounds, cam: cam, tr: tr, v: v}
}

func TestCameraHoldsPlayerInsideArena(t *testing.T) {
	tests := []struct {
		name    string
		x, y    int
		vx, vy  fixed.Fixed
		wantX   int
		wantY   int
		wantVX  fixed.Fixed
		wantVY  fixed.Fixed
		wantCam [2]int
	}{
		{"left_edge", 2000, 428, -0x20000, 0, 2116, 428, 0, 0, [2]int{2108, 200}},
		{"right_edge", 2600, 428, 0x20000, 0, 2524, 428, 0, 0, [2]int{2108, 200}},
		{"bottom_edge", 2300, 460, 0, 0x10000, 2300, 440, 0, 0, [2]int{2108, 200}},
		{"inside", 2300, 300, -0x10000, -0x10000, 2300, 300, -0x10000, -0x10000, [2]int{2108, 180}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newCameraFixture(t)
			LockArena(f.bounds, 0, fixed.Vec(fixed.FromInt(testBossX), fixed.FromInt(testBossY)), testScreenW/2)
			f.tr.Position = fixed.Vec(fixed.FromInt(tc.x), fixed.FromInt(tc.y))
			f.v.X, f.v.Y = tc.vx, tc.vy

			NewCameraSystem(nil).Update(f.w)

			if x, y := f.tr.Position.Pixels(); x != tc.wantX || y != tc.wantY {
				t.Fatalf("player at (%d, %d), want (%d, %d)", x, y, tc.wantX, tc.wantY)
			}
			if f.v.X != tc.wantVX || f.v.Y != tc.wantVY {
				t.Fatalf("velocity (%#x, %#x), want (%#x, %#x)", f.v.X, f.v.Y, tc.wantVX, tc.wantVY)
			}
			if got := [2]int{f.cam.X, f.cam.Y}; got != tc.wantCam {
				t.Fatalf("camera at %v, want %v", got, tc.wantCam)
			}
		})
	}
}

func TestCameraFollowsPlayerWithoutLock(t *testing.T) {
	f := newCameraFixture(t)
	f.tr.Position = fixed.Vec(fixed.FromInt(1000), fixed.FromInt(300))
	NewCameraSystem(nil).Update(f.w)

	if f.cam.X != 1000-testScreenW/2 || f.cam.Y != 300-testScreenH/2 {
		t.Fatalf("camera at (%d, %d)", f.cam.X, f.cam.Y)
	}

	f.tr.Position = fixed.Vec(fixed.FromInt(10), fixed.FromInt(500))
	NewCameraSystem(nil).Update(f.w)
	if f.cam.X != 0 || f.cam.Y != testStageHeight-testScreenH {
		t.Fatalf("camera not clamped to the stage: (%d, %d)", f.cam.X, f.cam.Y)
	}
}

func TestCameraShake(t *testing.T) {
	f := newCameraFixture(t)
	rng := &scriptedRandom{values: []int{1, -2}}
	sys := NewCameraSystem(rng)

	req := ecs.CreateEntity(f.w)
	_ = ecs.Add(f.w, req, component.CameraShakeRequestComponent.Kind(), &component.CameraShakeRequest{Index: 0, Frames: 3, Intensity: 2})

	sys.Update(f.w)
	if ecs.IsAlive(f.w, req) {
		t.Fatalf("shake request not consumed")
	}
	if f.cam.ShakeFrames != 2 || f.cam.ShakeX != 1 || f.cam.ShakeY != -2 {
		t.Fatalf("unexpected shake %+v", *f.cam)
	}
	if rng.calls[0] != [2]int{-2, 2} {
		t.Fatalf("shake drawn from %v", rng.calls[0])
	}

	sys.Update(f.w)
	sys.Update(f.w)
	sys.Update(f.w)
	if f.cam.ShakeFrames != 0 || f.cam.ShakeX != 0 || f.cam.ShakeY != 0 {
		t.Fatalf("shake did not settle: %+v", *f.cam)
	}
}

func TestStageSystemAdvancesTimer(t *testing.T) {
	f := newCameraFixture(t)
	sys := NewStageSystem()
	for i := 0; i < 5; i++ {
		sys.Update(f.w)
	}
	if st := stageOf(f.w); st.Timer != 5 {
		t.Fatalf("timer %d, want 5", st.Timer)
	}
}
