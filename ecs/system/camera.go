package system

import (
	"github.com/milk9111/drillboss/ecs"
	"github.com/milk9111/drillboss/ecs/component"
	"github.com/milk9111/drillboss/fixed"
)

// CameraSystem centres each camera on its player, clamps the view to the
// world bounds and applies pending shake. Players are held inside the camera
// bounds on every edge whose active flag is set.
type CameraSystem struct {
	rng Random
}

func NewCameraSystem(rng Random) *CameraSystem {
	return &CameraSystem{rng: rng}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	st := stageOf(w)
	if st == nil {
		return
	}
	bounds := worldBounds(w)

	cs.consumeShakeRequests(w)

	ecs.ForEach2(w, component.PlayerComponent.Kind(), component.TransformComponent.Kind(), func(pe ecs.Entity, p *component.Player, tr *component.Transform) {
		if bounds != nil {
			clampPlayer(w, pe, p.Index, tr, bounds)
		}

		cam := cameraFor(w, p.Index)
		if cam == nil {
			return
		}
		px, py := tr.Position.Pixels()
		cam.X = px - st.CenterX()
		cam.Y = py - st.CenterY()
		if bounds != nil && p.Index >= 0 && p.Index < component.PlayerCount {
			cam.X = clampInt(cam.X, bounds.CameraL[p.Index], bounds.CameraR[p.Index]-st.ScreenWidth)
			cam.Y = clampInt(cam.Y, bounds.CameraT[p.Index], bounds.CameraB[p.Index]-st.ScreenHeight)
		}
	})

	ecs.ForEach(w, component.CameraComponent.Kind(), func(_ ecs.Entity, cam *component.Camera) {
		cam.ShakeX, cam.ShakeY = 0, 0
		if cam.ShakeFrames <= 0 {
			return
		}
		cam.ShakeFrames--
		if cs.rng != nil && cam.ShakeIntensity > 0 {
			cam.ShakeX = cs.rng.Rand(-cam.ShakeIntensity, cam.ShakeIntensity)
			cam.ShakeY = cs.rng.Rand(-cam.ShakeIntensity, cam.ShakeIntensity)
		}
	})
}

func (cs *CameraSystem) consumeShakeRequests(w *ecs.World) {
	ecs.ForEach(w, component.CameraShakeRequestComponent.Kind(), func(e ecs.Entity, req *component.CameraShakeRequest) {
		if cam := cameraFor(w, req.Index); cam != nil {
			if req.Frames > cam.ShakeFrames {
				cam.ShakeFrames = req.Frames
			}
			if req.Intensity > cam.ShakeIntensity || cam.ShakeFrames == req.Frames {
				cam.ShakeIntensity = req.Intensity
			}
		}
		ecs.DestroyEntity(w, e)
	})
}

func clampPlayer(w *ecs.World, pe ecs.Entity, index int, tr *component.Transform, b *component.WorldBounds) {
	if index < 0 || index >= component.PlayerCount {
		return
	}
	left, right := 0, 0
	if hb, ok := ecs.Get(w, pe, component.HitboxComponent.Kind()); ok {
		left, right = hb.Left, hb.Right
	}
	v, _ := ecs.Get(w, pe, component.VelocityComponent.Kind())

	px, py := tr.Position.Pixels()
	if b.ActiveL[index] && px+left < b.CameraL[index] {
		tr.Position.X = fixed.FromInt(b.CameraL[index] - left)
		if v != nil && v.X < 0 {
			v.X = 0
		}
	}
	if b.ActiveR[index] && px+right > b.CameraR[index] {
		tr.Position.X = fixed.FromInt(b.CameraR[index] - right)
		if v != nil && v.X > 0 {
			v.X = 0
		}
	}
	// The bottom edge holds the player's centre, not its feet.
	if b.ActiveB[index] && py > b.CameraB[index] {
		tr.Position.Y = fixed.FromInt(b.CameraB[index])
		if v != nil && v.Y > 0 {
			v.Y = 0
		}
	}
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
