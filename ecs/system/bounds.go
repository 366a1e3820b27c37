package system

import (
	"github.com/milk9111/drillboss/ecs"
	"github.com/milk9111/drillboss/ecs/component"
	"github.com/milk9111/drillboss/fixed"
)

// LockArena pins player index's camera to a screen-wide window centred on
// pos and holds the player inside it on the left, right and bottom edges.
func LockArena(b *component.WorldBounds, index int, pos fixed.Vector2, centerX int) {
	if b == nil || index < 0 || index >= component.PlayerCount {
		return
	}
	px, py := pos.Pixels()
	b.ActiveL[index] = true
	b.ActiveR[index] = true
	b.ActiveB[index] = true
	b.CameraL[index] = px - centerX
	b.CameraR[index] = px + centerX
	b.CameraB[index] = py
}

// ReleaseArena lets the player scroll right again, out to the stage edge.
func ReleaseArena(b *component.WorldBounds, index int, stageWidth int) {
	if b == nil || index < 0 || index >= component.PlayerCount {
		return
	}
	b.ActiveR[index] = false
	b.CameraR[index] = stageWidth
}

func worldBounds(w *ecs.World) *component.WorldBounds {
	e, ok := ecs.First(w, component.WorldBoundsComponent.Kind())
	if !ok {
		return nil
	}
	b, _ := ecs.Get(w, e, component.WorldBoundsComponent.Kind())
	return b
}

func stageOf(w *ecs.World) *component.Stage {
	e, ok := ecs.First(w, component.StageComponent.Kind())
	if !ok {
		return nil
	}
	s, _ := ecs.Get(w, e, component.StageComponent.Kind())
	return s
}

// cameraFor returns the camera of the given player index.
func cameraFor(w *ecs.World, index int) *component.Camera {
	var found *component.Camera
	ecs.ForEach(w, component.CameraComponent.Kind(), func(_ ecs.Entity, cam *component.Camera) {
		if found == nil && cam.Index == index {
			found = cam
		}
	})
	return found
}

// StageSystem advances the global stage timer once per tick.
type StageSystem struct{}

func NewStageSystem() *StageSystem {
	return &StageSystem{}
}

func (s *StageSystem) Update(w *ecs.World) {
	if st := stageOf(w); st != nil {
		st.Timer++
	}
}
