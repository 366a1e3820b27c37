package entity

import (
	"fmt"

	"github.com/milk9111/drillboss/ecs"
	"github.com/milk9111/drillboss/ecs/component"
	"github.com/milk9111/drillboss/fixed"
	"github.com/milk9111/drillboss/prefabs"
)

// NewPlayerAt builds player index on entity e with its centre at (x, y)
// pixels.
func NewPlayerAt(w *ecs.World, e ecs.Entity, index, x, y int, spec *prefabs.PlayerSpec) error {
	if spec == nil {
		return fmt.Errorf("player: missing tuning")
	}

	if err := ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{Index: index}); err != nil {
		return fmt.Errorf("player: add player: %w", err)
	}
	if err := ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}); err != nil {
		return fmt.Errorf("player: add input: %w", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		Position: fixed.Vec(fixed.FromInt(x), fixed.FromInt(y)),
	}); err != nil {
		return fmt.Errorf("player: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.VelocityComponent.Kind(), &component.Velocity{}); err != nil {
		return fmt.Errorf("player: add velocity: %w", err)
	}
	if err := ecs.Add(w, e, component.HitboxComponent.Kind(), hitboxFromSpec(spec.Hitbox)); err != nil {
		return fmt.Errorf("player: add hitbox: %w", err)
	}
	if err := ecs.Add(w, e, component.AnimationComponent.Kind(), animationFromSpecs(spec.Animations, component.PlayerAnimIdle)); err != nil {
		return fmt.Errorf("player: add animation: %w", err)
	}
	if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: spec.DrawLayer}); err != nil {
		return fmt.Errorf("player: add render layer: %w", err)
	}
	return nil
}

func hitboxFromSpec(spec prefabs.HitboxSpec) *component.Hitbox {
	return &component.Hitbox{Left: spec.Left, Top: spec.Top, Right: spec.Right, Bottom: spec.Bottom}
}

// animationFromSpecs builds an Animation and starts the initial clip.
func animationFromSpecs(specs []prefabs.AnimationSpec, initial string) *component.Animation {
	anim := &component.Animation{Defs: make(map[string]component.AnimationDef, len(specs))}
	for _, s := range specs {
		anim.Defs[s.Name] = component.AnimationDef{
			Name:       s.Name,
			FrameCount: s.Frames,
			FPS:        s.FPS,
			Loop:       s.Loop,
		}
	}
	anim.Set(initial)
	return anim
}
