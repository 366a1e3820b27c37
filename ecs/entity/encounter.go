package entity

import (
	"fmt"

	"github.com/milk9111/drillboss/ecs"
	"github.com/milk9111/drillboss/ecs/component"
	"github.com/milk9111/drillboss/fixed"
	"github.com/milk9111/drillboss/prefabs"
)

// NewDrillBoss places an inactive encounter controller on e. The slots on
// either side of e must be reserved for the vehicle assembly, which is only
// built once the controller activates.
func NewDrillBoss(w *ecs.World, e ecs.Entity, x, y int, spec *prefabs.EncounterSpec, bank SoundBank) error {
	if spec == nil {
		return fmt.Errorf("drill boss: missing tuning")
	}

	pos := fixed.Vec(fixed.FromInt(x), fixed.FromInt(y))
	enc := &component.Encounter{
		Phase: component.PhaseAwaitPlayer,
		Spawn: pos,
		Pilot: *animationFromSpecs(spec.Animations.Pilot, "idle"),
		Rotor: *animationFromSpecs(spec.Animations.Rotor, "active"),
	}
	if err := ecs.Add(w, e, component.EncounterComponent.Kind(), enc); err != nil {
		return fmt.Errorf("drill boss: add encounter: %w", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos}); err != nil {
		return fmt.Errorf("drill boss: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.HitboxComponent.Kind(), hitboxFromSpec(spec.Hitbox)); err != nil {
		return fmt.Errorf("drill boss: add hitbox: %w", err)
	}
	if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: spec.DrawLayer}); err != nil {
		return fmt.Errorf("drill boss: add render layer: %w", err)
	}

	audioComp, err := buildAudioComponent(bank, spec.Sounds.Engine, spec.Sounds.Hit, spec.Explosion.Sound)
	if err != nil {
		return fmt.Errorf("drill boss: %w", err)
	}
	if audioComp != nil {
		if err := ecs.Add(w, e, component.AudioComponent.Kind(), audioComp); err != nil {
			return fmt.Errorf("drill boss: add audio: %w", err)
		}
	}
	return nil
}
