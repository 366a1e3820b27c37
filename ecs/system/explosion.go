package system

import (
	"github.com/milk9111/drillboss/ecs"
	"github.com/milk9111/drillboss/ecs/component"
	"github.com/milk9111/drillboss/fixed"
	"github.com/milk9111/drillboss/prefabs"
)

// ExplosionSystem spawns explosion effects around every exploding
// controller. It reads the stage timer and never writes it.
type ExplosionSystem struct {
	spec    *prefabs.ExplosionSpec
	rng     Random
	metrics *EncounterMetrics
}

func NewExplosionSystem(spec *prefabs.ExplosionSpec, rng Random) *ExplosionSystem {
	return &ExplosionSystem{spec: spec, rng: rng}
}

func (s *ExplosionSystem) SetSpec(spec *prefabs.ExplosionSpec) {
	if spec != nil {
		s.spec = spec
	}
}

func (s *ExplosionSystem) SetMetrics(m *EncounterMetrics) {
	s.metrics = m
}

func (s *ExplosionSystem) Update(w *ecs.World) {
	if w == nil || s.spec == nil || s.rng == nil {
		return
	}
	st := stageOf(w)
	if st == nil || st.Timer&s.spec.CadenceMask != 0 {
		return
	}

	ecs.ForEach2(w, component.EncounterComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, enc *component.Encounter, tr *component.Transform) {
		if !enc.Exploding {
			return
		}
		s.spawn(w, e, tr.Position)
	})
}

func (s *ExplosionSystem) spawn(w *ecs.World, owner ecs.Entity, origin fixed.Vector2) ecs.Entity {
	dx := s.rng.Rand(-s.spec.SpreadX<<fixed.Shift, s.spec.SpreadX<<fixed.Shift)
	dy := s.rng.Rand(-s.spec.SpreadY<<fixed.Shift, s.spec.SpreadY<<fixed.Shift)
	pos := origin.Add(fixed.Vec(fixed.Fixed(dx), fixed.Fixed(dy)))

	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos})
	_ = ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: s.spec.TTLFrames})
	_ = ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: s.spec.DrawLayer})
	_ = ecs.Add(w, e, component.EffectTagComponent.Kind(), &component.EffectTag{})

	if a, ok := ecs.Get(w, owner, component.AudioComponent.Kind()); ok {
		a.Request(s.spec.Sound)
	}
	s.metrics.effectSpawned()
	return e
}
