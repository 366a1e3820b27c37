package system

import (
	"github.com/milk9111/drillboss/ecs"
	"github.com/milk9111/drillboss/ecs/component"
)

// AnimationSystem advances every standalone Animation component. The pilot
// and rotor clips live on the Encounter and are advanced by the encounter
// system.
type AnimationSystem struct{}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{}
}

func (a *AnimationSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.AnimationComponent.Kind(), func(_ ecs.Entity, anim *component.Animation) {
		anim.Advance()
	})
}
