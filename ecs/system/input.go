package system

import (
	"github.com/milk9111/drillboss/ecs"
	"github.com/milk9111/drillboss/ecs/component"
)

// InputSource samples the controls for one player index.
type InputSource func(index int) component.Input

type InputSystem struct {
	source InputSource
}

func NewInputSystem(source InputSource) *InputSystem {
	return &InputSystem{source: source}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil || i.source == nil {
		return
	}

	ecs.ForEach2(w, component.PlayerComponent.Kind(), component.InputComponent.Kind(), func(_ ecs.Entity, p *component.Player, input *component.Input) {
		disabled := input.Disabled
		*input = i.source(p.Index)
		input.Disabled = disabled
	})
}

// AutopilotSystem drives player 0 through the encounter without a keyboard:
// it walks into the arena, waits for the car to arrive and keeps jumping on
// the pilot until the fight is over.
type AutopilotSystem struct {
	// Reach is how close, in pixels, the player gets before jumping.
	Reach int
	held  int
}

func NewAutopilotSystem() *AutopilotSystem {
	return &AutopilotSystem{Reach: 24}
}

func (a *AutopilotSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	var target *component.Transform
	var enc *component.Encounter
	ecs.ForEach2(w, component.EncounterComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, e *component.Encounter, tr *component.Transform) {
		if target == nil {
			target, enc = tr, e
		}
	})

	ecs.ForEach3(w, component.PlayerComponent.Kind(), component.InputComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, p *component.Player, input *component.Input, tr *component.Transform) {
		if p.Index != 0 {
			return
		}
		disabled := input.Disabled
		*input = component.Input{Disabled: disabled}
		if target == nil {
			input.Right = true
			return
		}

		dx := (target.Position.X - tr.Position.X).Int()
		switch enc.Phase {
		case component.PhaseAwaitPlayer:
			input.Right = true
			return
		case component.PhaseInCar:
		default:
			// Keep clear of the pilot until it can be hit.
			if dx < 96 && dx > -96 {
				if dx > 0 {
					input.Left = true
				} else {
					input.Right = true
				}
			}
			return
		}

		if dx > a.Reach {
			input.Right = true
		} else if dx < -a.Reach {
			input.Left = true
		}
		if enc.InvincibilityTimer > 0 {
			a.held = 0
			return
		}
		if p.Grounded && abs(dx) <= a.Reach*2 {
			input.Jump = true
			a.held = 40
		}
		if a.held > 0 {
			input.JumpHeld = true
			a.held--
		}
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
