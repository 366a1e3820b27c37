package system

import (
	"github.com/milk9111/drillboss/ecs"
	"github.com/milk9111/drillboss/ecs/component"
	"github.com/milk9111/drillboss/fixed"
	"github.com/milk9111/drillboss/prefabs"
)

// PlayerControllerSystem turns input into velocity, applies gravity and the
// floor, resolves pending knockback and picks the player animation.
type PlayerControllerSystem struct {
	spec *prefabs.PlayerSpec
}

func NewPlayerControllerSystem(spec *prefabs.PlayerSpec) *PlayerControllerSystem {
	return &PlayerControllerSystem{spec: spec}
}

func (s *PlayerControllerSystem) SetSpec(spec *prefabs.PlayerSpec) {
	if spec != nil {
		s.spec = spec
	}
}

func (s *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil || s.spec == nil {
		return
	}
	floor := fixed.Fixed(0)
	hasFloor := false
	if st := stageOf(w); st != nil && st.GroundY > 0 {
		floor = fixed.FromInt(st.GroundY)
		hasFloor = true
	}

	entities := w.Query(
		component.PlayerComponent.Kind(),
		component.TransformComponent.Kind(),
		component.VelocityComponent.Kind(),
	)
	for _, e := range entities {
		p, _ := ecs.Get(w, e, component.PlayerComponent.Kind())
		tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		v, _ := ecs.Get(w, e, component.VelocityComponent.Kind())
		if p == nil || tr == nil || v == nil {
			continue
		}

		if req, ok := ecs.Get(w, e, component.DamageKnockbackRequestComponent.Kind()); ok {
			s.applyKnockback(w, e, p, tr, v, req)
			ecs.Remove(w, e, component.DamageKnockbackRequestComponent.Kind())
		}

		if p.HurtFrames > 0 {
			p.HurtFrames--
		} else if input, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok && !input.Disabled {
			s.steer(p, v, input)
		}

		v.Y += s.spec.Gravity
		tr.Position = tr.Position.Add(v.Vector2)

		p.Grounded = false
		if hasFloor {
			bottom := fixed.Fixed(0)
			if hb, ok := ecs.Get(w, e, component.HitboxComponent.Kind()); ok {
				bottom = fixed.FromInt(hb.Bottom)
			}
			if tr.Position.Y+bottom >= floor && v.Y >= 0 {
				tr.Position.Y = floor - bottom
				v.Y = 0
				p.Grounded = true
				p.Attacking = false
			}
		}

		if anim, ok := ecs.Get(w, e, component.AnimationComponent.Kind()); ok {
			s.animate(anim, p, v)
		}
	}
}

func (s *PlayerControllerSystem) steer(p *component.Player, v *component.Velocity, input *component.Input) {
	target := fixed.Fixed(0)
	if input.Left {
		target -= s.spec.MoveSpeed
	}
	if input.Right {
		target += s.spec.MoveSpeed
	}
	switch {
	case v.X < target:
		v.X += s.spec.Acceleration
		if v.X > target {
			v.X = target
		}
	case v.X > target:
		v.X -= s.spec.Acceleration
		if v.X < target {
			v.X = target
		}
	}

	if input.Jump && p.Grounded {
		v.Y = s.spec.JumpVelocity
		p.Attacking = true
		p.Grounded = false
	}
	if !input.JumpHeld && v.Y < s.spec.JumpReleaseCap {
		v.Y = s.spec.JumpReleaseCap
	}
}

func (s *PlayerControllerSystem) applyKnockback(w *ecs.World, e ecs.Entity, p *component.Player, tr *component.Transform, v *component.Velocity, req *component.DamageKnockback) {
	if ecs.Has(w, e, component.InvulnerableComponent.Kind()) {
		return
	}
	push := s.spec.HurtVelocity.Vector()
	if tr.Position.X < req.SourceX {
		push.X = -push.X
	}
	v.Vector2 = push
	p.HurtFrames = s.spec.HurtFrames
	p.Attacking = false
	p.Grounded = false
	_ = ecs.Add(w, e, component.InvulnerableComponent.Kind(), &component.Invulnerable{Frames: s.spec.InvulnerableTicks})
}

func (s *PlayerControllerSystem) animate(anim *component.Animation, p *component.Player, v *component.Velocity) {
	next := component.PlayerAnimIdle
	switch {
	case p.HurtFrames > 0:
		next = component.PlayerAnimHurt
	case !p.Grounded:
		next = component.PlayerAnimJump
	case v.X != 0:
		next = component.PlayerAnimRun
	}
	if anim.Current != next {
		anim.Set(next)
	}
}
