package system

import (
	"fmt"

	"github.com/milk9111/drillboss/ecs"
	"github.com/milk9111/drillboss/ecs/component"
	"github.com/milk9111/drillboss/fixed"
	"github.com/milk9111/drillboss/prefabs"
)

// VehicleAssembly holds the handles of one drill car.
type VehicleAssembly struct {
	Chassis ecs.Entity
	Weapon  ecs.Entity
	// Wheels are rear, forward A and forward B.
	Wheels [3]ecs.Entity
}

// Members lists all five handles, chassis first.
func (a VehicleAssembly) Members() []ecs.Entity {
	return []ecs.Entity{a.Chassis, a.Weapon, a.Wheels[0], a.Wheels[1], a.Wheels[2]}
}

// Registry slots of the assembly relative to the controller's slot. The rear
// wheel sits below the controller so it is drawn and updated first.
const (
	chassisSlotOffset   = 1
	weaponSlotOffset    = 2
	rearWheelSlotOffset = -1
	wheelASlotOffset    = 3
	wheelBSlotOffset    = 4
)

// BuildVehicleAssembly resets the five slots around the controller and wires
// the members to each other. origin is the controller's spawn position and
// cameraX the current scroll position of player 0.
func BuildVehicleAssembly(w *ecs.World, controller ecs.Entity, origin fixed.Vector2, spec *prefabs.VehicleSpec, cameraX, centerX int) (VehicleAssembly, error) {
	var asm VehicleAssembly
	if w == nil || spec == nil {
		return asm, fmt.Errorf("build vehicle assembly: missing world or tuning")
	}
	slot := controller.Slot()

	reset := func(offset int) (ecs.Entity, error) {
		e, err := ecs.ResetSlot(w, slot+offset)
		if err != nil {
			return 0, fmt.Errorf("build vehicle assembly: slot %d: %w", slot+offset, err)
		}
		return e, nil
	}

	var err error
	if asm.Chassis, err = reset(chassisSlotOffset); err != nil {
		return asm, err
	}
	if asm.Weapon, err = reset(weaponSlotOffset); err != nil {
		return asm, err
	}
	if asm.Wheels[0], err = reset(rearWheelSlotOffset); err != nil {
		return asm, err
	}
	if asm.Wheels[1], err = reset(wheelASlotOffset); err != nil {
		return asm, err
	}
	if asm.Wheels[2], err = reset(wheelBSlotOffset); err != nil {
		return asm, err
	}

	chassisPos := origin.Add(spec.ChassisOffset.Vector())

	boundsL := origin.X + spec.BoundsLeft
	// The stop position is computed from a fixed-point position plus pixel
	// offsets, and the difference is subtracted from the fixed-point bound
	// unscaled.
	screenStop := int((origin.X + fixed.Fixed(spec.ScrollStopOffset) + fixed.Fixed(centerX)) >> fixed.Shift)
	if cameraX < screenStop {
		boundsL -= fixed.Fixed(screenStop - cameraX)
	}

	base := component.VehicleMember{
		Controller: uint64(controller),
		Chassis:    uint64(asm.Chassis),
		Weapon:     uint64(asm.Weapon),
		GroundY:    chassisPos.Y,
	}

	chassis := base
	chassis.Role = component.RoleChassis
	chassis.State = component.LocomotionIdle
	chassis.ParkX = origin.X + spec.ParkOffsetX
	chassis.BoundsL = boundsL
	chassis.BoundsR = origin.X + spec.BoundsRight
	chassis.Wheels = [3]uint64{uint64(asm.Wheels[0]), uint64(asm.Wheels[1]), uint64(asm.Wheels[2])}
	if err := addMember(w, asm.Chassis, &chassis, chassisPos, spec.DrawLayer); err != nil {
		return asm, err
	}
	if err := ecs.Add(w, asm.Chassis, component.HitboxComponent.Kind(), &component.Hitbox{
		Left:   spec.ChassisHitbox.Left,
		Top:    spec.ChassisHitbox.Top,
		Right:  spec.ChassisHitbox.Right,
		Bottom: spec.ChassisHitbox.Bottom,
	}); err != nil {
		return asm, fmt.Errorf("build vehicle assembly: chassis hitbox: %w", err)
	}

	weapon := base
	weapon.Role = component.RoleWeapon
	weapon.State = component.LocomotionDocked
	if err := addMember(w, asm.Weapon, &weapon, chassisPos.Add(spec.WeaponOffset.Vector()), spec.DrawLayer); err != nil {
		return asm, err
	}

	wheels := [3]struct {
		role   component.VehicleRole
		offset fixed.Fixed
		layer  int
	}{
		{component.RoleRearWheel, spec.WheelOffsets.Rear, spec.RearWheelDrawLayer},
		{component.RoleForwardWheelA, spec.WheelOffsets.ForwardA, spec.DrawLayer},
		{component.RoleForwardWheelB, spec.WheelOffsets.ForwardB, spec.DrawLayer},
	}
	for i, def := range wheels {
		wheel := base
		wheel.Role = def.role
		wheel.State = component.LocomotionIdle
		wheel.XOffset = def.offset
		pos := fixed.Vec(chassisPos.X+def.offset, chassisPos.Y+spec.WheelOffsetY)
		if err := addMember(w, asm.Wheels[i], &wheel, pos, def.layer); err != nil {
			return asm, err
		}
		anim := &component.Animation{Defs: map[string]component.AnimationDef{
			"spin": {Name: "spin", FrameCount: spec.WheelSpinFrames, FPS: spec.WheelSpinFPS, Loop: true},
		}}
		anim.Set("spin")
		anim.Playing = false
		if err := ecs.Add(w, asm.Wheels[i], component.AnimationComponent.Kind(), anim); err != nil {
			return asm, fmt.Errorf("build vehicle assembly: wheel animation: %w", err)
		}
	}

	return asm, nil
}

func addMember(w *ecs.World, e ecs.Entity, m *component.VehicleMember, pos fixed.Vector2, layer int) error {
	if err := ecs.Add(w, e, component.VehicleMemberComponent.Kind(), m); err != nil {
		return fmt.Errorf("build vehicle assembly: %s: %w", m.Role, err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos}); err != nil {
		return fmt.Errorf("build vehicle assembly: %s transform: %w", m.Role, err)
	}
	if err := ecs.Add(w, e, component.VelocityComponent.Kind(), &component.Velocity{}); err != nil {
		return fmt.Errorf("build vehicle assembly: %s velocity: %w", m.Role, err)
	}
	if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: layer}); err != nil {
		return fmt.Errorf("build vehicle assembly: %s layer: %w", m.Role, err)
	}
	return nil
}

// StartDriving puts every chassis in the world into Driving.
func StartDriving(w *ecs.World, velocityX fixed.Fixed) int {
	count := 0
	ecs.ForEach2(w, component.VehicleMemberComponent.Kind(), component.VelocityComponent.Kind(), func(_ ecs.Entity, m *component.VehicleMember, v *component.Velocity) {
		if m.Role != component.RoleChassis {
			return
		}
		m.State = component.LocomotionDriving
		m.FacingRight = velocityX > 0
		v.X = velocityX
		count++
	})
	return count
}

// DetonateVehicles is the defeat cascade: every chassis starts detonating
// with an upward impulse and every docked weapon is fired. Weapons fly left
// unless the controller is flipped.
func DetonateVehicles(w *ecs.World, impulseY, releaseSpeed fixed.Fixed, flipped bool) {
	ecs.ForEach2(w, component.VehicleMemberComponent.Kind(), component.VelocityComponent.Kind(), func(_ ecs.Entity, m *component.VehicleMember, v *component.Velocity) {
		switch m.Role {
		case component.RoleChassis:
			m.State = component.LocomotionDetonating
			v.X = 0
			v.Y = impulseY
		case component.RoleWeapon:
			if m.State != component.LocomotionDocked {
				return
			}
			m.State = component.LocomotionReleased
			v.X = -releaseSpeed
			if flipped {
				v.X = releaseSpeed
			}
		}
	})
}

// DestroyVehicles removes every assembly member owned by controller.
func DestroyVehicles(w *ecs.World, controller ecs.Entity) int {
	count := 0
	ecs.ForEach(w, component.VehicleMemberComponent.Kind(), func(e ecs.Entity, m *component.VehicleMember) {
		if ecs.Entity(m.Controller) != controller {
			return
		}
		if ecs.DestroyEntity(w, e) {
			count++
		}
	})
	return count
}

// VehicleSystem moves the assembly members. Every chassis is updated before
// the members that follow it.
type VehicleSystem struct {
	spec *prefabs.VehicleSpec
}

func NewVehicleSystem(spec *prefabs.VehicleSpec) *VehicleSystem {
	return &VehicleSystem{spec: spec}
}

func (s *VehicleSystem) SetSpec(spec *prefabs.VehicleSpec) {
	if spec != nil {
		s.spec = spec
	}
}

func (s *VehicleSystem) Update(w *ecs.World) {
	if w == nil || s.spec == nil {
		return
	}

	members := w.Query(component.VehicleMemberComponent.Kind(), component.TransformComponent.Kind(), component.VelocityComponent.Kind())
	for _, e := range members {
		m, _ := ecs.Get(w, e, component.VehicleMemberComponent.Kind())
		if m != nil && m.Role == component.RoleChassis {
			s.updateChassis(w, e, m)
		}
	}
	for _, e := range members {
		m, _ := ecs.Get(w, e, component.VehicleMemberComponent.Kind())
		if m == nil {
			continue
		}
		switch {
		case m.Role == component.RoleWeapon:
			s.updateWeapon(w, e, m)
		case m.Role.IsWheel():
			s.updateWheel(w, e, m)
		}
	}
}

func (s *VehicleSystem) updateChassis(w *ecs.World, e ecs.Entity, m *component.VehicleMember) {
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	v, _ := ecs.Get(w, e, component.VelocityComponent.Kind())
	if tr == nil || v == nil {
		return
	}

	switch m.State {
	case component.LocomotionIdle:
		speed := s.spec.DriveVelocityX.Abs()
		if tr.Position.X > m.ParkX {
			tr.Position.X -= speed
			if tr.Position.X < m.ParkX {
				tr.Position.X = m.ParkX
			}
		}
	case component.LocomotionDriving:
		before := tr.Position.X
		tr.Position.X += v.X
		if tr.Position.X <= m.BoundsL {
			tr.Position.X = m.BoundsL
			v.X = v.X.Abs()
			m.FacingRight = true
		} else if tr.Position.X >= m.BoundsR {
			tr.Position.X = m.BoundsR
			v.X = -v.X.Abs()
			m.FacingRight = false
		}
		// The pilot rides along.
		if ctr, ok := ecs.Get(w, ecs.Entity(m.Controller), component.TransformComponent.Kind()); ok {
			ctr.Position.X += tr.Position.X - before
		}
	case component.LocomotionDetonating:
		v.Y += s.spec.Gravity
		tr.Position.Y += v.Y
		if tr.Position.Y >= m.GroundY && v.Y > 0 {
			tr.Position.Y = m.GroundY
			v.Y = s.spec.DetonateVelocityY
		}
	}
}

func (s *VehicleSystem) updateWeapon(w *ecs.World, e ecs.Entity, m *component.VehicleMember) {
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	v, _ := ecs.Get(w, e, component.VelocityComponent.Kind())
	if tr == nil || v == nil {
		return
	}

	switch m.State {
	case component.LocomotionDocked:
		chassis, cm := memberOf(w, m.Chassis)
		if chassis == nil {
			return
		}
		offset := s.spec.WeaponOffset.Vector()
		if cm.FacingRight {
			offset.X = -offset.X
		}
		tr.Position = chassis.Position.Add(offset)
		m.FacingRight = cm.FacingRight
	case component.LocomotionReleased:
		tr.Position = tr.Position.Add(v.Vector2)
		m.FacingRight = v.X > 0
		if layer, ok := ecs.Get(w, e, component.RenderLayerComponent.Kind()); ok {
			layer.Index = s.spec.ReleasedWeaponLayer
		}
	}
}

func (s *VehicleSystem) updateWheel(w *ecs.World, e ecs.Entity, m *component.VehicleMember) {
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	v, _ := ecs.Get(w, e, component.VelocityComponent.Kind())
	if tr == nil || v == nil {
		return
	}
	anim, _ := ecs.Get(w, e, component.AnimationComponent.Kind())

	chassis, cm := memberOf(w, m.Chassis)
	if m.State != component.LocomotionDetonating && cm != nil && cm.State == component.LocomotionDetonating {
		// Wheels come off and roll away from the chassis.
		m.State = component.LocomotionDetonating
		v.X = s.spec.WheelRollSpeed
		if s.facingOffset(m.XOffset, cm.FacingRight) < 0 {
			v.X = -v.X
		}
	}

	if m.State == component.LocomotionDetonating {
		tr.Position.X += v.X
		setPlaying(anim, true)
		return
	}
	if chassis == nil {
		return
	}

	m.State = cm.State
	m.FacingRight = cm.FacingRight
	tr.Position = fixed.Vec(
		chassis.Position.X+s.facingOffset(m.XOffset, cm.FacingRight),
		chassis.Position.Y+s.spec.WheelOffsetY,
	)
	parking := cm.State == component.LocomotionIdle && chassis.Position.X > cm.ParkX
	setPlaying(anim, cm.State == component.LocomotionDriving || parking)
}

func (s *VehicleSystem) facingOffset(offset fixed.Fixed, facingRight bool) fixed.Fixed {
	if facingRight {
		return -offset
	}
	return offset
}

func memberOf(w *ecs.World, handle uint64) (*component.Transform, *component.VehicleMember) {
	e := ecs.Entity(handle)
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return nil, nil
	}
	m, ok := ecs.Get(w, e, component.VehicleMemberComponent.Kind())
	if !ok {
		return nil, nil
	}
	return tr, m
}

func setPlaying(anim *component.Animation, playing bool) {
	if anim != nil {
		anim.Playing = playing
	}
}
