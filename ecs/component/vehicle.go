package component

import "github.com/milk9111/drillboss/fixed"

// VehicleRole identifies one of the five assembly members.
type VehicleRole int

const (
	RoleChassis VehicleRole = iota
	RoleWeapon
	RoleRearWheel
	RoleForwardWheelA
	RoleForwardWheelB
)

func (r VehicleRole) String() string {
	switch r {
	case RoleChassis:
		return "chassis"
	case RoleWeapon:
		return "weapon"
	case RoleRearWheel:
		return "rear_wheel"
	case RoleForwardWheelA:
		return "forward_wheel_a"
	case RoleForwardWheelB:
		return "forward_wheel_b"
	}
	return "unknown"
}

// IsWheel reports whether the role is one of the three support wheels.
func (r VehicleRole) IsWheel() bool {
	return r == RoleRearWheel || r == RoleForwardWheelA || r == RoleForwardWheelB
}

// Locomotion covers both the chassis/wheel states and the weapon states.
type Locomotion int

const (
	LocomotionIdle Locomotion = iota
	LocomotionDriving
	LocomotionDetonating

	LocomotionDocked
	LocomotionReleased
)

func (l Locomotion) String() string {
	switch l {
	case LocomotionIdle:
		return "idle"
	case LocomotionDriving:
		return "driving"
	case LocomotionDetonating:
		return "detonating"
	case LocomotionDocked:
		return "docked"
	case LocomotionReleased:
		return "released"
	}
	return "unknown"
}

// VehicleMember is one part of the drill car. The handles are written once
// when the assembly is built and never reassigned. Handles are raw entity
// values so this package stays independent of ecs.
type VehicleMember struct {
	Role  VehicleRole
	State Locomotion

	Controller uint64
	Chassis    uint64
	Weapon     uint64
	// Wheels is only populated on the chassis: rear, forward A, forward B.
	Wheels [3]uint64

	// XOffset is the wheel's horizontal distance from the chassis when the
	// chassis faces left.
	XOffset fixed.Fixed

	// ParkX is where the idle chassis rolls to before the pilot boards.
	ParkX fixed.Fixed
	// BoundsL and BoundsR clamp the chassis while driving.
	BoundsL     fixed.Fixed
	BoundsR     fixed.Fixed
	GroundY     fixed.Fixed
	FacingRight bool
}

var VehicleMemberComponent = NewComponent[VehicleMember]()
