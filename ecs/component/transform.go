package component

import "github.com/milk9111/drillboss/fixed"

// Transform is the world position in 16.16 fixed point.
type Transform struct {
	Position fixed.Vector2
}

var TransformComponent = NewComponent[Transform]()

type Velocity struct {
	fixed.Vector2
}

var VelocityComponent = NewComponent[Velocity]()
