package component

// Hitbox is an AABB in whole pixels relative to the entity position.
type Hitbox struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

var HitboxComponent = NewComponent[Hitbox]()
