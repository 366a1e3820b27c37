package component

// Input is the per-tick control state for one player.
type Input struct {
	Left  bool
	Right bool
	Jump  bool
	// JumpHeld is true while the jump button stays down.
	JumpHeld bool
	Disabled bool
}

var InputComponent = NewComponent[Input]()
