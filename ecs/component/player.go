package component

// Player animation names the encounter reacts to.
const (
	PlayerAnimIdle  = "idle"
	PlayerAnimRun   = "run"
	PlayerAnimJump  = "jump"
	PlayerAnimHurt  = "hurt"
	PlayerAnimDie   = "die"
	PlayerAnimDrown = "drown"
)

type Player struct {
	Index int
	// Attacking is true while the player is curled into a jump or roll.
	Attacking bool
	Grounded  bool
	Score     int

	// HurtFrames counts down the knockback after taking a hit.
	HurtFrames int
}

var PlayerComponent = NewComponent[Player]()
