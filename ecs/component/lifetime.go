package component

// TTL destroys its entity after Frames more ticks. An entity whose TTL is
// already zero goes on the next update.
type TTL struct {
	Frames int
}

var TTLComponent = NewComponent[TTL]()

// Invulnerable shields a player from knockback. Frames counts down to
// removal; zero holds until something removes it.
type Invulnerable struct {
	Frames int
}

var InvulnerableComponent = NewComponent[Invulnerable]()
