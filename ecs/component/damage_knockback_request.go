package component

import "github.com/milk9111/drillboss/fixed"

// DamageKnockback is a transient component asking the player system to hurt
// the entity and push it away from SourceX. The player system removes it
// once applied.
type DamageKnockback struct {
	SourceX      fixed.Fixed
	SourceEntity uint64
}

var DamageKnockbackRequestComponent = NewComponent[DamageKnockback]()
