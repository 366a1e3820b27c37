package component

import "github.com/milk9111/drillboss/fixed"

// EncounterPhase is the state of the boss controller. Phases only move
// forward; InCar is left out-of-band by the defeating hit.
type EncounterPhase int

const (
	PhaseAwaitPlayer EncounterPhase = iota
	PhaseFlyIn
	PhaseEnterCar
	PhaseStartCar
	PhaseInCar
	PhaseExplode
	PhaseExitCar
	PhaseFlee
	PhaseEscape
)

var phaseNames = [...]string{
	PhaseAwaitPlayer: "await_player",
	PhaseFlyIn:       "fly_in",
	PhaseEnterCar:    "enter_car",
	PhaseStartCar:    "start_car",
	PhaseInCar:       "in_car",
	PhaseExplode:     "explode",
	PhaseExitCar:     "exit_car",
	PhaseFlee:        "flee",
	PhaseEscape:      "escape",
}

func (p EncounterPhase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// Encounter is the boss controller's state.
type Encounter struct {
	Phase EncounterPhase
	// Timer counts ticks since the current phase was entered.
	Timer int

	Health             int
	InvincibilityTimer int
	// Flash mirrors the low bit of InvincibilityTimer while it counts down.
	Flash bool

	// Exploding gates the explosion spawner. It stays set through the tick
	// that ends Explode and clears when ExitCar runs.
	Exploding     bool
	FacingFlipped bool
	// PlayerDefeated is set once the primary player is seen hurt or dying.
	PlayerDefeated bool

	EngineSFXTimer int
	Spawn          fixed.Vector2

	Pilot Animation
	Rotor Animation
}

var EncounterComponent = NewComponent[Encounter]()
