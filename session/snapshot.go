package session

import (
	"github.com/milk9111/drillboss/ecs"
	"github.com/milk9111/drillboss/ecs/component"
	"gopkg.in/yaml.v3"
)

// Snapshot is a readable dump of the encounter, copied to the clipboard from
// the debug keys and printed by the headless runner.
type Snapshot struct {
	Tick      int    `yaml:"tick"`
	Present   bool   `yaml:"present"`
	Phase     string `yaml:"phase,omitempty"`
	Timer     int    `yaml:"timer,omitempty"`
	Health    int    `yaml:"health"`
	Exploding bool   `yaml:"exploding,omitempty"`
	Defeated  bool   `yaml:"player_defeated,omitempty"`
	Pilot     string `yaml:"pilot,omitempty"`
	Rotor     string `yaml:"rotor,omitempty"`
	X         int    `yaml:"x,omitempty"`
	Y         int    `yaml:"y,omitempty"`

	Score   int       `yaml:"score"`
	Members []Member  `yaml:"members,omitempty"`
	Bounds  BoundsRow `yaml:"bounds"`
}

type Member struct {
	Slot  int    `yaml:"slot"`
	Role  string `yaml:"role"`
	State string `yaml:"state"`
	X     int    `yaml:"x"`
}

type BoundsRow struct {
	Left    int  `yaml:"left"`
	Right   int  `yaml:"right"`
	Bottom  int  `yaml:"bottom"`
	LockedL bool `yaml:"locked_left"`
	LockedR bool `yaml:"locked_right"`
	LockedB bool `yaml:"locked_bottom"`
}

func (s *Session) Snapshot() Snapshot {
	w := s.World
	snap := Snapshot{Tick: s.tick}

	ecs.ForEach2(w, component.EncounterComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, enc *component.Encounter, tr *component.Transform) {
		if snap.Present {
			return
		}
		snap.Present = true
		snap.Phase = enc.Phase.String()
		snap.Timer = enc.Timer
		snap.Health = enc.Health
		snap.Exploding = enc.Exploding
		snap.Defeated = enc.PlayerDefeated
		snap.Pilot = enc.Pilot.Current
		snap.Rotor = enc.Rotor.Current
		snap.X, snap.Y = tr.Position.Pixels()
	})

	ecs.ForEach(w, component.PlayerComponent.Kind(), func(_ ecs.Entity, p *component.Player) {
		if p.Index == 0 {
			snap.Score = p.Score
		}
	})

	ecs.ForEach2(w, component.VehicleMemberComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, m *component.VehicleMember, tr *component.Transform) {
		x, _ := tr.Position.Pixels()
		snap.Members = append(snap.Members, Member{Slot: e.Slot(), Role: m.Role.String(), State: m.State.String(), X: x})
	})

	if be, ok := ecs.First(w, component.WorldBoundsComponent.Kind()); ok {
		b, _ := ecs.Get(w, be, component.WorldBoundsComponent.Kind())
		snap.Bounds = BoundsRow{
			Left: b.CameraL[0], Right: b.CameraR[0], Bottom: b.CameraB[0],
			LockedL: b.ActiveL[0], LockedR: b.ActiveR[0], LockedB: b.ActiveB[0],
		}
	}
	return snap
}

// YAML renders the snapshot for the clipboard and logs.
func (s Snapshot) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}
