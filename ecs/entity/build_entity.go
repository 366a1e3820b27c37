package entity

import (
	"fmt"

	"github.com/milk9111/drillboss/ecs"
	"github.com/milk9111/drillboss/levels"
	"github.com/milk9111/drillboss/prefabs"
)

// Deps is what the builders need besides the world.
type Deps struct {
	Encounter *prefabs.EncounterSpec
	Player    *prefabs.PlayerSpec
	Sounds    SoundBank
}

type entityBuildFn func(w *ecs.World, e ecs.Entity, def levels.Entity, deps Deps) error

// entityRegistry maps level entity types to builders. A nil builder keeps the
// slot reserved but empty.
var entityRegistry = map[string]entityBuildFn{
	"player":     buildPlayer,
	"drill_boss": buildDrillBoss,
	"blank":      nil,
}

// BuildEntity fills a reserved slot from a level entry.
func BuildEntity(w *ecs.World, slot int, def levels.Entity, deps Deps) (ecs.Entity, error) {
	build, ok := entityRegistry[def.Type]
	if !ok {
		return 0, fmt.Errorf("slot %d: unknown entity type %q", slot, def.Type)
	}
	if build == nil {
		return 0, nil
	}

	e, err := ecs.ResetSlot(w, slot)
	if err != nil {
		return 0, fmt.Errorf("slot %d: %w", slot, err)
	}
	if err := build(w, e, def, deps); err != nil {
		return 0, fmt.Errorf("slot %d (%s): %w", slot, def.Type, err)
	}
	return e, nil
}

func buildPlayer(w *ecs.World, e ecs.Entity, def levels.Entity, deps Deps) error {
	return NewPlayerAt(w, e, propInt(def.Props, "index", 0), def.X, def.Y, deps.Player)
}

func buildDrillBoss(w *ecs.World, e ecs.Entity, def levels.Entity, deps Deps) error {
	return NewDrillBoss(w, e, def.X, def.Y, deps.Encounter, deps.Sounds)
}

func propInt(props map[string]interface{}, key string, fallback int) int {
	switch v := props[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}
