package entity

import (
	"fmt"

	"github.com/milk9111/drillboss/ecs"
	"github.com/milk9111/drillboss/ecs/component"
	"github.com/milk9111/drillboss/levels"
)

// LoadLevelToWorld reserves one registry slot per level entry, starting at
// slot 1, builds each entry in place and adds the stage-wide entities: the
// stage, the world bounds table, a camera per player and the music player.
func LoadLevelToWorld(w *ecs.World, lvl *levels.Level, deps Deps) error {
	if w == nil || lvl == nil {
		return fmt.Errorf("load level: world or level is nil")
	}

	w.ReserveSlots(len(lvl.Entities))
	cameras := map[int]bool{}
	for i, def := range lvl.Entities {
		e, err := BuildEntity(w, i+1, def, deps)
		if err != nil {
			return fmt.Errorf("load level %s: %w", lvl.Name, err)
		}
		if def.Type != "player" {
			continue
		}
		p, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
		if !ok || cameras[p.Index] {
			continue
		}
		if _, err := NewCamera(w, p.Index, def.X-lvl.ScreenWidth/2, def.Y-lvl.ScreenHeight/2); err != nil {
			return fmt.Errorf("load level %s: %w", lvl.Name, err)
		}
		cameras[p.Index] = true
	}

	stage := ecs.CreateEntity(w)
	if err := ecs.Add(w, stage, component.StageComponent.Kind(), &component.Stage{
		Name:         lvl.Name,
		Width:        lvl.Width,
		Height:       lvl.Height,
		GroundY:      lvl.GroundY,
		ScreenWidth:  lvl.ScreenWidth,
		ScreenHeight: lvl.ScreenHeight,
		StageTrack:   lvl.Music,
	}); err != nil {
		return fmt.Errorf("load level %s: add stage: %w", lvl.Name, err)
	}

	bounds := &component.WorldBounds{}
	bounds.ResetToStage(lvl.Width, lvl.Height)
	if err := ecs.Add(w, stage, component.WorldBoundsComponent.Kind(), bounds); err != nil {
		return fmt.Errorf("load level %s: add world bounds: %w", lvl.Name, err)
	}

	tracks := []string{lvl.Music}
	if deps.Encounter != nil {
		tracks = append(tracks, deps.Encounter.Music.BossTrack)
	}
	if _, err := NewMusicPlayer(w, deps.Sounds, tracks...); err != nil {
		return fmt.Errorf("load level %s: %w", lvl.Name, err)
	}
	if lvl.Music != "" {
		req := ecs.CreateEntity(w)
		if err := ecs.Add(w, req, component.MusicRequestComponent.Kind(), &component.MusicRequest{Track: lvl.Music, Loop: true}); err != nil {
			return fmt.Errorf("load level %s: request music: %w", lvl.Name, err)
		}
	}
	return nil
}
