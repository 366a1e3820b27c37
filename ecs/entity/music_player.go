package entity

import (
	"fmt"

	"github.com/milk9111/drillboss/ecs"
	"github.com/milk9111/drillboss/ecs/component"
)

// NewMusicPlayer creates the entity holding global music state. Track
// volumes come from the sound bank; players are loaded lazily by the music
// system.
func NewMusicPlayer(w *ecs.World, bank SoundBank, tracks ...string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("music player: world is nil")
	}

	volumes := make(map[string]float64, len(tracks))
	for _, track := range tracks {
		if bank != nil && track != "" {
			volumes[track] = bank.Volume(track)
		}
	}

	ent := ecs.CreateEntity(w)
	if err := ecs.Add(w, ent, component.MusicPlayerComponent.Kind(), &component.MusicPlayer{
		Tracks:  make(map[string]component.SoundPlayer),
		Volumes: volumes,
	}); err != nil {
		return 0, fmt.Errorf("music player: add component: %w", err)
	}
	return ent, nil
}
