package system

import (
	"github.com/milk9111/drillboss/ecs"
	"github.com/milk9111/drillboss/ecs/component"
)

// AudioSystem restarts every clip flagged to play this tick and pauses the
// ones flagged to stop. Flags are cleared once handled.
type AudioSystem struct{}

func NewAudioSystem() *AudioSystem {
	return &AudioSystem{}
}

func (a *AudioSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.AudioComponent.Kind(), func(_ ecs.Entity, clips *component.Audio) {
		for i, p := range clips.Players {
			if p == nil {
				continue
			}
			if flagged(clips.Play, i) {
				if i < len(clips.Volume) {
					p.SetVolume(clips.Volume[i])
				}
				_ = p.Rewind()
				p.Play()
			}
			if flagged(clips.Stop, i) && p.IsPlaying() {
				p.Pause()
			}
		}
		clear(clips.Play)
		clear(clips.Stop)
	})
}

func flagged(flags []bool, i int) bool {
	return i < len(flags) && flags[i]
}
