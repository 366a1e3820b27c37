package session

import "github.com/milk9111/drillboss/ecs/component"

// Silent is a sound bank whose players only track their play state.
type Silent struct{}

func (Silent) Player(string) (component.SoundPlayer, error) {
	return &silentPlayer{}, nil
}

func (Silent) Volume(string) float64 { return 1 }

type silentPlayer struct {
	playing bool
	plays   int
}

func (p *silentPlayer) Play()             { p.playing = true; p.plays++ }
func (p *silentPlayer) Pause()            { p.playing = false }
func (p *silentPlayer) Rewind() error     { return nil }
func (p *silentPlayer) IsPlaying() bool   { return p.playing }
func (p *silentPlayer) SetVolume(float64) {}
