package component

// SoundPlayer is the slice of *audio.Player the audio systems rely on.
type SoundPlayer interface {
	Play()
	Pause()
	Rewind() error
	IsPlaying() bool
	SetVolume(volume float64)
}

type Audio struct {
	Names   []string
	Players []SoundPlayer
	Volume  []float64
	Play    []bool
	Stop    []bool
}

// Request flags the named sound for playback on the next audio update.
func (a *Audio) Request(name string) bool {
	if a == nil {
		return false
	}
	found := false
	for i, n := range a.Names {
		if n != name || i >= len(a.Play) {
			continue
		}
		a.Play[i] = true
		found = true
	}
	return found
}

var AudioComponent = NewComponent[Audio]()
