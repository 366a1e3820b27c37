// Package assets synthesizes the sound effects and music loops listed in the
// sound bank tuning file.
package assets

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/drillboss/ecs/component"
	"github.com/milk9111/drillboss/prefabs"
)

const (
	SampleRate   = 44100
	ticksPerSec  = 60
	bytesPerTick = 4 // 16-bit stereo
	attackFrames = 1
)

var (
	contextOnce  sync.Once
	audioContext *audio.Context
)

// Context returns the process-wide audio context. Ebitengine allows only one.
func Context() *audio.Context {
	contextOnce.Do(func() {
		audioContext = audio.CurrentContext()
		if audioContext == nil {
			audioContext = audio.NewContext(SampleRate)
		}
	})
	return audioContext
}

// SoundBank holds synthesized PCM for every named effect and track and opens
// players on demand.
type SoundBank struct {
	ctx     *audio.Context
	pcm     map[string][]byte
	volumes map[string]float64
	tracks  map[string]bool
}

// NewSoundBank synthesizes every sound in spec. A nil spec loads the bundled
// sounds.yaml.
func NewSoundBank(spec *prefabs.SoundBankSpec) (*SoundBank, error) {
	if spec == nil {
		var err error
		spec, err = prefabs.LoadSoundBankSpec()
		if err != nil {
			return nil, fmt.Errorf("sound bank: %w", err)
		}
	}

	b := &SoundBank{
		ctx:     Context(),
		pcm:     make(map[string][]byte),
		volumes: make(map[string]float64),
		tracks:  make(map[string]bool),
	}
	add := func(s prefabs.SoundSpec, track bool) error {
		if s.Name == "" {
			return fmt.Errorf("sound bank: unnamed sound")
		}
		if _, dup := b.pcm[s.Name]; dup {
			return fmt.Errorf("sound bank: duplicate sound %q", s.Name)
		}
		b.pcm[s.Name] = synthesize(s, b.ctx.SampleRate())
		b.volumes[s.Name] = s.Volume
		b.tracks[s.Name] = track
		return nil
	}
	for _, s := range spec.Effects {
		if err := add(s, false); err != nil {
			return nil, err
		}
	}
	for _, s := range spec.Tracks {
		if err := add(s, true); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Player opens a fresh player for a named effect or track.
func (b *SoundBank) Player(name string) (component.SoundPlayer, error) {
	pcm, ok := b.pcm[name]
	if !ok {
		return nil, fmt.Errorf("sound bank: unknown sound %q", name)
	}
	p := b.ctx.NewPlayerFromBytes(pcm)
	p.SetVolume(b.Volume(name))
	return p, nil
}

func (b *SoundBank) Volume(name string) float64 {
	if v, ok := b.volumes[name]; ok && v > 0 {
		return v
	}
	return 1
}

// Track opens a music track. Effects are rejected so a typo in a music
// request does not start a sound effect on the music channel.
func (b *SoundBank) Track(name string) (component.SoundPlayer, error) {
	if !b.tracks[name] {
		return nil, fmt.Errorf("sound bank: %q is not a music track", name)
	}
	return b.Player(name)
}

// Names lists every loaded sound.
func (b *SoundBank) Names() []string {
	out := make([]string, 0, len(b.pcm))
	for name := range b.pcm {
		out = append(out, name)
	}
	return out
}

// synthesize renders a square wave of s.Frequency for s.Frames ticks as
// 16-bit little-endian stereo PCM, with a linear fade over the last quarter.
func synthesize(s prefabs.SoundSpec, sampleRate int) []byte {
	if s.Frames <= 0 || sampleRate <= 0 {
		return nil
	}
	n := s.Frames * sampleRate / ticksPerSec
	out := make([]byte, n*bytesPerTick)

	attack := attackFrames * sampleRate / ticksPerSec
	release := n / 4
	const amp = 0.3 * math.MaxInt16

	for i := 0; i < n; i++ {
		v := 0.0
		if s.Frequency > 0 {
			phase := math.Mod(float64(i)*s.Frequency/float64(sampleRate), 1)
			v = 1
			if phase >= 0.5 {
				v = -1
			}
		}

		env := 1.0
		if i < attack {
			env = float64(i) / float64(attack)
		}
		if left := n - i; left < release {
			env = math.Min(env, float64(left)/float64(release))
		}

		sample := int16(v * env * amp)
		binary.LittleEndian.PutUint16(out[i*bytesPerTick:], uint16(sample))
		binary.LittleEndian.PutUint16(out[i*bytesPerTick+2:], uint16(sample))
	}
	return out
}
