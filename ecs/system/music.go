package system

import (
	"fmt"
	"strings"

	"github.com/milk9111/drillboss/ecs"
	"github.com/milk9111/drillboss/ecs/component"
	"github.com/rs/zerolog"
)

const (
	defaultMusicVolume     = 1.0
	defaultMusicFadeFrames = 30
)

// TrackLoader opens a player for a named music track.
type TrackLoader func(track string) (component.SoundPlayer, error)

// MusicSystem consumes MusicRequest entities and drives the MusicPlayer
// channel. Only the newest request of a tick is honoured.
type MusicSystem struct {
	load TrackLoader
	log  zerolog.Logger
}

func NewMusicSystem(load TrackLoader, logger zerolog.Logger) *MusicSystem {
	return &MusicSystem{load: load, log: logger.With().Str("system", "music").Logger()}
}

func RequestMusic(w *ecs.World, track string) {
	RequestMusicWithOptions(w, &component.MusicRequest{Track: track, Loop: true, FadeOutFrames: defaultMusicFadeFrames})
}

func RequestMusicWithOptions(w *ecs.World, req *component.MusicRequest) {
	if w == nil || req == nil {
		return
	}
	_ = ecs.Add(w, ecs.CreateEntity(w), component.MusicRequestComponent.Kind(), req)
}

// StopMusic fades the current track to silence.
func StopMusic(w *ecs.World) {
	RequestMusicWithOptions(w, &component.MusicRequest{FadeOutFrames: defaultMusicFadeFrames})
}

func (m *MusicSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	req := m.drainRequests(w)

	ent, ok := ecs.First(w, component.MusicPlayerComponent.Kind())
	if !ok {
		return
	}
	mp, _ := ecs.Get(w, ent, component.MusicPlayerComponent.Kind())
	if mp == nil {
		return
	}
	if mp.Tracks == nil {
		mp.Tracks = make(map[string]component.SoundPlayer)
	}

	if req != nil {
		m.queue(mp, *req)
	}
	if mp.Next != nil {
		m.fade(mp)
		return
	}

	if cur := m.current(mp); cur != nil && mp.Loop && !cur.IsPlaying() {
		_ = cur.Rewind()
		cur.SetVolume(mp.Volume)
		cur.Play()
	}
}

func (m *MusicSystem) drainRequests(w *ecs.World) *component.MusicRequest {
	var latest *component.MusicRequest
	ecs.ForEach(w, component.MusicRequestComponent.Kind(), func(e ecs.Entity, req *component.MusicRequest) {
		r := *req
		latest = &r
		ecs.DestroyEntity(w, e)
	})
	return latest
}

func (m *MusicSystem) queue(mp *component.MusicPlayer, req component.MusicRequest) {
	req.Track = strings.TrimSpace(req.Track)
	if req.Volume <= 0 {
		req.Volume = defaultMusicVolume
		if v, ok := mp.Volumes[req.Track]; ok && v > 0 {
			req.Volume = v
		}
	}
	if req.Volume > 1 {
		req.Volume = 1
	}
	if req.FadeOutFrames <= 0 {
		req.FadeOutFrames = defaultMusicFadeFrames
	}

	cur := m.current(mp)
	if cur != nil && mp.Next == nil && req.Track == mp.Track {
		mp.Volume = req.Volume
		mp.Loop = req.Loop
		cur.SetVolume(mp.Volume)
		if !cur.IsPlaying() {
			_ = cur.Rewind()
			cur.Play()
		}
		return
	}

	mp.Next = &req
	if cur == nil {
		m.start(mp)
		return
	}
	mp.FadeStep = mp.Volume / float64(req.FadeOutFrames)
	if mp.FadeStep <= 0 {
		mp.FadeStep = 1
	}
}

func (m *MusicSystem) fade(mp *component.MusicPlayer) {
	cur := m.current(mp)
	if cur == nil {
		m.start(mp)
		return
	}

	mp.Volume -= mp.FadeStep
	if mp.Volume > 0 {
		cur.SetVolume(mp.Volume)
		return
	}
	cur.SetVolume(0)
	cur.Pause()
	_ = cur.Rewind()
	m.start(mp)
}

// start swaps the queued request in as the current track.
func (m *MusicSystem) start(mp *component.MusicPlayer) {
	next := mp.Next
	mp.Next = nil
	mp.FadeStep = 0
	mp.Track, mp.Volume, mp.Loop = "", 0, false
	if next == nil || next.Track == "" {
		return
	}

	p, err := m.trackPlayer(mp, next.Track)
	if err != nil {
		m.log.Warn().Err(err).Str("track", next.Track).Msg("load music track")
		return
	}
	mp.Track, mp.Volume, mp.Loop = next.Track, next.Volume, next.Loop
	_ = p.Rewind()
	p.SetVolume(mp.Volume)
	p.Play()
	m.log.Debug().Str("track", mp.Track).Float64("volume", mp.Volume).Msg("music started")
}

func (m *MusicSystem) current(mp *component.MusicPlayer) component.SoundPlayer {
	if mp.Track == "" {
		return nil
	}
	return mp.Tracks[mp.Track]
}

func (m *MusicSystem) trackPlayer(mp *component.MusicPlayer, track string) (component.SoundPlayer, error) {
	if p, ok := mp.Tracks[track]; ok && p != nil {
		return p, nil
	}
	if m.load == nil {
		return nil, fmt.Errorf("no loader for track %q", track)
	}
	p, err := m.load(track)
	if err != nil {
		return nil, err
	}
	mp.Tracks[track] = p
	return p, nil
}
