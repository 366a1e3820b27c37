package component

// MusicPlayer is the single music channel. A new request fades the playing
// track out before the queued one starts.
type MusicPlayer struct {
	Tracks  map[string]SoundPlayer
	Volumes map[string]float64

	Track  string
	Volume float64
	Loop   bool

	// Next is the request waiting for the fade-out to finish.
	Next     *MusicRequest
	FadeStep float64
}

var MusicPlayerComponent = NewComponent[MusicPlayer]()
