package component

// MusicRequest asks the music system to switch tracks. Requests live on
// their own entities and are consumed the tick they are seen; when several
// arrive together the last one wins. An empty Track fades to silence.
type MusicRequest struct {
	Track string
	// Volume <= 0 uses the track's volume from the sound bank.
	Volume float64
	Loop   bool
	// FadeOutFrames is how long the current track takes to fade before the
	// new one starts.
	FadeOutFrames int
}

var MusicRequestComponent = NewComponent[MusicRequest]()
