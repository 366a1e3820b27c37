package component

// Camera is the scroll position of one player's screen, in pixels from the
// stage origin to the top-left corner of the view.
type Camera struct {
	Index int
	X     int
	Y     int

	ShakeFrames    int
	ShakeIntensity int
	ShakeX         int
	ShakeY         int
}

var CameraComponent = NewComponent[Camera]()
