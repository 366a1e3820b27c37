package component

// CameraShakeRequest asks the camera system to shake a player's view.
// Intensity is the maximum offset in pixels.
type CameraShakeRequest struct {
	Index     int
	Frames    int
	Intensity int
}

var CameraShakeRequestComponent = NewComponent[CameraShakeRequest]()
