package component

// PlayerCount is the number of player/screen indices the bounds table holds.
const PlayerCount = 4

// WorldBounds is the per-player camera clamp and player scroll-lock table.
// Camera bounds are in whole pixels; a player is only held inside the camera
// bounds on the edges whose active flag is set.
type WorldBounds struct {
	CameraL [PlayerCount]int
	CameraR [PlayerCount]int
	CameraT [PlayerCount]int
	CameraB [PlayerCount]int

	ActiveL [PlayerCount]bool
	ActiveR [PlayerCount]bool
	ActiveT [PlayerCount]bool
	ActiveB [PlayerCount]bool
}

// ResetToStage opens every camera bound to the stage extent and clears all
// scroll locks.
func (b *WorldBounds) ResetToStage(width, height int) {
	if b == nil {
		return
	}
	for i := 0; i < PlayerCount; i++ {
		b.CameraL[i] = 0
		b.CameraT[i] = 0
		b.CameraR[i] = width
		b.CameraB[i] = height
		b.ActiveL[i] = false
		b.ActiveR[i] = false
		b.ActiveT[i] = false
		b.ActiveB[i] = false
	}
}

var WorldBoundsComponent = NewComponent[WorldBounds]()
