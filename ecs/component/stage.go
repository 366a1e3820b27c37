package component

// Stage holds process-wide stage data: the size of the foreground layer, the
// screen geometry and the global tick counter.
type Stage struct {
	Name   string
	Width  int
	Height int

	// GroundY is the floor line players stand on, in pixels.
	GroundY int

	ScreenWidth  int
	ScreenHeight int

	// Timer advances once per tick and is only written by the stage system.
	Timer int

	StageTrack string
}

func (s *Stage) CenterX() int {
	return s.ScreenWidth / 2
}

func (s *Stage) CenterY() int {
	return s.ScreenHeight / 2
}

var StageComponent = NewComponent[Stage]()
