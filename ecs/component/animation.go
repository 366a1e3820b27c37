package component

type AnimationDef struct {
	Name       string
	FrameCount int
	FPS        float64
	Loop       bool
}

// Animation plays one named clip out of Defs at a time. Non-looping clips
// stop on their final frame.
type Animation struct {
	Defs       map[string]AnimationDef
	Current    string
	Frame      int
	FrameTimer int
	Playing    bool
}

// Set switches to the named clip starting at frame 0. Unknown names leave the
// animation untouched.
func (a *Animation) Set(name string) {
	if a == nil {
		return
	}
	if _, ok := a.Defs[name]; !ok {
		return
	}
	a.Current = name
	a.Frame = 0
	a.FrameTimer = 0
	a.Playing = true
}

func (a *Animation) FrameCount() int {
	if a == nil {
		return 0
	}
	return a.Defs[a.Current].FrameCount
}

// AtLastFrame reports whether the current clip shows its final frame.
func (a *Animation) AtLastFrame() bool {
	n := a.FrameCount()
	return n > 0 && a.Frame == n-1
}

// Advance steps the clip by one tick at 60 TPS.
func (a *Animation) Advance() {
	if a == nil || !a.Playing {
		return
	}
	def, ok := a.Defs[a.Current]
	if !ok || def.FrameCount <= 0 {
		return
	}

	ticksPerFrame := 1
	if def.FPS > 0 {
		ticksPerFrame = int(60.0 / def.FPS)
		if ticksPerFrame < 1 {
			ticksPerFrame = 1
		}
	}

	a.FrameTimer++
	if a.FrameTimer < ticksPerFrame {
		return
	}
	a.FrameTimer = 0
	a.Frame++
	if a.Frame >= def.FrameCount {
		if def.Loop {
			a.Frame = 0
		} else {
			a.Frame = def.FrameCount - 1
			a.Playing = false
		}
	}
}

var AnimationComponent = NewComponent[Animation]()
