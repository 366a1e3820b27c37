package ecs

// System updates a world each tick.
type System interface {
	Update(w *World)
}

// SystemFunc adapts a plain function to System.
type SystemFunc func(w *World)

func (f SystemFunc) Update(w *World) { f(w) }

// Scheduler is the fixed per-tick system order. Nil systems are dropped.
type Scheduler []System

func NewScheduler(systems ...System) Scheduler {
	out := make(Scheduler, 0, len(systems))
	for _, sys := range systems {
		if sys != nil {
			out = append(out, sys)
		}
	}
	return out
}

// Update runs one tick.
func (s Scheduler) Update(w *World) {
	for _, sys := range s {
		sys.Update(w)
	}
}

// Run advances ticks whole ticks and stops early once done reports true.
// It returns the number of ticks run.
func (s Scheduler) Run(w *World, ticks int, done func() bool) int {
	n := 0
	for n < ticks {
		if done != nil && done() {
			break
		}
		s.Update(w)
		n++
	}
	return n
}
