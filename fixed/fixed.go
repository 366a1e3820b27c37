// Package fixed implements 16.16 fixed-point scalars used for every position
// and velocity in the simulation.
package fixed

// Fixed is a signed value with a 16-bit fractional part.
type Fixed int32

const (
	Shift       = 16
	One   Fixed = 1 << Shift
)

func FromInt(v int) Fixed {
	return Fixed(v << Shift)
}

// Int truncates toward negative infinity.
func (f Fixed) Int() int {
	return int(f >> Shift)
}

func (f Fixed) Float() float64 {
	return float64(f) / float64(One)
}

func (f Fixed) Abs() Fixed {
	if f < 0 {
		return -f
	}
	return f
}

// Sign returns -1, 0 or 1.
func (f Fixed) Sign() int {
	switch {
	case f < 0:
		return -1
	case f > 0:
		return 1
	}
	return 0
}

type Vector2 struct {
	X Fixed
	Y Fixed
}

func Vec(x, y Fixed) Vector2 {
	return Vector2{X: x, Y: y}
}

func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Pixels returns the integer pixel coordinates.
func (v Vector2) Pixels() (int, int) {
	return v.X.Int(), v.Y.Int()
}
