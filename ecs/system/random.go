package system

import (
	"hash/fnv"
	"math/rand"
)

// Random is the integer source used for effect placement.
type Random interface {
	// Rand returns a value in [min, max].
	Rand(min, max int) int
}

type seededRandom struct {
	rng *rand.Rand
}

// NewRandom returns a deterministic source derived from a root seed and a
// label, so separate consumers of the same seed do not share a sequence.
func NewRandom(seed int64, label string) Random {
	return &seededRandom{rng: rand.New(rand.NewSource(seedValue(seed, label)))}
}

func seedValue(seed int64, label string) int64 {
	hasher := fnv.New64a()
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(seed >> (8 * i))
	}
	hasher.Write(buf[:])
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

func (r *seededRandom) Rand(min, max int) int {
	if max <= min {
		return min
	}
	return min + r.rng.Intn(max-min+1)
}
