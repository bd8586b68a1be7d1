package services

import (
	"math/rand/v2"
	"sync"
	"time"
)

// RandomSource draws uniformly distributed integers in [min, max], both inclusive.
type RandomSource interface {
	IntN(min, max int) int
}

type lockedRandom struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSource returns a goroutine-safe source seeded with seed.
func NewRandomSource(seed uint64) RandomSource {
	return &lockedRandom{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewTimeSeededRandomSource seeds from the wall clock.
func NewTimeSeededRandomSource() RandomSource {
	return NewRandomSource(uint64(time.Now().UnixNano()))
}

func (r *lockedRandom) IntN(min, max int) int {
	if max <= min {
		return min
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return min + r.rng.IntN(max-min+1)
}
