package generator

import (
	"math/rand"
	"sync"
)

// Generator is an expression that generates a sequence of string values,
// following some distribution.
type Generator interface {
	// NextString generates the next string in the distribution.
	NextString() string
	// LastString returns the previous string generated by the distribution,
	// e.g., the last NextString() call.
	LastString() string
}

var (
	randomLock sync.Mutex
	random     = rand.New(rand.NewSource(rand.Int63()))
)

// NextInt64 returns a random number in [0, n).
func NextInt64(n int64) int64 {
	randomLock.Lock()
	defer randomLock.Unlock()
	return random.Int63n(n)
}

// NextFloat64 returns a random number in [0.0, 1.0).
func NextFloat64() float64 {
	randomLock.Lock()
	defer randomLock.Unlock()
	return random.Float64()
}
