package generator

import (
	"strconv"
	"sync/atomic"
)

// CounterGenerator generates a sequence of unsigned integers
// start, start+1, start+2, ... It's safe for concurrent use: every
// NextInt() call observes a distinct value, and values are never skipped.
// The counter wraps around after math.MaxUint64.
type CounterGenerator struct {
	count uint64
	last  uint64
}

func NewCounterGenerator(startCount uint64) *CounterGenerator {
	return &CounterGenerator{
		count: startCount - 1,
		last:  startCount - 1,
	}
}

func (self *CounterGenerator) NextInt() uint64 {
	ret := atomic.AddUint64(&self.count, 1)
	atomic.StoreUint64(&self.last, ret)
	return ret
}

// LastInt returns a recently generated value. Under concurrent use it's
// only an approximation of the latest one.
func (self *CounterGenerator) LastInt() uint64 {
	return atomic.LoadUint64(&self.last)
}

func (self *CounterGenerator) NextString() string {
	return strconv.FormatUint(self.NextInt(), 10)
}

func (self *CounterGenerator) LastString() string {
	return strconv.FormatUint(self.LastInt(), 10)
}
