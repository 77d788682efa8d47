package generator

import (
	"strconv"
	"sync/atomic"
)

// UniformIntegerGenerator generates integers uniformly randomly
// from [lowerBound, upperBound]. It's safe for concurrent use.
type UniformIntegerGenerator struct {
	lowerBound int64
	upperBound int64
	interval   int64
	last       int64
}

func NewUniformIntegerGenerator(lowerBound, upperBound int64) *UniformIntegerGenerator {
	if lowerBound > upperBound {
		lowerBound, upperBound = upperBound, lowerBound
	}
	return &UniformIntegerGenerator{
		lowerBound: lowerBound,
		upperBound: upperBound,
		interval:   upperBound - lowerBound + 1,
		last:       lowerBound,
	}
}

func (self *UniformIntegerGenerator) NextInt() int64 {
	ret := NextInt64(self.interval) + self.lowerBound
	atomic.StoreInt64(&self.last, ret)
	return ret
}

func (self *UniformIntegerGenerator) LastInt() int64 {
	return atomic.LoadInt64(&self.last)
}

func (self *UniformIntegerGenerator) NextString() string {
	return strconv.FormatInt(self.NextInt(), 10)
}

func (self *UniformIntegerGenerator) LastString() string {
	return strconv.FormatInt(self.LastInt(), 10)
}

func (self *UniformIntegerGenerator) Mean() float64 {
	return float64(self.lowerBound+self.upperBound) / 2.0
}
