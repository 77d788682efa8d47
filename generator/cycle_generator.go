package generator

import (
	"strconv"
)

// cycleIndex maps a 1-based counter value to a 1-based index of a cycle
// of the given size: 1, 2, ..., size, 1, 2, ...
// The arithmetic is unsigned so the result stays in [1, size] for any
// counter value, including 0 after a wrap around.
func cycleIndex(counter uint64, size uint64) int {
	return int((counter-1)%size) + 1
}

// CycleGenerator hands out the indices 1..size in round robin order to
// any number of concurrent callers, driven by a shared counter starting at 1.
type CycleGenerator struct {
	counter *CounterGenerator
	size    uint64
}

func NewCycleGenerator(size int) *CycleGenerator {
	if size <= 0 {
		panic("cycle size must be positive")
	}
	return &CycleGenerator{
		counter: NewCounterGenerator(1),
		size:    uint64(size),
	}
}

// Next draws the next counter value and returns it with its index.
func (self *CycleGenerator) Next() (uint64, int) {
	counter := self.counter.NextInt()
	return counter, cycleIndex(counter, self.size)
}

func (self *CycleGenerator) NextIndex() int {
	_, index := self.Next()
	return index
}

func (self *CycleGenerator) Size() int {
	return int(self.size)
}

func (self *CycleGenerator) NextString() string {
	return strconv.Itoa(self.NextIndex())
}

func (self *CycleGenerator) LastString() string {
	return strconv.Itoa(cycleIndex(self.counter.LastInt(), self.size))
}
