package generator

import (
	"strconv"
)

// IntegerGenerator generates int64 values following some distribution,
// e.g. the simulated query delays in milliseconds.
type IntegerGenerator interface {
	Generator
	NextInt() int64
	LastInt() int64

	Mean() float64
}

// ConstantIntegerGenerator always returns the same value.
type ConstantIntegerGenerator struct {
	value int64
}

func NewConstantIntegerGenerator(i int64) *ConstantIntegerGenerator {
	return &ConstantIntegerGenerator{
		value: i,
	}
}

func (self *ConstantIntegerGenerator) NextInt() int64 {
	return self.value
}

func (self *ConstantIntegerGenerator) LastInt() int64 {
	return self.value
}

func (self *ConstantIntegerGenerator) NextString() string {
	return strconv.FormatInt(self.value, 10)
}

func (self *ConstantIntegerGenerator) LastString() string {
	return strconv.FormatInt(self.value, 10)
}

func (self *ConstantIntegerGenerator) Mean() float64 {
	return float64(self.value)
}
