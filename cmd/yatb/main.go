package main

import (
	"github.com/hhkbp2/yatb"
	"github.com/hhkbp2/yatb/binding"
)

func main() {
	binding.AddBindings()
	yatb.Main()
}
