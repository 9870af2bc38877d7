package main

import (
	"github.com/rawbytedev/binpack/cmd/binpack/cmd"
)

func main() {
	cmd.Execute()
}
