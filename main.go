package main

import (
	"github.com/aetherchain/go-aether/cmd"
)

func main() {
	cmd.Execute()
}
