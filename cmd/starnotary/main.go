package main

import (
	"github.com/starnotary/starnotary/cmd/starnotary/cmd"
)

func main() {
	cmd.Execute()
}
