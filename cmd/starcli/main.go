package main

import (
	"github.com/starnotary/starnotary/cmd/starcli/cmd"
)

func main() {
	cmd.Execute()
}
