package main

import "github.com/deltav-sim/deltav/cmd/deltav/cmd"

func main() {
	cmd.Execute()
}
