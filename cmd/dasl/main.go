package main

import "github.com/n0-computer/dasl/cmd/dasl/cmd"

func main() {
	cmd.Execute()
}
