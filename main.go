package main

import "github.com/they4kman/cursesweep/cmd"

func main() {
	cmd.Execute()
}
