package main

import "github.com/tokenforge/forgectl/cmd"

func main() {
	cmd.Execute()
}
