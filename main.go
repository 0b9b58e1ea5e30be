package main

import "github.com/reminora/photovec/cmd"

func main() {
	cmd.Execute()
}
