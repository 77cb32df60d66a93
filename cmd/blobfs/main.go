package main

import "github.com/c2fo/blobfs/cmd/blobfs/commands"

func main() {
	commands.Execute()
}
