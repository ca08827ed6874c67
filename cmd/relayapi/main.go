package main

import "github.com/taskrelay/taskrelay/cmd/relayapi/cmd"

func main() {
	cmd.Execute()
}
