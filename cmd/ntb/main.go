package main

import "github.com/redjax/notetabs/cmd"

func main() {
	cmd.Execute()
}
