package main

import "brecha/cmd"

func main() {
	cmd.Execute()
}
