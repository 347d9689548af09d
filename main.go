package main

import "modgate/cmd"

func main() {
	cmd.Execute()
}
