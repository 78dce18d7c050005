package main

import "github.com/nexithium/nexithium/cmd"

func main() {
	cmd.Execute()
}
