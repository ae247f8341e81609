package main

import "github.com/example/souqly/internal/cmd"

func main() {
	cmd.Execute()
}
