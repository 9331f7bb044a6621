package main

import "github.com/campuslink/campus/cli/internal/cmd"

func main() {
	cmd.Execute()
}
