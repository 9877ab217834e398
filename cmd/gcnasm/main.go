package main

import "github.com/halvard/gcnasm/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
