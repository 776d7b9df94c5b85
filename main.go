package main

import "github.com/mipsas/mipsas/cmd"

func main() {
	cmd.Execute()
}
