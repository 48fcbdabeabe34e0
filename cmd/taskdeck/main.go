package main

import "github.com/existflow/taskdeck/internal/cli"

func main() {
	cli.Execute()
}
