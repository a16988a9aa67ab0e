package main

import "github.com/dola-guide/dola-events/internal/cli"

func main() {
	cli.Execute()
}
