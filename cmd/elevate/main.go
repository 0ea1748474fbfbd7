package main

import "github.com/mcoot/elevate/internal/cli"

func main() {
	cli.Execute()
}
