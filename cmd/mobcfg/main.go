package main

import "github.com/cbout22/mobcfg/internal/cli"

func main() {
	cli.Execute()
}
