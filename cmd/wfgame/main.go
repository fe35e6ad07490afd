package main

import "github.com/mcoot/warfront/internal/cli"

func main() {
	cli.Execute()
}
