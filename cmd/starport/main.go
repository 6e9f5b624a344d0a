package main

import "github.com/andrescamacho/starport-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
