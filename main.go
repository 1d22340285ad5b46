// Package main provides the entry point for the colorcheck command.
package main

import "color-verifier/internal/cli"

func main() {
	cli.Execute()
}
