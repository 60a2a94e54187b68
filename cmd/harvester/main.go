// Package main is the harvester CLI entry point.
package main

import "github.com/pageharvest/harvester/cmd"

func main() {
	cmd.Execute()
}
