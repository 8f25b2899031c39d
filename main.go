package main

import "wtldr/cli"

const (
	Version = "v0.1.0"
	License = "Apache-2.0"
)

func main() {
	cli.Execute(Version)
}
