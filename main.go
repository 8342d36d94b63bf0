package main

import "github.com/srinivastejavt/podcast-clipper/internal/cli"

func main() {
	cli.Main()
}
