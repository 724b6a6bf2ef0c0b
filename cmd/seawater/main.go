// Package main provides the seawater command line tool.
package main

import "go.ngs.io/seawater/internal/cli"

func main() {
	cli.Execute()
}
