package main

import "github.com/naka-gawa/github-release-stats/cmd"

func main() {
	cmd.Execute()
}
