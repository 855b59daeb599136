package main

import "github.com/KaramelBytes/reelstats-cli/cmd"

func main() {
	cmd.Execute()
}
