package main

import "github.com/KaramelBytes/dqlens-cli/cmd"

func main() {
	cmd.Execute()
}
