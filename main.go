package main

import "github.com/KaramelBytes/promodash/cmd"

func main() {
	cmd.Execute()
}
