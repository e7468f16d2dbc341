package main

import "github.com/KaramelBytes/carlot-cli/cmd"

func main() {
	cmd.Execute()
}
