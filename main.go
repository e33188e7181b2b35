package main

import "github.com/KaramelBytes/strokeprep/cmd"

func main() {
	cmd.Execute()
}
