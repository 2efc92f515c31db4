package main

import "github.com/notargets/gorcd/cmd"

func main() {
	cmd.Execute()
}
