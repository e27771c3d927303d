package main

import "github.com/notargets/wavespeed/cmd"

func main() {
	cmd.Execute()
}
