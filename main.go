package main

import "github.com/twiced-technology-gmbh/tasklines/cmd"

func main() {
	cmd.Execute()
}
