package main

import "fitlog/cmd"

func main() {
	cmd.Execute()
}
