package main

import "formify.app/cmd"

func main() {
	cmd.Execute()
}
