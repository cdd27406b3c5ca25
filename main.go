package main

import "github.com/easel-app/easel/cmd"

func main() {
	cmd.Execute()
}
