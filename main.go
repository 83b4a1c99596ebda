package main

import "github.com/meysamhadeli/depscope/cmd"

func main() {
	cmd.Execute()
}
