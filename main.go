package main

import (
	"os"

	"cxt/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
