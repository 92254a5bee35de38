package main

import (
	"os"
)

func main() {
	os.Exit(newCLI(os.Stdout, os.Stderr).Run(os.Args[1:]))
}
