package main

import (
	"os"

	"smartlib/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
