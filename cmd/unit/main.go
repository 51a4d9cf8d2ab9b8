package main

import (
	"os"

	"github.com/forthkit/unit/internal/cli"
)

func main() {
	os.Exit(cli.Execute(cli.NewRootCommand()))
}
