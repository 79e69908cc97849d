package main

import (
	"os"

	"github.com/tacogips/esops/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
