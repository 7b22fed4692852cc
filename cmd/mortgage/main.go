package main

import (
	"os"

	"github.com/cloud-ru/mcp-mortgage-go/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
