package main

import (
	"github.com/coinpit/coinpit/internal/cli"
)

func main() {
	cli.Execute()
}
