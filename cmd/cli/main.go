package main

import (
	"os"

	"github.com/campushire/campushire/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
