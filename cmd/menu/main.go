package main

import (
	"os"

	"github.com/Lixing-Zhang/restaurant-menu/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
