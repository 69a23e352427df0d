package main

import (
	"os"

	"github.com/doccheck/marketplace/internal/cli"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
