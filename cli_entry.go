package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/3leaps/kfetch/internal/cli"
)

func init() {
	cli.Handler = run
}

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
