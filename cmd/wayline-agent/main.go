package main

import (
	"os"

	"github.com/joho/godotenv"
	_ "go.uber.org/automaxprocs"

	"github.com/wayline-io/wayline/cmd/wayline-agent/app"
)

func main() {
	// A local .env is convenient for credentials during development; absence
	// is not an error.
	_ = godotenv.Load()

	if err := app.NewApp().Run(); err != nil {
		os.Exit(1)
	}
}
