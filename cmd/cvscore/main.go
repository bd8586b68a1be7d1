package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine, the CLI runs on flags alone.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
