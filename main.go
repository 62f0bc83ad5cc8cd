package main

import (
	"github.com/joho/godotenv"

	"verigo/cmd"
)

func main() {
	// Load .env if it exists (ignore errors if it doesn't)
	_ = godotenv.Load()

	cmd.Execute()
}
