package main

import (
	"github.com/joho/godotenv"

	"docrag/internal/cli"
)

func main() {
	// Optional .env for OLLAMA_HOST / DOCRAG_* overrides; missing file is fine.
	_ = godotenv.Load()

	cli.Execute()
}
