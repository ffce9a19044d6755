package main

import (
	"os"

	"github.com/zodiacal/horoscope-api/cmd/horoscope/commands"
)

// main is the entry point for the horoscope CLI
// ⭐ Unified entry point: go run ./cmd/horoscope [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
