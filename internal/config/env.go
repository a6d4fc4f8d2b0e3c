package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// envFiles are loaded in order. Variables already present in the process
// environment, including ones set by an earlier file, are never overwritten.
var envFiles = []string{".env", ".env.local"}

func loadEnvFiles() {
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			fmt.Fprintf(os.Stderr, "Note: %s could not be loaded: %v\n", path, err)
		}
	}
}
