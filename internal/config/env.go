package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/mdcaption/internal/foundation/errors"
)

// envFileNames are tried in order. godotenv never overrides a variable that
// is already set, so the first file to define a key wins.
var envFileNames = []string{".env.local", ".env"}

// loadEnvFiles loads the .env files found in dir and returns their paths.
// Missing files are not an error.
func loadEnvFiles(dir string) ([]string, error) {
	var loaded []string
	for _, name := range envFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, errors.WrapError(err, errors.CategoryConfig, "failed to load environment file").
				WithContext("path", path).
				Build()
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}
