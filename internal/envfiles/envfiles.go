// Package envfiles reads dotenv files the way the dashboard build does:
// .env, .env.local, .env.<mode>, .env.<mode>.local, later files overriding
// earlier ones, with the real process environment overriding all of them.
package envfiles

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Candidates returns the file names consulted for mode, lowest precedence first.
func Candidates(mode string) []string {
	names := []string{".env", ".env.local"}
	if mode != "" {
		names = append(names, ".env."+mode, ".env."+mode+".local")
	}
	return names
}

// Read merges every existing candidate file in dir. Missing files are
// skipped; a file that exists but cannot be parsed is an error.
func Read(dir, mode string) (map[string]string, error) {
	merged := map[string]string{}

	for _, name := range Candidates(mode) {
		path := filepath.Join(dir, name)

		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}

		values, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		maps.Copy(merged, values)
	}

	return merged, nil
}

// Overlay returns files overridden by process. Neither input is modified.
func Overlay(files, process map[string]string) map[string]string {
	out := make(map[string]string, len(files)+len(process))
	maps.Copy(out, files)
	maps.Copy(out, process)
	return out
}
