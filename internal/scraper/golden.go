package scraper

import (
	"fmt"
	"os"
	"path/filepath"
)

// writeGoldenFiles creates goldenDir and writes each map entry as an HTML file.
func writeGoldenFiles(goldenDir string, files map[string][]byte) error {
	if err := os.MkdirAll(goldenDir, 0o750); err != nil {
		return fmt.Errorf("failed to create golden dir: %w", err)
	}
	for key, body := range files {
		if err := os.WriteFile(filepath.Join(goldenDir, key+".html"), body, 0o600); err != nil {
			return fmt.Errorf("failed to write %s golden file: %w", key, err)
		}
	}
	return nil
}
