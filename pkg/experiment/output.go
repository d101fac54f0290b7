package experiment

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteRunData serializes the run data as a single JSON object at path,
// creating parent directories as needed.
func WriteRunData(path string, data *RunData) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding run data: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
