package script

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"upsc-daily-pipeline/types"
)

// Path is where the finished script for date lives under the output root.
func Path(outputRoot, date string) string {
	return filepath.Join(outputRoot, "scripts", fmt.Sprintf("script_%s.txt", date))
}

// Save writes only the spoken text, overwriting any earlier script for the date.
func Save(outputRoot string, s *types.NarrationScript) (string, error) {
	path := Path(outputRoot, s.Date)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create scripts dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(s.Text), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// Load reads a saved script back. Item structure is not recoverable from
// the plain-text file, so only Date and Text are set.
func Load(outputRoot, date string) (*types.NarrationScript, error) {
	path := Path(outputRoot, date)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, fmt.Errorf("script %s is empty", path)
	}
	return &types.NarrationScript{Date: date, Text: text}, nil
}
