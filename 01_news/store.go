package news

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"upsc-daily-pipeline/types"
)

// Store persists one news document per calendar date.
type Store struct {
	dir string
}

func NewStore(outputRoot string) *Store {
	return &Store{dir: filepath.Join(outputRoot, "news")}
}

func (s *Store) Path(date string) string {
	return filepath.Join(s.dir, fmt.Sprintf("daily_news_%s.json", date))
}

// Save overwrites any earlier document for the same date.
func (s *Store) Save(doc *types.NewsDocument) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create news dir: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal news: %w", err)
	}
	path := s.Path(doc.Date)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func (s *Store) Load(date string) (*types.NewsDocument, error) {
	path := s.Path(date)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc types.NewsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &doc, nil
}
