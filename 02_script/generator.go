package script

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"upsc-daily-pipeline/config"
)

// ErrEmptyResponse is returned when the model answers with no usable text.
var ErrEmptyResponse = errors.New("model returned no text")

// Request is one prompt plus generation parameters.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Generator turns a prompt into text. Any non-success status or malformed
// response must come back as an error.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// NewGenerator builds the configured provider. Gemini holds a client that
// should be closed; callers check for io.Closer.
func NewGenerator(ctx context.Context, cfg *config.Config) (Generator, error) {
	switch cfg.Script.Provider {
	case "gemini":
		g, err := NewGemini(ctx, cfg.Script.GeminiAPIKey, cfg.Script.Model)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "groq":
		return NewChat(cfg.Script.GroqAPIKey, cfg.Script.BaseURL, cfg.Script.Model), nil
	default:
		return nil, fmt.Errorf("%w: unknown script provider %q", config.ErrInvalid, cfg.Script.Provider)
	}
}

// cleanNarration strips markdown a model sometimes wraps its answer in.
func cleanNarration(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```text")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.ReplaceAll(s, "**", "")

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		t := strings.TrimSpace(line)
		t = strings.TrimLeft(t, "#")
		t = strings.TrimSpace(t)
		if strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]") {
			continue
		}
		lines = append(lines, t)
	}
	return collapseBlankLines(strings.Join(lines, "\n"))
}

func collapseBlankLines(s string) string {
	var out []string
	blank := false
	for _, line := range strings.Split(s, "\n") {
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
