package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultFeedsKeepPriorityOrder(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if len(cfg.News.Feeds) != 13 {
		t.Fatalf("expected 13 feeds, got %d", len(cfg.News.Feeds))
	}
	if cfg.News.Feeds[0].Name != "pib" {
		t.Fatalf("expected pib first, got %q", cfg.News.Feeds[0].Name)
	}
	if cfg.Audio.MaxChars != 4000 || cfg.Audio.Delay != 2*time.Second {
		t.Fatalf("unexpected audio defaults: %+v", cfg.Audio)
	}
	if cfg.Script.MinWords != 80 {
		t.Fatalf("expected min words 80, got %d", cfg.Script.MinWords)
	}
}

func TestLoadMergesYAMLOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
script:
  provider: groq
  model: llama-3.3-70b-versatile
  min_words: 100
audio:
  max_chars: 3000
  delay: 1500ms
news:
  feeds:
    - name: pib
      url: http://example.invalid/pib
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("GROQ_API_KEY", "gsk-test")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Script.Provider != "groq" || cfg.Script.MinWords != 100 {
		t.Fatalf("yaml not applied: %+v", cfg.Script)
	}
	if cfg.Script.Temperature != 0.7 {
		t.Fatalf("default temperature lost: %v", cfg.Script.Temperature)
	}
	if cfg.Audio.MaxChars != 3000 || cfg.Audio.Delay != 1500*time.Millisecond {
		t.Fatalf("audio overrides not applied: %+v", cfg.Audio)
	}
	if len(cfg.News.Feeds) != 1 {
		t.Fatalf("expected feed list replaced, got %d", len(cfg.News.Feeds))
	}
	if cfg.Script.GroqAPIKey != "gsk-test" {
		t.Fatalf("env override not applied")
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatalf("expected error for explicit missing config")
	}
}

func TestValidateListsAllMissingCredentials(t *testing.T) {
	t.Parallel()

	cfg := Default()
	err := cfg.Validate(Requirements{Script: true, Audio: true, Publish: true})
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
	for _, key := range []string{"GEMINI_API_KEY", "AZURE_SPEECH_KEY", "AZURE_SPEECH_REGION", "YOUTUBE_REFRESH_TOKEN"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("expected %s in %q", key, err.Error())
		}
	}
}

func TestValidateOnlyRequestedStages(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.applyEnvOverrides(func(key string) string {
		if key == "GEMINI_API_KEY" {
			return "g-key"
		}
		return ""
	})
	if err := cfg.Validate(Requirements{Script: true}); err != nil {
		t.Fatalf("script-only validation should pass: %v", err)
	}
}

func TestValidateUnknownProvider(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Audio.Provider = "espeak"
	if err := cfg.Validate(Requirements{Audio: true}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	cfg = Default()
	cfg.Visuals.BackgroundSource = "video"
	if err := cfg.Validate(Requirements{Visuals: true}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestValidateBounds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Config)
		req    Requirements
	}{
		{"two retries", func(c *Config) { c.Script.Retries = 2 }, Requirements{Script: true}},
		{"negative retries", func(c *Config) { c.Script.Retries = -1 }, Requirements{Script: true}},
		{"zero max chars", func(c *Config) { c.Audio.MaxChars = 0 }, Requirements{Audio: true}},
		{"zero height", func(c *Config) { c.Visuals.Height = 0 }, Requirements{Visuals: true}},
	}
	for _, tc := range cases {
		cfg := Default()
		cfg.Script.GeminiAPIKey = "k"
		cfg.Script.GroqAPIKey = "k"
		cfg.Audio.AzureKey = "k"
		tc.mutate(cfg)
		if err := cfg.Validate(tc.req); !errors.Is(err, ErrInvalid) {
			t.Fatalf("%s: expected ErrInvalid, got %v", tc.name, err)
		}
	}

	cfg := Default()
	cfg.Script.Retries = 0
	cfg.Script.GeminiAPIKey = "k"
	cfg.Script.GroqAPIKey = "k"
	if err := cfg.Validate(Requirements{Script: true}); err != nil {
		t.Fatalf("zero retries is allowed: %v", err)
	}
}

func TestLocationFallsBackToIST(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Schedule.Timezone = "Mars/Olympus"
	_, offset := time.Date(2026, 1, 1, 0, 0, 0, 0, cfg.Location()).Zone()
	if offset != 19800 {
		t.Fatalf("expected +05:30 offset, got %d", offset)
	}
}
