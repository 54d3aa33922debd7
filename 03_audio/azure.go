package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// AzureSynthesizer calls the Azure Speech text-to-speech REST endpoint.
type AzureSynthesizer struct {
	endpoint   string
	key        string
	format     string
	httpClient *http.Client
}

// NewAzure targets https://{region}.tts.speech.microsoft.com unless endpoint is set.
func NewAzure(key, region, endpoint, format string, timeout time.Duration) *AzureSynthesizer {
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", region)
	}
	return &AzureSynthesizer{
		endpoint:   endpoint,
		key:        key,
		format:     format,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *AzureSynthesizer) Synthesize(ctx context.Context, text string, voice Voice, outFile string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(SSML(text, voice)))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", s.key)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", s.format)
	req.Header.Set("User-Agent", "upsc-daily-pipeline")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("azure tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("azure tts status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return writeAtomic(outFile, func(f *os.File) error {
		n, err := io.Copy(f, resp.Body)
		if err != nil {
			return fmt.Errorf("read audio: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("azure tts returned empty audio")
		}
		return nil
	})
}
