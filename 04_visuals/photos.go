package visuals

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"upsc-daily-pipeline/config"

	"github.com/rs/zerolog"
)

const userAgent = "Mozilla/5.0 (compatible; UPSCDailyPipeline/1.0)"

// PhotoFetcher downloads one landscape photo for query into outFile.
type PhotoFetcher interface {
	Fetch(ctx context.Context, query, outFile string) error
}

// NewPhotoFetcher returns nil when the background source is the gradient.
func NewPhotoFetcher(cfg *config.Config, log zerolog.Logger) PhotoFetcher {
	if cfg.Visuals.BackgroundSource != "stock_photo" {
		return nil
	}
	client := &http.Client{Timeout: 60 * time.Second}
	switch cfg.Visuals.PhotoProvider {
	case "pexels":
		return &PexelsFetcher{baseURL: "https://api.pexels.com/v1", apiKey: cfg.Visuals.PexelsAPIKey, httpClient: client}
	case "pollinations":
		return &PollinationsFetcher{baseURL: "https://image.pollinations.ai", width: cfg.Visuals.Width, height: cfg.Visuals.Height,
			attempts: 3, backoff: 3 * time.Second, httpClient: client, log: log}
	default:
		return &WikipediaFetcher{baseURL: "https://en.wikipedia.org/api/rest_v1", httpClient: client}
	}
}

// PexelsFetcher searches the Pexels photo API.
type PexelsFetcher struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func (p *PexelsFetcher) Fetch(ctx context.Context, query, outFile string) error {
	searchURL := fmt.Sprintf("%s/search?query=%s&per_page=1&orientation=landscape", p.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pexels search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pexels returned %d", resp.StatusCode)
	}

	var result struct {
		Photos []struct {
			Src struct {
				Original  string `json:"original"`
				Landscape string `json:"landscape"`
				Large2x   string `json:"large2x"`
			} `json:"src"`
		} `json:"photos"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode pexels response: %w", err)
	}
	if len(result.Photos) == 0 {
		return fmt.Errorf("no pexels photo for %q", query)
	}

	src := result.Photos[0].Src
	imgURL := src.Large2x
	if imgURL == "" {
		imgURL = src.Original
	}
	return downloadFile(ctx, p.httpClient, imgURL, outFile)
}

// WikipediaFetcher uses the lead image of a Wikipedia page summary.
type WikipediaFetcher struct {
	baseURL    string
	httpClient *http.Client
}

func (w *WikipediaFetcher) Fetch(ctx context.Context, query, outFile string) error {
	summaryURL := fmt.Sprintf("%s/page/summary/%s", w.baseURL, url.PathEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, summaryURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "UPSCDailyPipeline/1.0 (educational)")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wikipedia returned %d", resp.StatusCode)
	}

	var result struct {
		Thumbnail struct {
			Source string `json:"source"`
		} `json:"thumbnail"`
		OriginalImage struct {
			Source string `json:"source"`
		} `json:"originalimage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}

	imgURL := result.OriginalImage.Source
	if imgURL == "" {
		imgURL = result.Thumbnail.Source
	}
	if imgURL == "" {
		return fmt.Errorf("no image in Wikipedia result for %q", query)
	}
	return downloadFile(ctx, w.httpClient, imgURL, outFile)
}

// PollinationsFetcher generates an image from a text prompt (no key needed).
type PollinationsFetcher struct {
	baseURL       string
	width, height int
	attempts      int
	backoff       time.Duration
	httpClient    *http.Client
	log           zerolog.Logger
}

func (p *PollinationsFetcher) Fetch(ctx context.Context, query, outFile string) error {
	prompt := query + ", photorealistic, wide landscape, no text, no watermark"
	imageURL := fmt.Sprintf("%s/prompt/%s?width=%d&height=%d&nologo=true&model=flux&seed=%d",
		p.baseURL, url.PathEscape(prompt), p.width, p.height, seed(query+"|"+filepath.Base(outFile)))

	var err error
	for attempt := 1; attempt <= p.attempts; attempt++ {
		err = downloadFile(ctx, p.httpClient, imageURL, outFile)
		if err == nil {
			return nil
		}
		p.log.Warn().Err(err).Int("attempt", attempt).Msg("pollinations fetch failed")
		if attempt < p.attempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * p.backoff):
			}
		}
	}
	return fmt.Errorf("pollinations fetch failed after %d attempts: %w", p.attempts, err)
}

// seed depends only on the query and the file name (photo_<date>.jpg), so a
// re-run for a date asks for the same image.
func seed(s string) int {
	h := 7
	for _, r := range s {
		h = (h*31 + int(r)) % 1000003
	}
	return h
}

func downloadFile(ctx context.Context, client *http.Client, fileURL, outPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
	if err != nil {
		return err
	}
	// error pages come back tiny
	if len(data) < 1000 {
		return fmt.Errorf("file too small (%d bytes)", len(data))
	}
	return os.WriteFile(outPath, data, 0o644)
}
