package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"upsc-daily-pipeline/config"
	"upsc-daily-pipeline/types"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"
)

// ErrNoArticles means no feed produced a relevant article today.
// Callers treat it as "nothing to publish", not as a failure.
var ErrNoArticles = errors.New("no relevant articles found")

// Collector polls the configured feeds and builds the day's news document
type Collector struct {
	cfg        *config.Config
	httpClient *http.Client
	filter     *Filter
	log        zerolog.Logger
}

// New creates a new Collector
func New(cfg *config.Config, log zerolog.Logger) *Collector {
	return &Collector{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.News.FetchTimeout},
		filter:     NewFilter(cfg.News.RelevanceKeywords, cfg.News.ExclusionKeywords),
		log:        log,
	}
}

// Run collects articles from every feed and stamps them with day.
// With zero relevant articles it returns an empty document and ErrNoArticles.
func (c *Collector) Run(ctx context.Context, day time.Time) (*types.NewsDocument, error) {
	articles := c.Fetch(ctx, c.cfg.News.Feeds)
	doc := types.NewNewsDocument(day, articles)
	if doc.Empty() {
		return doc, ErrNoArticles
	}
	c.log.Info().Int("articles", doc.TotalArticles).Msg("✅ relevant articles collected")
	return doc, nil
}

// Fetch polls feeds in order, then deduplicates and ranks the relevant entries.
// A feed that cannot be fetched contributes nothing.
func (c *Collector) Fetch(ctx context.Context, feeds []config.Feed) []types.Article {
	var all []types.Article
	for _, f := range feeds {
		feed, err := c.fetchFeed(ctx, f.URL)
		if err != nil {
			c.log.Warn().Err(err).Str("source", f.Name).Msg("feed skipped")
			continue
		}

		count := 0
		for i, item := range feed.Items {
			if i >= c.cfg.News.MaxEntriesPerFeed {
				break
			}
			a, ok := c.toArticle(f.Name, item)
			if !ok {
				continue
			}
			all = append(all, a)
			count++
		}
		c.log.Info().Str("source", f.Name).Int("relevant", count).Msg("feed polled")
	}

	unique := Dedup(all, c.cfg.News.DedupPrefixChars)
	c.log.Debug().Int("before", len(all)).Int("after", len(unique)).Msg("deduplicated")
	return Rank(unique, c.cfg.News.PrioritySources, c.cfg.News.TopN)
}

func (c *Collector) fetchFeed(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.News.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return feed, nil
}

// toArticle classifies on the full stripped summary and stores it truncated.
func (c *Collector) toArticle(source string, item *gofeed.Item) (types.Article, bool) {
	raw := item.Description
	if raw == "" {
		raw = item.Content
	}
	summary := StripHTML(raw)

	if !c.filter.Relevant(item.Title, summary) {
		return types.Article{}, false
	}
	return types.Article{
		Title:     item.Title,
		Summary:   truncateRunes(summary, c.cfg.News.SummaryMaxChars),
		Link:      item.Link,
		Source:    source,
		Published: item.Published,
	}, true
}

// StripHTML returns the text content of an HTML fragment.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return doc.Text()
}

func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
