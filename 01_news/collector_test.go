package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"upsc-daily-pipeline/config"
	"upsc-daily-pipeline/types"

	"github.com/rs/zerolog"
)

type rssItem struct {
	title, description, link string
}

func rssBody(items ...rssItem) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>t</title>`)
	for _, it := range items {
		fmt.Fprintf(&b, "<item><title>%s</title><link>%s</link><description><![CDATA[%s]]></description><pubDate>Mon, 12 Oct 2026 08:00:00 +0530</pubDate></item>",
			it.title, it.link, it.description)
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}

func newTestCollector(t *testing.T, routes map[string]string) (*Collector, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.Error(w, "down", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.News.FetchTimeout = 5 * time.Second
	return New(cfg, zerolog.Nop()), srv
}

func TestFetchExcludesSportsEvenWithRelevanceKeyword(t *testing.T) {
	t.Parallel()

	c, srv := newTestCollector(t, map[string]string{
		"/hindu": rssBody(
			rssItem{"Cricket World Cup Final Result", "<p>India beat Australia; IPL stars shine</p>", "https://x/1"},
			rssItem{"RBI keeps repo rate unchanged", "<p>The <b>Reserve Bank</b> held rates steady.</p>", "https://x/2"},
		),
	})

	got := c.Fetch(context.Background(), []config.Feed{{Name: "hindu_national", URL: srv.URL + "/hindu"}})
	if len(got) != 1 {
		t.Fatalf("expected 1 article, got %d: %+v", len(got), got)
	}
	if got[0].Title != "RBI keeps repo rate unchanged" {
		t.Fatalf("unexpected article %q", got[0].Title)
	}
	if got[0].Summary != "The Reserve Bank held rates steady." {
		t.Fatalf("summary not stripped: %q", got[0].Summary)
	}
	if got[0].Source != "hindu_national" || got[0].Published == "" {
		t.Fatalf("missing source metadata: %+v", got[0])
	}
}

func TestFetchSkipsFailingFeed(t *testing.T) {
	t.Parallel()

	c, srv := newTestCollector(t, map[string]string{
		"/pib": rssBody(rssItem{"Cabinet approves new scheme", "Union cabinet approved a scheme", "https://pib/1"}),
	})

	got := c.Fetch(context.Background(), []config.Feed{
		{Name: "drishti_ias", URL: srv.URL + "/down"},
		{Name: "pib", URL: srv.URL + "/pib"},
		{Name: "mea_india", URL: "http://127.0.0.1:1/unreachable"},
	})
	if len(got) != 1 || got[0].Source != "pib" {
		t.Fatalf("expected the pib article only, got %+v", got)
	}
}

func TestFetchDedupFirstSeenAcrossFeeds(t *testing.T) {
	t.Parallel()

	shared := "Supreme Court rules on electoral bonds disclosure in landmark case"
	c, srv := newTestCollector(t, map[string]string{
		"/a": rssBody(rssItem{shared, "short", "https://a/1"}),
		"/b": rssBody(rssItem{strings.ToUpper(shared[:50]) + " and more", "a much longer summary about the court", "https://b/1"}),
	})

	got := c.Fetch(context.Background(), []config.Feed{
		{Name: "hindu_national", URL: srv.URL + "/a"},
		{Name: "indian_express_india", URL: srv.URL + "/b"},
	})
	if len(got) != 1 {
		t.Fatalf("expected duplicates collapsed, got %d", len(got))
	}
	if got[0].Link != "https://a/1" {
		t.Fatalf("first-seen article must win, got %s", got[0].Link)
	}
}

func TestFetchCapsEntriesPerFeedAndTruncatesSummary(t *testing.T) {
	t.Parallel()

	var items []rssItem
	for i := 0; i < 25; i++ {
		items = append(items, rssItem{fmt.Sprintf("Budget item number %02d", i), strings.Repeat("भारत ", 200), "https://x"})
	}
	c, srv := newTestCollector(t, map[string]string{"/f": rssBody(items...)})
	c.cfg.News.TopN = 100

	got := c.Fetch(context.Background(), []config.Feed{{Name: "livemint", URL: srv.URL + "/f"}})
	if len(got) != 20 {
		t.Fatalf("expected 20 entries, got %d", len(got))
	}
	for _, a := range got {
		if n := len([]rune(a.Summary)); n != 500 {
			t.Fatalf("summary should be truncated to 500 runes, got %d", n)
		}
	}
}

func TestRunEmptyIsNothingToPublish(t *testing.T) {
	t.Parallel()

	c, srv := newTestCollector(t, map[string]string{
		"/f": rssBody(rssItem{"Bollywood actor wins award", "movie gossip", "https://x"}),
	})
	c.cfg.News.Feeds = []config.Feed{{Name: "x", URL: srv.URL + "/f"}}

	doc, err := c.Run(context.Background(), time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrNoArticles) {
		t.Fatalf("expected ErrNoArticles, got %v", err)
	}
	if !doc.Empty() || doc.Date != "2026-10-12" || doc.Articles == nil {
		t.Fatalf("expected empty dated document, got %+v", doc)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	s := NewStore(t.TempDir())
	doc := types.NewNewsDocument(time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), []types.Article{
		{Title: "ISRO launch", Summary: "इसरो ने उपग्रह लॉन्च किया", Source: "pib"},
	})
	path, err := s.Save(doc)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(path, "daily_news_2026-10-12.json") {
		t.Fatalf("unexpected path %s", path)
	}
	got, err := s.Load("2026-10-12")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.DateDisplay != "12 October 2026" || got.TotalArticles != 1 || got.Articles[0].Summary != doc.Articles[0].Summary {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if _, err := s.Load("2026-10-13"); err == nil {
		t.Fatalf("expected error for missing date")
	}
}
