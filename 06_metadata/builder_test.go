package metadata

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"upsc-daily-pipeline/config"
	"upsc-daily-pipeline/types"

	"github.com/rs/zerolog"
)

var day = time.Date(2026, 10, 12, 0, 0, 0, 0, time.FixedZone("IST", 19800))

func TestBuildFixedMetadata(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	md := New(cfg, zerolog.Nop()).Build(day, nil)

	if md.Title != "Daily Current Affairs 12 October 2026 | UPSC & सरकारी परीक्षा | Top 10 News in Hindi" {
		t.Fatalf("unexpected title %q", md.Title)
	}
	if !strings.HasPrefix(md.Description, "📚 12 October 2026 के Top 10 Current Affairs") {
		t.Fatalf("unexpected description start %q", md.Description[:60])
	}
	if strings.Contains(md.Description, "आज की खबरें") {
		t.Fatalf("no headlines without a document")
	}
	if md.CategoryID != "27" || md.Visibility != "public" || md.ScheduledTimeUTC != "" {
		t.Fatalf("unexpected metadata %+v", md)
	}
	if len(md.Tags) != 12 || md.Tags[0] != "upsc current affairs" {
		t.Fatalf("unexpected tags %v", md.Tags)
	}

	md.Tags[0] = "changed"
	if cfg.Metadata.Tags[0] == "changed" {
		t.Fatalf("tags must be copied from config")
	}
}

func TestBuildListsHeadlines(t *testing.T) {
	t.Parallel()

	doc := &types.NewsDocument{Articles: []types.Article{
		{Title: "RBI keeps repo rate <unchanged>"},
		{Title: "  "},
		{Title: "ISRO launches navigation satellite"},
	}}
	md := New(config.Default(), zerolog.Nop()).Build(day, doc)
	if !strings.Contains(md.Description, "1. RBI keeps repo rate unchanged\n2. ISRO launches navigation satellite\n") {
		t.Fatalf("unexpected description:\n%s", md.Description)
	}
}

func TestBuildSchedulesPublishTime(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Metadata.ScheduleTimeIST = "07:00"
	b := New(cfg, zerolog.Nop())

	b.now = func() time.Time { return time.Date(2026, 10, 12, 0, 30, 0, 0, time.UTC) } // 06:00 IST
	md := b.Build(day, nil)
	if md.ScheduledTimeUTC != "2026-10-12T01:30:00Z" || md.Visibility != "private" {
		t.Fatalf("expected 07:00 IST schedule, got %+v", md)
	}

	b.now = func() time.Time { return time.Date(2026, 10, 12, 2, 30, 0, 0, time.UTC) } // 08:00 IST
	if md := b.Build(day, nil); md.ScheduledTimeUTC != "" || md.Visibility != "public" {
		t.Fatalf("past schedule should publish immediately, got %+v", md)
	}

	cfg.Metadata.ScheduleTimeIST = "7am"
	if md := b.Build(day, nil); md.ScheduledTimeUTC != "" {
		t.Fatalf("invalid time should be ignored")
	}
}

func TestTitleAndDescriptionLimits(t *testing.T) {
	t.Parallel()

	long := Title(strings.Repeat("x", 80))
	if utf8.RuneCountInString(long) != titleMaxChars || !strings.HasSuffix(long, "...") {
		t.Fatalf("title not capped: %d runes", utf8.RuneCountInString(long))
	}

	var many []string
	for i := 0; i < 200; i++ {
		many = append(many, strings.Repeat("समाचार ", 10))
	}
	d := Description("12 October 2026", many)
	if len(d) > descriptionMaxBytes || !utf8.ValidString(d) {
		t.Fatalf("description not capped cleanly: %d bytes", len(d))
	}
}
