package metadata

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"upsc-daily-pipeline/config"
	"upsc-daily-pipeline/types"

	"github.com/rs/zerolog"
)

const (
	titleMaxChars       = 100
	descriptionMaxBytes = 5000
	// YouTube rejects a publishAt that is too close to the upload.
	minScheduleLead = 15 * time.Minute
)

const descriptionBody = `आज के महत्वपूर्ण समाचार जो UPSC और सभी सरकारी परीक्षाओं के लिए जरूरी हैं।

✅ UPSC Prelims & Mains के लिए relevant
✅ सरल हिंदी में explanation
✅ हर खबर की UPSC relevance
✅ Key facts, dates और names

📌 Topics Covered:
- Government Policies & Schemes
- International Relations
- Economy & Budget
- Environment & Climate
- Science & Technology
- Social Issues
- Important Appointments
- Supreme Court Judgments`

const descriptionFooter = `🔔 Subscribe करें और Bell Icon दबाएं!
रोज़ सुबह 7 बजे नई video

#UPSC #CurrentAffairs #Hindi #SarkariExam #IAS #UPSC2026 #DailyNews #भारतीयसमाचार #सरकारीपरीक्षा #आईएएस`

// Builder produces the upload metadata for one day's video
type Builder struct {
	cfg *config.Config
	now func() time.Time
	log zerolog.Logger
}

// New creates a new Builder
func New(cfg *config.Config, log zerolog.Logger) *Builder {
	return &Builder{cfg: cfg, now: time.Now, log: log}
}

// Build fills title, description and tags for day. doc is optional; when
// present its headlines are listed in the description.
func (b *Builder) Build(day time.Time, doc *types.NewsDocument) *types.VideoMetadata {
	display := day.Format(types.DisplayLayout)

	md := &types.VideoMetadata{
		Title:       Title(display),
		Description: Description(display, headlines(doc, b.cfg.Script.MaxItems)),
		Tags:        append([]string(nil), b.cfg.Metadata.Tags...),
		CategoryID:  b.cfg.Metadata.CategoryID,
		Visibility:  b.cfg.Upload.Visibility,
	}

	if at, ok := b.publishAt(day); ok {
		md.ScheduledTimeUTC = at.UTC().Format(time.RFC3339)
		// scheduled videos must start private
		md.Visibility = "private"
	}

	b.log.Info().Str("title", md.Title).Int("tags", len(md.Tags)).Str("publish_at", md.ScheduledTimeUTC).Msg("✅ Metadata ready")
	return md
}

func Title(dateDisplay string) string {
	t := fmt.Sprintf("Daily Current Affairs %s | UPSC & सरकारी परीक्षा | Top 10 News in Hindi", dateDisplay)
	if utf8.RuneCountInString(t) > titleMaxChars {
		r := []rune(t)
		t = string(r[:titleMaxChars-3]) + "..."
	}
	return t
}

func Description(dateDisplay string, headlines []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📚 %s के Top 10 Current Affairs\n\n", dateDisplay)
	sb.WriteString(descriptionBody)
	sb.WriteString("\n\n")
	if len(headlines) > 0 {
		sb.WriteString("📰 आज की खबरें:\n")
		for i, h := range headlines {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, h)
		}
		sb.WriteString("\n")
	}
	sb.WriteString(descriptionFooter)
	return truncateBytes(sb.String(), descriptionMaxBytes)
}

func headlines(doc *types.NewsDocument, n int) []string {
	if doc == nil {
		return nil
	}
	var out []string
	for _, a := range doc.Articles {
		if len(out) == n {
			break
		}
		// angle brackets are rejected in descriptions
		t := strings.NewReplacer("<", "", ">", "").Replace(strings.TrimSpace(a.Title))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// publishAt resolves metadata.schedule_time_ist ("HH:MM") on the video's
// date. A time that has already passed means publish on upload.
func (b *Builder) publishAt(day time.Time) (time.Time, bool) {
	hhmm := b.cfg.Metadata.ScheduleTimeIST
	if hhmm == "" {
		return time.Time{}, false
	}
	clock, err := time.Parse("15:04", hhmm)
	if err != nil {
		b.log.Warn().Str("value", hhmm).Msg("invalid schedule_time_ist, publishing immediately")
		return time.Time{}, false
	}
	loc := b.cfg.Location()
	at := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
	if at.Before(b.now().Add(minScheduleLead)) {
		return time.Time{}, false
	}
	return at, true
}

func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
