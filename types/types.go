package types

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date key every artifact is named by.
const DateLayout = "2006-01-02"

// DisplayLayout renders the date the way it is spoken in the intro.
const DisplayLayout = "02 January 2006"

// Article holds one relevant news entry ready for scripting
type Article struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Link      string `json:"link"`
	Source    string `json:"source"`
	Published string `json:"published"`
}

// NewsDocument is the persisted result of one day's news collection
type NewsDocument struct {
	Date          string    `json:"date"`
	DateDisplay   string    `json:"date_hindi"`
	TotalArticles int       `json:"total_articles"`
	Articles      []Article `json:"articles"`
}

// NewNewsDocument stamps articles with the date they were collected for.
func NewNewsDocument(day time.Time, articles []Article) *NewsDocument {
	if articles == nil {
		articles = []Article{}
	}
	return &NewsDocument{
		Date:          day.Format(DateLayout),
		DateDisplay:   day.Format(DisplayLayout),
		TotalArticles: len(articles),
		Articles:      articles,
	}
}

// Empty reports whether there is nothing to publish.
func (d *NewsDocument) Empty() bool {
	return d == nil || len(d.Articles) == 0
}

// BodyKind tells whether an item body came from the model or from the fallback template
type BodyKind string

const (
	BodyGenerated BodyKind = "generated"
	BodyFallback  BodyKind = "fallback"
)

// ItemBody is the narration for one article: Generated(text) or Fallback(text).
type ItemBody struct {
	Index  int      `json:"index"`
	Kind   BodyKind `json:"kind"`
	Text   string   `json:"text"`
	Reason string   `json:"reason,omitempty"`
}

// Generated wraps model output.
func Generated(index int, text string) ItemBody {
	return ItemBody{Index: index, Kind: BodyGenerated, Text: text}
}

// Fallback wraps deterministic template text and the reason generation was not used.
func Fallback(index int, text, reason string) ItemBody {
	return ItemBody{Index: index, Kind: BodyFallback, Text: text, Reason: reason}
}

// NarrationScript is intro + item bodies + outro, in article order
type NarrationScript struct {
	Date   string     `json:"date"`
	Intro  string     `json:"intro"`
	Items  []ItemBody `json:"items"`
	Outro  string     `json:"outro"`
	Text   string     `json:"-"`
	IsBulk bool       `json:"is_bulk"`
}

// FallbackCount returns how many item bodies were not generated.
func (s *NarrationScript) FallbackCount() int {
	n := 0
	for _, it := range s.Items {
		if it.Kind == BodyFallback {
			n++
		}
	}
	return n
}

// NarrationAudio is the single durable audio artifact for a date
type NarrationAudio struct {
	Path          string   `json:"path"`
	ChunkCount    int      `json:"chunk_count"`
	SkippedChunks []int    `json:"skipped_chunks"`
	ChunkFiles    []string `json:"chunk_files"`
}

// Visuals holds the still images for one date
type Visuals struct {
	Background string `json:"background"`
	Thumbnail  string `json:"thumbnail"`
}

// VideoArtifact is the muxed MP4
type VideoArtifact struct {
	Path        string  `json:"path"`
	DurationSec float64 `json:"duration_sec"`
}

// VideoMetadata holds all YouTube upload metadata
type VideoMetadata struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Tags             []string `json:"tags"`
	CategoryID       string   `json:"category_id"`
	Visibility       string   `json:"visibility"`
	ScheduledTimeUTC string   `json:"scheduled_time_utc"`
}

// Publication is what the upload API handed back
type Publication struct {
	VideoID string `json:"video_id"`
	URL     string `json:"url"`
}

// PipelineState tracks the full state of one pipeline run
type PipelineState struct {
	RunID         string          `json:"run_id"`
	Date          string          `json:"date"`
	StartedAt     string          `json:"started_at"`
	CompletedAt   string          `json:"completed_at"`
	Stage         string          `json:"stage"`
	NewsFile      string          `json:"news_file,omitempty"`
	ArticleCount  int             `json:"article_count"`
	ScriptFile    string          `json:"script_file,omitempty"`
	FallbackItems int             `json:"fallback_items"`
	Audio         *NarrationAudio `json:"audio,omitempty"`
	Visuals       *Visuals        `json:"visuals,omitempty"`
	Video         *VideoArtifact  `json:"video,omitempty"`
	Metadata      *VideoMetadata  `json:"metadata,omitempty"`
	YouTubeID     string          `json:"youtube_id,omitempty"`
	YouTubeURL    string          `json:"youtube_url,omitempty"`
	Error         string          `json:"error,omitempty"`
}

// ParseDate accepts a YYYY-MM-DD string in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be YYYY-MM-DD: %w", s, err)
	}
	return d, nil
}
