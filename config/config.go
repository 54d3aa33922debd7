package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingCredential is returned by Validate when a required secret is absent.
	ErrMissingCredential = errors.New("missing required credential")
	// ErrInvalid marks a setting that names something the pipeline does not know.
	ErrInvalid = errors.New("invalid configuration")
)

const (
	configPathEnv = "UPSC_CONFIG"
	defaultPath   = "config.yaml"
)

type Config struct {
	News     NewsConfig     `yaml:"news"`
	Script   ScriptConfig   `yaml:"script"`
	Audio    AudioConfig    `yaml:"audio"`
	Visuals  VisualsConfig  `yaml:"visuals"`
	Render   RenderConfig   `yaml:"render"`
	Metadata MetadataConfig `yaml:"metadata"`
	Upload   UploadConfig   `yaml:"upload"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Paths    PathsConfig    `yaml:"paths"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// Feed is one RSS source; order matters for first-seen deduplication.
type Feed struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type NewsConfig struct {
	Feeds             []Feed        `yaml:"feeds"`
	MaxEntriesPerFeed int           `yaml:"max_entries_per_feed"`
	SummaryMaxChars   int           `yaml:"summary_max_chars"`
	DedupPrefixChars  int           `yaml:"dedup_prefix_chars"`
	TopN              int           `yaml:"top_n"`
	PrioritySources   []string      `yaml:"priority_sources"`
	RelevanceKeywords []string      `yaml:"relevance_keywords"`
	ExclusionKeywords []string      `yaml:"exclusion_keywords"`
	FetchTimeout      time.Duration `yaml:"fetch_timeout"`
	UserAgent         string        `yaml:"user_agent"`
}

type ScriptConfig struct {
	Mode          string        `yaml:"mode"`     // per_item | bulk
	Provider      string        `yaml:"provider"` // gemini | groq
	Model         string        `yaml:"model"`
	BaseURL       string        `yaml:"base_url"`
	Temperature   float64       `yaml:"temperature"`
	ItemMaxTokens int           `yaml:"item_max_tokens"`
	BulkMaxTokens int           `yaml:"bulk_max_tokens"`
	MaxItems      int           `yaml:"max_items"`
	BulkArticles  int           `yaml:"bulk_articles"`
	MinWords      int           `yaml:"min_words"`
	Retries       int           `yaml:"retries"`
	Timeout       time.Duration `yaml:"timeout"`
	GeminiAPIKey  string        `yaml:"-"`
	GroqAPIKey    string        `yaml:"-"`
}

type AudioConfig struct {
	Provider     string        `yaml:"provider"` // azure | polly | command
	Voice        string        `yaml:"voice"`
	Language     string        `yaml:"language"`
	Rate         string        `yaml:"rate"`
	Pitch        string        `yaml:"pitch"`
	OutputFormat string        `yaml:"output_format"`
	MaxChars     int           `yaml:"max_chars"`
	Pacing       string        `yaml:"pacing"` // fixed | token_bucket | none
	Delay        time.Duration `yaml:"delay"`
	Burst        int           `yaml:"burst"`
	Timeout      time.Duration `yaml:"timeout"`
	Endpoint     string        `yaml:"endpoint"`
	Command      string        `yaml:"command"`
	PollyVoice   string        `yaml:"polly_voice"`
	PollyEngine  string        `yaml:"polly_engine"`
	AzureKey     string        `yaml:"-"`
	AzureRegion  string        `yaml:"-"`
	AWSRegion    string        `yaml:"-"`
}

type VisualsConfig struct {
	BackgroundSource string  `yaml:"background_source"` // gradient | stock_photo
	Brightness       float64 `yaml:"brightness"`
	OverlayAlpha     float64 `yaml:"overlay_alpha"`
	BorderThickness  int     `yaml:"border_thickness"`
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	ThumbWidth       int     `yaml:"thumb_width"`
	ThumbHeight      int     `yaml:"thumb_height"`
	FontFile         string  `yaml:"font_file"`
	BoldFontFile     string  `yaml:"bold_font_file"`
	Title            string  `yaml:"title"`
	Subtitle         string  `yaml:"subtitle"`
	PhotoProvider    string  `yaml:"photo_provider"` // pexels | wikipedia | pollinations
	PhotoQuery       string  `yaml:"photo_query"`
	PexelsAPIKey     string  `yaml:"-"`
}

type RenderConfig struct {
	VideoCodec   string `yaml:"video_codec"`
	Tune         string `yaml:"tune"`
	PixelFormat  string `yaml:"pixel_format"`
	AudioCodec   string `yaml:"audio_codec"`
	AudioBitrate string `yaml:"audio_bitrate"`
}

type MetadataConfig struct {
	CategoryID      string   `yaml:"category_id"`
	Tags            []string `yaml:"tags"`
	ScheduleTimeIST string   `yaml:"schedule_time_ist"` // "07:00" or empty for immediate
}

type UploadConfig struct {
	Enabled           bool   `yaml:"enabled"`
	Visibility        string `yaml:"visibility"`
	MadeForKids       bool   `yaml:"made_for_kids"`
	NotifySubscribers bool   `yaml:"notify_subscribers"`
	DefaultLanguage   string `yaml:"default_language"`
	ClientID          string `yaml:"-"`
	ClientSecret      string `yaml:"-"`
	RefreshToken      string `yaml:"-"`
}

type ScheduleConfig struct {
	Cron     string `yaml:"cron"`
	Timezone string `yaml:"timezone"`
}

type PathsConfig struct {
	Output string `yaml:"output"`
	Logs   string `yaml:"logs"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console | json
}

// Location resolves the schedule timezone, falling back to IST.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return time.FixedZone("IST", 5*3600+1800)
	}
	return loc
}

// Load reads config.yaml (if present) over the defaults and applies env overrides.
// An empty path means UPSC_CONFIG or ./config.yaml.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = os.Getenv(configPathEnv)
		explicit = path != ""
	}
	if path == "" {
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// defaults only
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnvOverrides(os.Getenv)
	return cfg, nil
}

func (c *Config) applyEnvOverrides(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Script.GeminiAPIKey, "GEMINI_API_KEY")
	set(&c.Script.GroqAPIKey, "GROQ_API_KEY")
	set(&c.Audio.AzureKey, "AZURE_SPEECH_KEY")
	set(&c.Audio.AzureRegion, "AZURE_SPEECH_REGION")
	set(&c.Audio.AWSRegion, "AWS_REGION")
	set(&c.Visuals.PexelsAPIKey, "PEXELS_API_KEY")
	set(&c.Upload.ClientID, "YOUTUBE_CLIENT_ID")
	set(&c.Upload.ClientSecret, "YOUTUBE_CLIENT_SECRET")
	set(&c.Upload.RefreshToken, "YOUTUBE_REFRESH_TOKEN")
	set(&c.Logging.Level, "LOG_LEVEL")
}

// Requirements names the stages a run will execute, so Validate only
// demands the credentials those stages need.
type Requirements struct {
	Script  bool
	Audio   bool
	Visuals bool
	Publish bool
}

// Validate reports every missing credential at once.
func (c *Config) Validate(req Requirements) error {
	var missing []string

	if req.Script {
		switch c.Script.Provider {
		case "gemini":
			if c.Script.GeminiAPIKey == "" {
				missing = append(missing, "GEMINI_API_KEY")
			}
		case "groq":
			if c.Script.GroqAPIKey == "" {
				missing = append(missing, "GROQ_API_KEY")
			}
		default:
			return fmt.Errorf("%w: unknown script provider %q", ErrInvalid, c.Script.Provider)
		}
		if c.Script.Mode != "per_item" && c.Script.Mode != "bulk" {
			return fmt.Errorf("%w: unknown script mode %q", ErrInvalid, c.Script.Mode)
		}
		// one retry per item at most
		if c.Script.Retries < 0 || c.Script.Retries > 1 {
			return fmt.Errorf("%w: script.retries must be 0 or 1, got %d", ErrInvalid, c.Script.Retries)
		}
	}

	if req.Audio {
		if c.Audio.MaxChars <= 0 {
			return fmt.Errorf("%w: audio.max_chars must be positive, got %d", ErrInvalid, c.Audio.MaxChars)
		}
		switch c.Audio.Provider {
		case "azure":
			if c.Audio.AzureKey == "" {
				missing = append(missing, "AZURE_SPEECH_KEY")
			}
			if c.Audio.AzureRegion == "" && c.Audio.Endpoint == "" {
				missing = append(missing, "AZURE_SPEECH_REGION")
			}
		case "polly":
			if c.Audio.AWSRegion == "" {
				missing = append(missing, "AWS_REGION")
			}
		case "command":
		default:
			return fmt.Errorf("%w: unknown audio provider %q", ErrInvalid, c.Audio.Provider)
		}
	}

	if req.Visuals {
		if c.Visuals.Width <= 0 || c.Visuals.Height <= 0 || c.Visuals.ThumbWidth <= 0 || c.Visuals.ThumbHeight <= 0 {
			return fmt.Errorf("%w: visuals sizes must be positive", ErrInvalid)
		}
		switch c.Visuals.BackgroundSource {
		case "gradient":
		case "stock_photo":
			switch c.Visuals.PhotoProvider {
			case "pexels":
				if c.Visuals.PexelsAPIKey == "" {
					missing = append(missing, "PEXELS_API_KEY")
				}
			case "wikipedia", "pollinations":
			default:
				return fmt.Errorf("%w: unknown photo provider %q", ErrInvalid, c.Visuals.PhotoProvider)
			}
		default:
			return fmt.Errorf("%w: unknown background source %q", ErrInvalid, c.Visuals.BackgroundSource)
		}
	}

	if req.Publish {
		if c.Upload.ClientID == "" {
			missing = append(missing, "YOUTUBE_CLIENT_ID")
		}
		if c.Upload.ClientSecret == "" {
			missing = append(missing, "YOUTUBE_CLIENT_SECRET")
		}
		if c.Upload.RefreshToken == "" {
			missing = append(missing, "YOUTUBE_REFRESH_TOKEN")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredential, strings.Join(missing, ", "))
	}
	return nil
}
