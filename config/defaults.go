package config

import "time"

// Default returns the settings the daily run was tuned with.
func Default() *Config {
	return &Config{
		News: NewsConfig{
			Feeds:             DefaultFeeds(),
			MaxEntriesPerFeed: 20,
			SummaryMaxChars:   500,
			DedupPrefixChars:  50,
			TopN:              15,
			PrioritySources:   []string{"pib", "drishti_ias", "vision_ias", "mea_india"},
			RelevanceKeywords: DefaultRelevanceKeywords(),
			ExclusionKeywords: DefaultExclusionKeywords(),
			FetchTimeout:      20 * time.Second,
			UserAgent:         "Mozilla/5.0 (compatible; UPSCDailyPipeline/1.0)",
		},
		Script: ScriptConfig{
			Mode:          "per_item",
			Provider:      "gemini",
			Model:         "gemini-2.5-flash",
			BaseURL:       "https://api.groq.com/openai/v1",
			Temperature:   0.7,
			ItemMaxTokens: 1024,
			BulkMaxTokens: 8192,
			MaxItems:      10,
			BulkArticles:  30,
			MinWords:      80,
			Retries:       1,
			Timeout:       120 * time.Second,
		},
		Audio: AudioConfig{
			Provider:     "azure",
			Voice:        "hi-IN-MadhurNeural",
			Language:     "hi-IN",
			Rate:         "0.92",
			Pitch:        "+0%",
			OutputFormat: "audio-16khz-32kbitrate-mono-mp3",
			MaxChars:     4000,
			Pacing:       "fixed",
			Delay:        2 * time.Second,
			Burst:        1,
			Timeout:      60 * time.Second,
			Command:      "edge-tts",
			PollyVoice:   "Kajal",
			PollyEngine:  "neural",
		},
		Visuals: VisualsConfig{
			BackgroundSource: "gradient",
			Brightness:       -0.25,
			OverlayAlpha:     0.55,
			BorderThickness:  20,
			Width:            1920,
			Height:           1080,
			ThumbWidth:       1280,
			ThumbHeight:      720,
			FontFile:         "/usr/share/fonts/truetype/noto/NotoSansDevanagari-Regular.ttf",
			BoldFontFile:     "/usr/share/fonts/truetype/noto/NotoSansDevanagari-Bold.ttf",
			Title:            "Daily Current Affairs",
			Subtitle:         "UPSC & सरकारी परीक्षा",
			PhotoProvider:    "wikipedia",
			PhotoQuery:       "Parliament of India",
		},
		Render: RenderConfig{
			VideoCodec:   "libx264",
			Tune:         "stillimage",
			PixelFormat:  "yuv420p",
			AudioCodec:   "aac",
			AudioBitrate: "192k",
		},
		Metadata: MetadataConfig{
			CategoryID: "27",
			Tags: []string{
				"upsc current affairs",
				"current affairs hindi",
				"daily current affairs",
				"upsc 2026",
				"sarkari exam",
				"ias preparation",
				"upsc preparation",
				"current affairs today",
				"upsc hindi",
				"government exam",
				"news analysis",
				"भारतीय समाचार",
			},
		},
		Upload: UploadConfig{
			Enabled:           false,
			Visibility:        "public",
			MadeForKids:       false,
			NotifySubscribers: true,
			DefaultLanguage:   "hi",
		},
		Schedule: ScheduleConfig{
			Cron:     "0 6 * * *",
			Timezone: "Asia/Kolkata",
		},
		Paths: PathsConfig{
			Output: "output/upsc",
			Logs:   "output/upsc/logs",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultFeeds lists the exam-oriented sources, government and prep sites first.
func DefaultFeeds() []Feed {
	return []Feed{
		{Name: "pib", URL: "https://pib.gov.in/RSS/RssFeed.aspx"},
		{Name: "drishti_ias", URL: "https://www.drishtiias.com/feed"},
		{Name: "vision_ias", URL: "https://www.visionias.in/feed"},
		{Name: "hindu_national", URL: "https://www.thehindu.com/news/national/feeder/default.rss"},
		{Name: "hindu_international", URL: "https://www.thehindu.com/news/international/feeder/default.rss"},
		{Name: "hindu_business", URL: "https://www.thehindu.com/business/feeder/default.rss"},
		{Name: "hindu_science", URL: "https://www.thehindu.com/sci-tech/science/feeder/default.rss"},
		{Name: "indian_express_india", URL: "https://indianexpress.com/section/india/feed/"},
		{Name: "indian_express_world", URL: "https://indianexpress.com/section/world/feed/"},
		{Name: "livemint", URL: "https://www.livemint.com/rss/economy"},
		{Name: "economic_times", URL: "https://economictimes.indiatimes.com/rssfeedstopstories.cms"},
		{Name: "down_to_earth", URL: "https://www.downtoearth.org.in/rss"},
		{Name: "mea_india", URL: "https://mea.gov.in/rssfeed.xml"},
	}
}

func DefaultRelevanceKeywords() []string {
	return []string{
		// polity
		"supreme court", "parliament", "lok sabha", "rajya sabha", "bill", "amendment",
		"president", "prime minister", "chief minister", "governor", "cabinet", "ministry",
		"election", "electoral", "constitution", "article", "act", "law", "judiciary",
		// economy
		"gdp", "inflation", "budget", "fiscal", "monetary", "reserve bank", "rbi",
		"world bank", "imf", "trade", "export", "import", "gst", "tax", "subsidy",
		"disinvestment", "privatization", "fdi", "stock market", "sensex", "nifty",
		// international relations
		"india", "pakistan", "china", "usa", "russia", "treaty", "agreement", "summit",
		"united nations", "brics", "g20", "asean", "saarc", "nato", "bilateral",
		"foreign policy", "diplomatic", "ambassador",
		// science & technology
		"isro", "drdo", "chandrayaan", "gaganyaan", "satellite", "mission", "space",
		"artificial intelligence", "quantum", "semiconductor", "technology", "research",
		"vaccine", "covid", "health", "pandemic",
		// environment
		"climate change", "global warming", "paris agreement", "cop", "pollution",
		"wildlife", "forest", "biodiversity", "conservation", "renewable energy",
		"solar", "wind energy", "electric vehicle",
		// geography & disasters
		"earthquake", "cyclone", "flood", "drought", "tsunami", "landslide",
		// awards
		"nobel prize", "bharat ratna", "padma", "award", "medal", "olympic",
		// schemes
		"scheme", "yojana", "programme", "initiative", "policy",
		"swachh bharat", "ayushman", "ujjwala", "pmay", "mudra",
	}
}

func DefaultExclusionKeywords() []string {
	return []string{
		"cricket", "bollywood", "film", "actor", "actress", "movie",
		"celebrity", "ipl", "football match", "tennis match",
	}
}
