package audio

import (
	"context"
	"fmt"
	"html"
	"math"
	"os"
	"strconv"
	"strings"

	"upsc-daily-pipeline/config"
	"upsc-daily-pipeline/ffmpeg"
)

// Voice selects the speaker and delivery.
type Voice struct {
	Name     string
	Language string
	Rate     string // relative speed, "0.92" = 8% slower
	Pitch    string
}

func VoiceFromConfig(cfg config.AudioConfig) Voice {
	return Voice{Name: cfg.Voice, Language: cfg.Language, Rate: cfg.Rate, Pitch: cfg.Pitch}
}

// Synthesizer turns one chunk of plain text into an audio file at outFile.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice Voice, outFile string) error
}

// NewSynthesizer builds the configured backend.
func NewSynthesizer(cfg *config.Config, runner ffmpeg.Runner) (Synthesizer, error) {
	a := cfg.Audio
	switch a.Provider {
	case "azure":
		return NewAzure(a.AzureKey, a.AzureRegion, a.Endpoint, a.OutputFormat, a.Timeout), nil
	case "polly":
		p, err := NewPolly(a.AWSRegion, a.PollyVoice, a.PollyEngine)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "command":
		return NewCommand(a.Command, runner), nil
	default:
		return nil, fmt.Errorf("%w: unknown audio provider %q", config.ErrInvalid, a.Provider)
	}
}

// SSML escapes text and wraps it in a speak/voice/prosody envelope.
func SSML(text string, v Voice) string {
	return fmt.Sprintf(
		"<speak version='1.0' xml:lang='%s'><voice name='%s'><prosody rate='%s' pitch='%s'>%s</prosody></voice></speak>",
		v.Language, v.Name, v.Rate, v.Pitch, html.EscapeString(text))
}

// ratePercent converts "0.92" into a signed percent offset such as "-8%".
// Values already given as percentages pass through.
func ratePercent(r string) string {
	r = strings.TrimSpace(r)
	if r == "" || strings.HasSuffix(r, "%") {
		return r
	}
	f, err := strconv.ParseFloat(r, 64)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%+d%%", int(math.Round((f-1)*100)))
}

// rateAbsolute converts "0.92" into "92%".
func rateAbsolute(r string) string {
	r = strings.TrimSpace(r)
	if r == "" || strings.HasSuffix(r, "%") {
		return r
	}
	f, err := strconv.ParseFloat(r, 64)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d%%", int(math.Round(f*100)))
}

// writeAtomic writes to path+".part" and renames it into place on success.
func writeAtomic(path string, write func(f *os.File) error) error {
	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
