package audio

import (
	"context"
	"fmt"
	"html"
	"io"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/polly"
)

type pollyAPI interface {
	SynthesizeSpeechWithContext(aws.Context, *polly.SynthesizeSpeechInput, ...request.Option) (*polly.SynthesizeSpeechOutput, error)
}

// PollySynthesizer uses Amazon Polly. Polly picks its own voice by id, so
// Voice.Name is ignored in favour of the configured Polly voice.
type PollySynthesizer struct {
	api     pollyAPI
	voiceID string
	engine  string
}

func NewPolly(region, voiceID, engine string) (*PollySynthesizer, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return &PollySynthesizer{api: polly.New(sess), voiceID: voiceID, engine: engine}, nil
}

func (s *PollySynthesizer) Synthesize(ctx context.Context, text string, voice Voice, outFile string) error {
	input := &polly.SynthesizeSpeechInput{
		Engine:       aws.String(s.engine),
		OutputFormat: aws.String(polly.OutputFormatMp3),
		SampleRate:   aws.String("16000"),
		TextType:     aws.String(polly.TextTypeSsml),
		Text:         aws.String(pollySSML(text, voice)),
		VoiceId:      aws.String(s.voiceID),
	}
	if voice.Language != "" {
		input.LanguageCode = aws.String(voice.Language)
	}

	out, err := s.api.SynthesizeSpeechWithContext(ctx, input)
	if err != nil {
		return fmt.Errorf("polly synthesize: %w", err)
	}
	defer out.AudioStream.Close()

	return writeAtomic(outFile, func(f *os.File) error {
		if _, err := io.Copy(f, out.AudioStream); err != nil {
			return fmt.Errorf("save polly audio: %w", err)
		}
		return nil
	})
}

// pollySSML uses only the prosody rate; Polly neural voices reject pitch.
func pollySSML(text string, v Voice) string {
	return fmt.Sprintf("<speak><prosody rate='%s'>%s</prosody></speak>", rateAbsolute(v.Rate), html.EscapeString(text))
}
