package render

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"upsc-daily-pipeline/config"
	"upsc-daily-pipeline/ffmpeg"
	"upsc-daily-pipeline/types"

	"github.com/rs/zerolog"
)

// ErrEncoder wraps a non-zero exit from the encoder.
var ErrEncoder = errors.New("encoder failed")

// Muxer loops a still image under the narration and writes an MP4
type Muxer struct {
	cfg    *config.Config
	runner ffmpeg.Runner
	log    zerolog.Logger
}

// New creates a new Muxer
func New(cfg *config.Config, runner ffmpeg.Runner, log zerolog.Logger) *Muxer {
	return &Muxer{cfg: cfg, runner: runner, log: log}
}

func OutputPath(outputRoot, date string) string {
	return filepath.Join(outputRoot, "videos", fmt.Sprintf("current_affairs_%s.mp4", date))
}

// Run writes videos/current_affairs_<date>.mp4.
func (m *Muxer) Run(ctx context.Context, date, image, audio string) (*types.VideoArtifact, error) {
	return m.Mux(ctx, image, audio, OutputPath(m.cfg.Paths.Output, date))
}

// Mux encodes image+audio into out. The image loops forever and -shortest
// cuts the video at the end of the audio.
func (m *Muxer) Mux(ctx context.Context, image, audio, out string) (*types.VideoArtifact, error) {
	for _, f := range []string{image, audio} {
		if _, err := os.Stat(f); err != nil {
			return nil, fmt.Errorf("mux input: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return nil, fmt.Errorf("create video dir: %w", err)
	}

	m.log.Info().Str("image", image).Str("audio", audio).Msg("Combining image + audio...")
	if _, err := m.runner.Run(ctx, "ffmpeg", MuxArgs(m.cfg.Render, image, audio, out)...); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoder, err)
	}

	artifact := &types.VideoArtifact{Path: out}

	audioDur, aerr := ffmpeg.ProbeDuration(ctx, m.runner, audio)
	videoDur, verr := ffmpeg.ProbeDuration(ctx, m.runner, out)
	switch {
	case verr == nil:
		artifact.DurationSec = videoDur
	case aerr == nil:
		artifact.DurationSec = audioDur
		m.log.Warn().Err(verr).Msg("could not probe video, using audio duration")
	default:
		m.log.Warn().Err(verr).Msg("could not probe durations")
	}
	if aerr == nil && verr == nil && math.Abs(videoDur-audioDur) > 1 {
		m.log.Warn().Float64("video_sec", videoDur).Float64("audio_sec", audioDur).Msg("video and narration lengths differ")
	}

	m.log.Info().Str("file", out).Float64("duration_sec", artifact.DurationSec).Msg("✅ Final video ready")
	return artifact, nil
}

func MuxArgs(rc config.RenderConfig, image, audio, out string) []string {
	return []string{"-y",
		"-loop", "1",
		"-i", image,
		"-i", audio,
		"-c:v", rc.VideoCodec,
		"-tune", rc.Tune,
		"-c:a", rc.AudioCodec,
		"-b:a", rc.AudioBitrate,
		"-pix_fmt", rc.PixelFormat,
		"-shortest",
		"-movflags", "+faststart",
		out,
	}
}
