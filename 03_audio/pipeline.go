package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"upsc-daily-pipeline/config"
	"upsc-daily-pipeline/ffmpeg"
	"upsc-daily-pipeline/types"

	"github.com/rs/zerolog"
)

// ErrNoAudio means every chunk failed; there is no narration for the date.
var ErrNoAudio = errors.New("no audio chunks synthesized")

const concatListName = "concat_list.txt"

// Pipeline splits a script, synthesizes each chunk and joins the results
type Pipeline struct {
	cfg    *config.Config
	synth  Synthesizer
	pacer  Pacer
	runner ffmpeg.Runner
	log    zerolog.Logger
}

// New creates a new Pipeline
func New(cfg *config.Config, synth Synthesizer, pacer Pacer, runner ffmpeg.Runner, log zerolog.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, synth: synth, pacer: pacer, runner: runner, log: log}
}

// ChunkDir and OutputPath follow the output/upsc layout.
func ChunkDir(outputRoot string) string {
	return filepath.Join(outputRoot, "chunks")
}

func OutputPath(outputRoot, date string) string {
	return filepath.Join(outputRoot, "audio", fmt.Sprintf("audio_%s.mp3", date))
}

// Run synthesizes the script into audio/audio_<date>.mp3.
func (p *Pipeline) Run(ctx context.Context, s *types.NarrationScript) (*types.NarrationAudio, error) {
	root := p.cfg.Paths.Output
	return p.Synthesize(ctx, s.Text, ChunkDir(root), OutputPath(root, s.Date))
}

// Synthesize produces one audio file from text. Failed chunks are skipped and
// leave a gap; the output is the surviving chunks in chunk order.
func (p *Pipeline) Synthesize(ctx context.Context, text, chunkDir, outFile string) (*types.NarrationAudio, error) {
	if err := os.MkdirAll(chunkDir, 0o755); err != nil {
		return nil, fmt.Errorf("create chunk dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outFile), 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}
	if err := cleanChunks(chunkDir); err != nil {
		return nil, fmt.Errorf("clean stale chunks: %w", err)
	}
	// an earlier run's narration must not survive a failed one
	if err := os.Remove(outFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove previous audio: %w", err)
	}

	chunks := Split(text, p.cfg.Audio.MaxChars)
	p.log.Info().Int("chars", utf8.RuneCountInString(text)).Int("chunks", len(chunks)).Msg("script split")

	voice := VoiceFromConfig(p.cfg.Audio)
	result := &types.NarrationAudio{Path: outFile, ChunkCount: len(chunks), SkippedChunks: []int{}}

	for i, chunk := range chunks {
		n := i + 1
		if i > 0 {
			if err := p.pacer.Wait(ctx); err != nil {
				return nil, fmt.Errorf("interrupted before chunk %d: %w", n, err)
			}
		}

		chunkFile := filepath.Join(chunkDir, fmt.Sprintf("chunk_%03d.mp3", n))
		if err := p.synth.Synthesize(ctx, chunk, voice, chunkFile); err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("interrupted at chunk %d: %w", n, ctx.Err())
			}
			p.log.Warn().Err(err).Int("chunk", n).Int("of", len(chunks)).Msg("chunk failed, skipping")
			result.SkippedChunks = append(result.SkippedChunks, n)
			continue
		}
		result.ChunkFiles = append(result.ChunkFiles, chunkFile)
		p.log.Info().Int("chunk", n).Int("of", len(chunks)).Int("chars", utf8.RuneCountInString(chunk)).Msg("chunk synthesized")
	}

	switch len(result.ChunkFiles) {
	case 0:
		return nil, ErrNoAudio
	case 1:
		if err := copyFile(result.ChunkFiles[0], outFile); err != nil {
			return nil, fmt.Errorf("copy single chunk: %w", err)
		}
	default:
		list := filepath.Join(chunkDir, concatListName)
		if err := ffmpeg.Concat(ctx, p.runner, result.ChunkFiles, list, outFile); err != nil {
			return nil, fmt.Errorf("join chunks: %w", err)
		}
	}

	p.log.Info().
		Str("file", outFile).
		Int("chunks", len(result.ChunkFiles)).
		Ints("skipped", result.SkippedChunks).
		Msg("✅ narration audio ready")
	return result, nil
}

// cleanChunks removes leftovers from an interrupted run.
func cleanChunks(dir string) error {
	for _, pattern := range []string{"chunk_*.mp3", "chunk_*.mp3.part", concatListName} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return err
		}
		for _, m := range matches {
			if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
				return err
			}
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
