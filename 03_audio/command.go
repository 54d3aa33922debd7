package audio

import (
	"context"
	"fmt"
	"os"
	"strings"

	"upsc-daily-pipeline/ffmpeg"
)

// CommandSynthesizer shells out to a local TTS tool.
//
// "edge-tts" is invoked with its own flags; a path ending in .py runs under
// python3; anything else is called as `cmd --text ... --output ...`.
type CommandSynthesizer struct {
	command string
	runner  ffmpeg.Runner
}

func NewCommand(command string, runner ffmpeg.Runner) *CommandSynthesizer {
	return &CommandSynthesizer{command: strings.TrimSpace(command), runner: runner}
}

func (s *CommandSynthesizer) Synthesize(ctx context.Context, text string, voice Voice, outFile string) error {
	name, args := s.commandLine(text, voice, outFile)
	if _, err := s.runner.Run(ctx, name, args...); err != nil {
		os.Remove(outFile)
		return fmt.Errorf("tts command: %w", err)
	}
	info, err := os.Stat(outFile)
	if err != nil {
		return fmt.Errorf("tts command wrote no file: %w", err)
	}
	if info.Size() == 0 {
		os.Remove(outFile)
		return fmt.Errorf("tts command wrote an empty file")
	}
	return nil
}

func (s *CommandSynthesizer) commandLine(text string, voice Voice, outFile string) (string, []string) {
	switch {
	case s.command == "edge-tts":
		args := []string{"--voice", voice.Name}
		if r := ratePercent(voice.Rate); r != "" {
			args = append(args, "--rate="+r)
		}
		if strings.HasSuffix(voice.Pitch, "Hz") {
			args = append(args, "--pitch="+voice.Pitch)
		}
		return "edge-tts", append(args, "--text", text, "--write-media", outFile)

	case strings.HasSuffix(s.command, ".py"):
		return "python3", []string{s.command, "--text", text, "--output", outFile}

	default:
		return s.command, []string{"--text", text, "--output", outFile}
	}
}
