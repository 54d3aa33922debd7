// Package ffmpeg drives the ffmpeg and ffprobe binaries.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Runner executes an external tool and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs real binaries. Stderr is kept for the error message.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), fmt.Errorf("%s: %w: %s", name, err, tail(stderr.String(), 400))
	}
	return stdout.Bytes(), nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}

// WriteConcatList writes an ffmpeg concat demuxer list with absolute paths,
// one `file '...'` line per input, in the given order.
func WriteConcatList(listFile string, files []string) error {
	var lines []string
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", f, err)
		}
		lines = append(lines, fmt.Sprintf("file '%s'", strings.ReplaceAll(abs, "'", `'\''`)))
	}
	return os.WriteFile(listFile, []byte(strings.Join(lines, "\n")+"\n"), 0o644)
}

// Concat joins files in order with stream copy, no re-encoding.
func Concat(ctx context.Context, r Runner, files []string, listFile, out string) error {
	if len(files) == 0 {
		return fmt.Errorf("concat: no input files")
	}
	if err := WriteConcatList(listFile, files); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	if _, err := r.Run(ctx, "ffmpeg", ConcatArgs(listFile, out)...); err != nil {
		return fmt.Errorf("ffmpeg concat: %w", err)
	}
	return nil
}

func ConcatArgs(listFile, out string) []string {
	return []string{"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c", "copy",
		out,
	}
}

// ProbeDuration asks ffprobe for a media file's duration in seconds.
func ProbeDuration(ctx context.Context, r Runner, file string) (float64, error) {
	out, err := r.Run(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		file,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", file, err)
	}
	dur, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", strings.TrimSpace(string(out)), err)
	}
	return dur, nil
}
