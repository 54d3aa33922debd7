package audio

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"upsc-daily-pipeline/config"
	"upsc-daily-pipeline/types"

	"github.com/rs/zerolog"
)

// fakeSynth writes "<chunk N>" into each file and fails the listed chunks.
type fakeSynth struct {
	mu    sync.Mutex
	calls int
	fail  map[int]bool
	texts []string
}

func (f *fakeSynth) Synthesize(_ context.Context, text string, _ Voice, outFile string) error {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.texts = append(f.texts, text)
	f.mu.Unlock()
	if f.fail[n] {
		return errors.New("synthesis canceled: quota")
	}
	return os.WriteFile(outFile, []byte(fmt.Sprintf("<chunk %d>", n)), 0o644)
}

// catRunner emulates `ffmpeg -f concat ... -c copy out` by concatenating
// the files named in the list.
type catRunner struct {
	calls [][]string
}

func (r *catRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	var list, out string
	for i, a := range args {
		if a == "-i" {
			list = args[i+1]
		}
	}
	out = args[len(args)-1]

	f, err := os.Open(list)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var joined []byte
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSuffix(strings.TrimPrefix(sc.Text(), "file '"), "'")
		data, err := os.ReadFile(line)
		if err != nil {
			return nil, err
		}
		joined = append(joined, data...)
	}
	return nil, os.WriteFile(out, joined, 0o644)
}

// countingPacer records waits without sleeping.
type countingPacer struct{ waits int }

func (p *countingPacer) Wait(ctx context.Context) error {
	p.waits++
	return ctx.Err()
}

func nineThousandChars() string {
	var sb strings.Builder
	for i := 0; i < 90; i++ {
		sb.WriteString(fmt.Sprintf("%02d", i) + strings.Repeat("क", 96) + ". ")
	}
	return sb.String()
}

func newTestPipeline(t *testing.T, synth Synthesizer, pacer Pacer, runner *catRunner) (*Pipeline, string) {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.Output = t.TempDir()
	return New(cfg, synth, pacer, runner, zerolog.Nop()), cfg.Paths.Output
}

func TestSynthesizeSkipsFailedChunkKeepsOrder(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{fail: map[int]bool{2: true}}
	pacer := &countingPacer{}
	runner := &catRunner{}
	p, root := newTestPipeline(t, synth, pacer, runner)

	got, err := p.Run(context.Background(), &types.NarrationScript{Date: "2026-10-12", Text: nineThousandChars()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got.ChunkCount != 3 || len(got.ChunkFiles) != 2 {
		t.Fatalf("expected 3 chunks with 2 surviving, got %+v", got)
	}
	if len(got.SkippedChunks) != 1 || got.SkippedChunks[0] != 2 {
		t.Fatalf("expected chunk 2 skipped, got %v", got.SkippedChunks)
	}
	if filepath.Base(got.ChunkFiles[0]) != "chunk_001.mp3" || filepath.Base(got.ChunkFiles[1]) != "chunk_003.mp3" {
		t.Fatalf("unexpected chunk files %v", got.ChunkFiles)
	}

	data, err := os.ReadFile(OutputPath(root, "2026-10-12"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "<chunk 1><chunk 3>" {
		t.Fatalf("expected chunk 1 then chunk 3, got %q", data)
	}
	if pacer.waits != 2 {
		t.Fatalf("expected a pause between each of 3 calls, got %d", pacer.waits)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("expected one concat call, got %d", len(runner.calls))
	}
}

func TestSynthesizeSingleSurvivorIsCopied(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{fail: map[int]bool{1: true, 3: true}}
	runner := &catRunner{}
	p, root := newTestPipeline(t, synth, NoPacing{}, runner)

	got, err := p.Run(context.Background(), &types.NarrationScript{Date: "2026-10-12", Text: nineThousandChars()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	data, _ := os.ReadFile(got.Path)
	if string(data) != "<chunk 2>" {
		t.Fatalf("expected chunk 2 copied, got %q", data)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("single chunk must not invoke ffmpeg")
	}
	if got.Path != OutputPath(root, "2026-10-12") {
		t.Fatalf("unexpected path %s", got.Path)
	}
}

func TestSynthesizeAllFailIsFatal(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{fail: map[int]bool{1: true, 2: true, 3: true}}
	p, root := newTestPipeline(t, synth, NoPacing{}, &catRunner{})
	previous := OutputPath(root, "2026-10-12")
	if err := os.MkdirAll(filepath.Dir(previous), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(previous, []byte("yesterday's narration"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := p.Run(context.Background(), &types.NarrationScript{Date: "2026-10-12", Text: nineThousandChars()})
	if !errors.Is(err, ErrNoAudio) {
		t.Fatalf("expected ErrNoAudio, got %v", err)
	}
	if _, err := os.Stat(OutputPath(root, "2026-10-12")); !os.IsNotExist(err) {
		t.Fatalf("no narration artifact may be left behind")
	}
}

func TestSynthesizeRemovesStaleChunks(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{}
	p, root := newTestPipeline(t, synth, NoPacing{}, &catRunner{})
	dir := ChunkDir(root)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(dir, "chunk_007.mp3")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := p.Run(context.Background(), &types.NarrationScript{Date: "2026-10-12", Text: "एक वाक्य. दूसरा वाक्य."}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("stale chunk should be removed")
	}
	if synth.calls != 1 {
		t.Fatalf("short text is one chunk, got %d calls", synth.calls)
	}
}

func TestSynthesizeStopsWhenInterrupted(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p, _ := newTestPipeline(t, &fakeSynth{}, NoPacing{}, &catRunner{})

	_, err := p.Run(ctx, &types.NarrationScript{Date: "2026-10-12", Text: nineThousandChars()})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
