package visuals

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"upsc-daily-pipeline/config"
	"upsc-daily-pipeline/ffmpeg"
	"upsc-daily-pipeline/types"

	"github.com/rs/zerolog"
)

// Assembler draws the video background and the thumbnail for a date.
type Assembler struct {
	cfg    *config.Config
	runner ffmpeg.Runner
	photos PhotoFetcher
	log    zerolog.Logger
}

// New creates an Assembler. photos may be nil for the gradient background.
func New(cfg *config.Config, runner ffmpeg.Runner, photos PhotoFetcher, log zerolog.Logger) *Assembler {
	return &Assembler{cfg: cfg, runner: runner, photos: photos, log: log}
}

func BackgroundPath(outputRoot, date string) string {
	return filepath.Join(outputRoot, "backgrounds", fmt.Sprintf("bg_%s.png", date))
}

func ThumbnailPath(outputRoot, date string) string {
	return filepath.Join(outputRoot, "thumbnails", fmt.Sprintf("thumb_%s.png", date))
}

// Run writes backgrounds/bg_<date>.png and thumbnails/thumb_<date>.png.
// A thumbnail failure is logged and leaves Visuals.Thumbnail empty.
func (a *Assembler) Run(ctx context.Context, day time.Time) (*types.Visuals, error) {
	root := a.cfg.Paths.Output
	date := day.Format(types.DateLayout)

	work, err := os.MkdirTemp("", "upsc-visuals-")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(work)

	bg := BackgroundPath(root, date)
	if err := a.Background(ctx, day, work, bg); err != nil {
		return nil, err
	}
	a.log.Info().Str("file", bg).Msg("✅ Background ready")

	v := &types.Visuals{Background: bg}
	thumb := ThumbnailPath(root, date)
	if err := a.Thumbnail(ctx, day, work, thumb); err != nil {
		a.log.Warn().Err(err).Msg("thumbnail failed, continuing without it")
		return v, nil
	}
	v.Thumbnail = thumb
	a.log.Info().Str("file", thumb).Msg("✅ Thumbnail ready")
	return v, nil
}

// Background renders the 16:9 title card. A stock photo is used when
// configured and reachable, otherwise the gradient.
func (a *Assembler) Background(ctx context.Context, day time.Time, workDir, out string) error {
	vc := a.cfg.Visuals
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("create background dir: %w", err)
	}

	texts, err := a.writeTexts(workDir, map[string]string{
		"title.txt":    vc.Title,
		"subtitle.txt": vc.Subtitle,
		"date.txt":     day.Format(types.DisplayLayout),
	})
	if err != nil {
		return err
	}

	// layout is drawn for 1080 lines and scaled to the configured height
	scale := func(n int) int { return n * vc.Height / 1080 }
	overlay := append(BorderFilters(scale(vc.BorderThickness)),
		DrawText(TextSpec{File: texts["title.txt"], FontFile: vc.BoldFontFile, Size: scale(140), Color: White, Y: scale(350), Shadow: 5}),
		DrawText(TextSpec{File: texts["subtitle.txt"], FontFile: vc.BoldFontFile, Size: scale(80), Color: SubtitleColor, Y: scale(520), Shadow: 3}),
		DrawText(TextSpec{File: texts["date.txt"], FontFile: vc.FontFile, Size: scale(70), Color: DateColor, Y: scale(640), Shadow: 3}),
	)

	if photo := a.fetchPhoto(ctx, day, workDir); photo != "" {
		filters := append(PhotoFilters(vc.Width, vc.Height, vc.Brightness, vc.OverlayAlpha), overlay...)
		args := []string{"-y", "-i", photo, "-vf", Chain(filters...), "-frames:v", "1", out}
		_, err := a.runner.Run(ctx, "ffmpeg", args...)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("render background: %w", err)
		}
		a.log.Warn().Err(err).Msg("stock photo could not be rendered, using gradient")
	}

	filters := append([]string{GradientFilter(GradientTop, GradientBottom)}, overlay...)
	args := []string{"-y", "-f", "lavfi", "-i", fmt.Sprintf("color=c=black:s=%dx%d:d=1", vc.Width, vc.Height),
		"-vf", Chain(filters...), "-frames:v", "1", out}
	if _, err := a.runner.Run(ctx, "ffmpeg", args...); err != nil {
		return fmt.Errorf("render background: %w", err)
	}
	return nil
}

func (a *Assembler) fetchPhoto(ctx context.Context, day time.Time, workDir string) string {
	if a.photos == nil || a.cfg.Visuals.BackgroundSource != "stock_photo" {
		return ""
	}
	photo := filepath.Join(workDir, fmt.Sprintf("photo_%s.jpg", day.Format(types.DateLayout)))
	if err := a.photos.Fetch(ctx, a.cfg.Visuals.PhotoQuery, photo); err != nil {
		a.log.Warn().Err(err).Str("query", a.cfg.Visuals.PhotoQuery).Msg("stock photo unavailable, using gradient")
		return ""
	}
	return photo
}

// Thumbnail renders the tricolor card with a navy disc in the middle.
func (a *Assembler) Thumbnail(ctx context.Context, day time.Time, workDir, out string) error {
	vc := a.cfg.Visuals
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("create thumbnail dir: %w", err)
	}

	texts, err := a.writeTexts(workDir, map[string]string{
		"thumb_title.txt": vc.Title,
		"thumb_date.txt":  day.Format(types.DisplayLayout),
	})
	if err != nil {
		return err
	}

	w, h := vc.ThumbWidth, vc.ThumbHeight
	stripe := h / 3
	radius := h / 12
	graph := fmt.Sprintf("[0:v]%s[bg];[1:v]%s[disc];[bg][disc]overlay=x=%d:y=%d,%s,%s[out]",
		Chain(
			drawbox("0", "0", fmt.Sprint(stripe), Saffron.Hex()),
			drawbox("0", fmt.Sprint(2*stripe), fmt.Sprint(h-2*stripe), IndiaGreen.Hex()),
		),
		DiscFilter(radius),
		w/2-radius, h/2-radius,
		DrawText(TextSpec{File: texts["thumb_title.txt"], FontFile: vc.BoldFontFile, Size: 70, Color: RGB{}, Y: 80}),
		DrawText(TextSpec{File: texts["thumb_date.txt"], FontFile: vc.FontFile, Size: 45, Color: White, Y: 550 * h / 720}),
	)

	args := []string{"-y",
		"-f", "lavfi", "-i", fmt.Sprintf("color=c=white:s=%dx%d:d=1", w, h),
		"-f", "lavfi", "-i", fmt.Sprintf("color=c=%s:s=%dx%d:d=1", Navy.Hex(), 2*radius, 2*radius),
		"-filter_complex", graph, "-map", "[out]", "-frames:v", "1", out}

	if _, err := a.runner.Run(ctx, "ffmpeg", args...); err != nil {
		return fmt.Errorf("render thumbnail: %w", err)
	}
	return nil
}

func (a *Assembler) writeTexts(dir string, texts map[string]string) (map[string]string, error) {
	paths := make(map[string]string, len(texts))
	for name, text := range texts {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(text), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
		paths[name] = p
	}
	return paths, nil
}
