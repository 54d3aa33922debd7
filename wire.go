package main

import (
	"context"
	"io"

	"upsc-daily-pipeline/01_news"
	"upsc-daily-pipeline/02_script"
	"upsc-daily-pipeline/03_audio"
	"upsc-daily-pipeline/04_visuals"
	"upsc-daily-pipeline/05_render"
	"upsc-daily-pipeline/06_metadata"
	"upsc-daily-pipeline/07_upload"
	"upsc-daily-pipeline/config"
	"upsc-daily-pipeline/daily"
	"upsc-daily-pipeline/ffmpeg"
	"upsc-daily-pipeline/logging"

	"github.com/rs/zerolog"
)

// requirements maps the stages a run executes to the credentials it needs.
func requirements(opts daily.Options) config.Requirements {
	return config.Requirements{
		Script:  opts.Runs(daily.StageScript),
		Audio:   opts.Runs(daily.StageAudio),
		Visuals: opts.Runs(daily.StageVisuals),
		Publish: opts.Runs(daily.StagePublish),
	}
}

// buildComponents constructs only the stages opts will run. The returned
// func releases provider clients.
func buildComponents(ctx context.Context, cfg *config.Config, opts daily.Options, log zerolog.Logger) (daily.Components, func(), error) {
	var c daily.Components
	cleanup := func() {}
	runner := ffmpeg.ExecRunner{}

	if opts.Runs(daily.StageNews) {
		c.News = news.New(cfg, logging.Component(log, "news"))
	}
	if opts.Runs(daily.StageScript) {
		gen, err := script.NewGenerator(ctx, cfg)
		if err != nil {
			return c, cleanup, err
		}
		if closer, ok := gen.(io.Closer); ok {
			cleanup = func() { _ = closer.Close() }
		}
		c.Script = script.New(cfg, gen, logging.Component(log, "script"))
	}
	if opts.Runs(daily.StageAudio) {
		synth, err := audio.NewSynthesizer(cfg, runner)
		if err != nil {
			return c, cleanup, err
		}
		c.Audio = audio.New(cfg, synth, audio.NewPacer(cfg.Audio), runner, logging.Component(log, "audio"))
	}
	if opts.Runs(daily.StageVisuals) {
		vlog := logging.Component(log, "visuals")
		c.Visuals = visuals.New(cfg, runner, visuals.NewPhotoFetcher(cfg, vlog), vlog)
	}
	if opts.Runs(daily.StageVideo) {
		c.Video = render.New(cfg, runner, logging.Component(log, "render"))
	}
	if opts.Runs(daily.StagePublish) {
		c.Metadata = metadata.New(cfg, logging.Component(log, "metadata"))
		c.Publisher = upload.New(cfg, logging.Component(log, "upload"))
	}
	return c, cleanup, nil
}
