package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"upsc-daily-pipeline/01_news"
	"upsc-daily-pipeline/config"
	"upsc-daily-pipeline/daily"
	"upsc-daily-pipeline/logging"
	"upsc-daily-pipeline/types"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitConfig = 2
)

// configError marks failures that happen before any stage runs.
type configError struct{ err error }

func (e configError) Error() string { return e.err.Error() }
func (e configError) Unwrap() error { return e.err }

// exitCode maps a run result to the process status. An empty news day is
// not a failure.
func exitCode(err error) int {
	var ce configError
	switch {
	case err == nil, errors.Is(err, news.ErrNoArticles):
		return exitOK
	case errors.As(err, &ce), errors.Is(err, config.ErrMissingCredential), errors.Is(err, config.ErrInvalid):
		return exitConfig
	default:
		return exitFailed
	}
}

type cli struct {
	configPath string
	date       string
	fromStage  string
	publish    bool
}

func main() {
	// .env is for local runs; CI passes secrets as env vars
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	stop()
	os.Exit(exitCode(err))
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "upsc-daily",
		Short:         "Daily Hindi current-affairs video pipeline for UPSC aspirants",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $UPSC_CONFIG or ./config.yaml)")
	root.PersistentFlags().StringVar(&c.date, "date", "", "date to produce, YYYY-MM-DD (default today in the configured timezone)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: news, script, audio, visuals, video and optionally publish",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := daily.Options{Publish: c.publish}
			if c.fromStage != "" {
				st, err := daily.ParseStage(c.fromStage)
				if err != nil {
					return configError{err}
				}
				opts.From = st
				if st == daily.StagePublish {
					opts.Publish = true
				}
			}
			return c.run(cmd.Context(), opts)
		},
	}
	runCmd.Flags().BoolVar(&c.publish, "publish", false, "upload to YouTube after rendering (default upload.enabled)")
	runCmd.Flags().StringVar(&c.fromStage, "from-stage", "", "start at this stage, reading earlier artifacts from disk")

	root.AddCommand(
		runCmd,
		c.stageCmd("fetch", "Collect and save today's relevant news", daily.Options{From: daily.StageNews, To: daily.StageNews}),
		c.stageCmd("script", "Write the narration script from the saved news", daily.Options{From: daily.StageScript, To: daily.StageScript}),
		c.stageCmd("video", "Synthesize audio, draw visuals and render from the saved script", daily.Options{From: daily.StageAudio, To: daily.StageVideo}),
		c.stageCmd("upload", "Upload the rendered video", daily.Options{From: daily.StagePublish, Publish: true}),
		c.scheduleCmd(),
	)
	return root
}

func (c *cli) stageCmd(use, short string, opts daily.Options) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd.Context(), opts)
		},
	}
}

func (c *cli) scheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run the full pipeline every day on the configured cron schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := c.setup()
			if err != nil {
				return err
			}
			opts := daily.Options{Publish: cfg.Upload.Enabled}
			if err := cfg.Validate(requirements(opts)); err != nil {
				return configError{err}
			}

			sched := cron.New(cron.WithLocation(cfg.Location()))
			_, err = sched.AddFunc(cfg.Schedule.Cron, func() {
				day := time.Now().In(cfg.Location())
				if err := runDay(cmd.Context(), cfg, day, opts, log); err != nil && exitCode(err) != exitOK {
					log.Error().Err(err).Msg("scheduled run failed")
				}
			})
			if err != nil {
				return configError{fmt.Errorf("schedule %q: %w", cfg.Schedule.Cron, err)}
			}

			sched.Start()
			log.Info().Str("cron", cfg.Schedule.Cron).Str("tz", cfg.Schedule.Timezone).Msg("⏰ Scheduler started")
			<-cmd.Context().Done()
			<-sched.Stop().Done()
			log.Info().Msg("Scheduler stopped")
			return nil
		},
	}
}

func (c *cli) setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, zerolog.Nop(), configError{err}
	}
	return cfg, logging.New(cfg.Logging.Level, cfg.Logging.Format), nil
}

func (c *cli) run(ctx context.Context, opts daily.Options) error {
	cfg, log, err := c.setup()
	if err != nil {
		return err
	}
	if !opts.Publish && opts.To == "" && cfg.Upload.Enabled {
		opts.Publish = true
	}
	if err := cfg.Validate(requirements(opts)); err != nil {
		return configError{err}
	}

	day := time.Now().In(cfg.Location())
	if c.date != "" {
		if day, err = types.ParseDate(c.date, cfg.Location()); err != nil {
			return configError{err}
		}
	}
	return runDay(ctx, cfg, day, opts, log)
}

func runDay(ctx context.Context, cfg *config.Config, day time.Time, opts daily.Options, log zerolog.Logger) error {
	components, cleanup, err := buildComponents(ctx, cfg, opts, log)
	defer cleanup()
	if err != nil {
		return configError{err}
	}
	_, err = daily.New(cfg, components, logging.Component(log, "daily")).Run(ctx, day, opts)
	return err
}
