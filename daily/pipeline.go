package daily

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"upsc-daily-pipeline/01_news"
	"upsc-daily-pipeline/02_script"
	"upsc-daily-pipeline/03_audio"
	"upsc-daily-pipeline/04_visuals"
	"upsc-daily-pipeline/05_render"
	"upsc-daily-pipeline/config"
	"upsc-daily-pipeline/types"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Pipeline runs News -> Script -> Audio -> Visuals -> Video -> (Publish)
// for one date. Stages are strictly sequential; the first fatal error stops
// the run. Stages before Options.From read their artifacts from disk.
type Pipeline struct {
	cfg *config.Config
	c   Components
	log zerolog.Logger
	now func() time.Time
}

// New creates a new Pipeline
func New(cfg *config.Config, c Components, log zerolog.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, c: c, log: log, now: time.Now}
}

// StatePath is state/pipeline_state_<date>.json under the output root.
func StatePath(outputRoot, date string) string {
	return filepath.Join(outputRoot, "state", fmt.Sprintf("pipeline_state_%s.json", date))
}

// run holds the artifacts of one invocation, produced or loaded.
type run struct {
	day    time.Time
	date   string
	doc    *types.NewsDocument
	script *types.NarrationScript
	audio  *types.NarrationAudio
	vis    *types.Visuals
	video  *types.VideoArtifact
}

// Run executes the selected stages. The returned state is always non-nil
// and has been written to disk. news.ErrNoArticles is returned as is.
func (p *Pipeline) Run(ctx context.Context, day time.Time, opts Options) (*types.PipelineState, error) {
	r := &run{day: day, date: day.Format(types.DateLayout)}
	state := &types.PipelineState{
		RunID:     uuid.NewString()[:8],
		Date:      r.date,
		StartedAt: p.now().UTC().Format(time.RFC3339),
	}
	p.log.Info().Str("run_id", state.RunID).Str("date", r.date).Str("from", string(opts.From)).Bool("publish", opts.Publish).
		Msg("🎬 UPSC daily pipeline starting")

	err := p.execute(ctx, r, state, opts)

	state.CompletedAt = p.now().UTC().Format(time.RFC3339)
	if err != nil {
		state.Error = err.Error()
	}
	if serr := SaveState(p.cfg.Paths.Output, state); serr != nil {
		p.log.Warn().Err(serr).Msg("could not save pipeline state")
	}

	switch {
	case errors.Is(err, news.ErrNoArticles):
		p.log.Warn().Msg("No relevant news today, nothing to publish")
	case err != nil:
		p.log.Error().Err(err).Msg("❌ Pipeline failed")
	default:
		p.log.Info().Str("video", p.videoPath(r)).Str("url", state.YouTubeURL).Msg("✅ Pipeline complete!")
	}
	return state, err
}

func (p *Pipeline) videoPath(r *run) string {
	if r.video == nil {
		return ""
	}
	return r.video.Path
}

func (p *Pipeline) execute(ctx context.Context, r *run, state *types.PipelineState, opts Options) error {
	steps := []struct {
		stage Stage
		title string
		fn    func(context.Context, *run, *types.PipelineState) error
	}{
		{StageNews, "News Collection", p.news},
		{StageScript, "Script Writing", p.script},
		{StageAudio, "Audio Generation", p.audio},
		{StageVisuals, "Visuals", p.visuals},
		{StageVideo, "Rendering", p.video},
		{StagePublish, "YouTube Upload", p.publish},
	}

	for i, s := range steps {
		if !opts.Runs(s.stage) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return &StageError{Stage: s.stage, Err: err}
		}
		p.log.Info().Msgf("━━━ STAGE %d: %s ━━━", i+1, s.title)
		state.Stage = string(s.stage)
		if err := s.fn(ctx, r, state); err != nil {
			if errors.Is(err, news.ErrNoArticles) {
				return err
			}
			return &StageError{Stage: s.stage, Err: err}
		}
	}
	return nil
}

func (p *Pipeline) news(ctx context.Context, r *run, state *types.PipelineState) error {
	doc, err := p.c.News.Run(ctx, r.day)
	if doc != nil {
		// an empty document still supersedes an earlier one for the date
		path, serr := news.NewStore(p.cfg.Paths.Output).Save(doc)
		if serr != nil {
			return serr
		}
		state.NewsFile = path
		state.ArticleCount = doc.TotalArticles
	}
	if err != nil {
		return err
	}
	r.doc = doc
	return nil
}

func (p *Pipeline) script(ctx context.Context, r *run, state *types.PipelineState) error {
	if err := p.needDoc(r); err != nil {
		return err
	}
	if r.doc.Empty() {
		return news.ErrNoArticles
	}
	s, err := p.c.Script.Run(ctx, r.doc)
	if err != nil {
		return err
	}
	path, err := script.Save(p.cfg.Paths.Output, s)
	if err != nil {
		return err
	}
	r.script = s
	state.ScriptFile = path
	state.FallbackItems = s.FallbackCount()
	if state.FallbackItems > 0 {
		p.log.Warn().Int("fallback_items", state.FallbackItems).Int("items", len(s.Items)).Msg("script used fallback bodies")
	}
	return nil
}

func (p *Pipeline) audio(ctx context.Context, r *run, state *types.PipelineState) error {
	if err := p.needScript(r); err != nil {
		return err
	}
	a, err := p.c.Audio.Run(ctx, r.script)
	if err != nil {
		return err
	}
	r.audio = a
	state.Audio = a
	return nil
}

func (p *Pipeline) visuals(ctx context.Context, r *run, state *types.PipelineState) error {
	v, err := p.c.Visuals.Run(ctx, r.day)
	if err != nil {
		return err
	}
	r.vis = v
	state.Visuals = v
	return nil
}

func (p *Pipeline) video(ctx context.Context, r *run, state *types.PipelineState) error {
	if err := p.needAudio(r); err != nil {
		return err
	}
	if err := p.needVisuals(r); err != nil {
		return err
	}
	v, err := p.c.Video.Run(ctx, r.date, r.vis.Background, r.audio.Path)
	if err != nil {
		return err
	}
	r.video = v
	state.Video = v
	return nil
}

func (p *Pipeline) publish(ctx context.Context, r *run, state *types.PipelineState) error {
	if err := p.needVideo(r); err != nil {
		return err
	}
	if r.vis == nil {
		// thumbnail is optional
		_ = p.needVisuals(r)
	}
	if r.doc == nil {
		_ = p.needDoc(r)
	}

	md := p.c.Metadata.Build(r.day, r.doc)
	state.Metadata = md

	thumb := ""
	if r.vis != nil {
		thumb = r.vis.Thumbnail
	}
	pub, err := p.c.Publisher.Run(ctx, r.video.Path, thumb, md)
	if err != nil {
		return err
	}
	state.YouTubeID = pub.VideoID
	state.YouTubeURL = pub.URL
	return nil
}

func (p *Pipeline) needDoc(r *run) error {
	if r.doc != nil {
		return nil
	}
	doc, err := news.NewStore(p.cfg.Paths.Output).Load(r.date)
	if err != nil {
		return fmt.Errorf("%w: news document: %v", ErrInputMissing, err)
	}
	r.doc = doc
	return nil
}

func (p *Pipeline) needScript(r *run) error {
	if r.script != nil {
		return nil
	}
	s, err := script.Load(p.cfg.Paths.Output, r.date)
	if err != nil {
		// no script because the day had no news
		if p.needDoc(r) == nil && r.doc.Empty() {
			return news.ErrNoArticles
		}
		return fmt.Errorf("%w: script: %v", ErrInputMissing, err)
	}
	r.script = s
	return nil
}

func (p *Pipeline) needAudio(r *run) error {
	if r.audio != nil {
		return nil
	}
	path := audio.OutputPath(p.cfg.Paths.Output, r.date)
	if err := requireFile(path); err != nil {
		return err
	}
	r.audio = &types.NarrationAudio{Path: path}
	return nil
}

func (p *Pipeline) needVisuals(r *run) error {
	if r.vis != nil {
		return nil
	}
	bg := visuals.BackgroundPath(p.cfg.Paths.Output, r.date)
	if err := requireFile(bg); err != nil {
		return err
	}
	r.vis = &types.Visuals{Background: bg}
	if thumb := visuals.ThumbnailPath(p.cfg.Paths.Output, r.date); requireFile(thumb) == nil {
		r.vis.Thumbnail = thumb
	}
	return nil
}

func (p *Pipeline) needVideo(r *run) error {
	if r.video != nil {
		return nil
	}
	path := render.OutputPath(p.cfg.Paths.Output, r.date)
	if err := requireFile(path); err != nil {
		return err
	}
	r.video = &types.VideoArtifact{Path: path}
	return nil
}

func requireFile(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInputMissing, path)
	}
	if fi.Size() == 0 {
		return fmt.Errorf("%w: %s is empty", ErrInputMissing, path)
	}
	return nil
}

// SaveState writes the run state for its date, replacing any earlier one.
func SaveState(outputRoot string, state *types.PipelineState) error {
	path := StatePath(outputRoot, state.Date)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
