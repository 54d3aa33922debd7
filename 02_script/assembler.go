package script

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"upsc-daily-pipeline/config"
	"upsc-daily-pipeline/types"

	"github.com/rs/zerolog"
)

// ErrEmptyDocument is returned when there are no articles to narrate.
var ErrEmptyDocument = errors.New("news document has no articles")

// Assembler turns a news document into a finished narration script
type Assembler struct {
	cfg *config.Config
	gen Generator
	log zerolog.Logger
}

// New creates a new Assembler
func New(cfg *config.Config, gen Generator, log zerolog.Logger) *Assembler {
	return &Assembler{cfg: cfg, gen: gen, log: log}
}

// Run builds the script in the configured mode. It only fails on an empty
// document; generation problems degrade to fallback text.
func (a *Assembler) Run(ctx context.Context, doc *types.NewsDocument) (*types.NarrationScript, error) {
	if doc.Empty() {
		return nil, ErrEmptyDocument
	}

	var s *types.NarrationScript
	if a.cfg.Script.Mode == "bulk" {
		s = a.GenerateBulk(ctx, doc)
	} else {
		s = a.Generate(ctx, doc)
	}

	a.log.Info().
		Int("items", len(s.Items)).
		Int("fallbacks", s.FallbackCount()).
		Bool("bulk", s.IsBulk).
		Int("words", wordCount(s.Text)).
		Msg("✅ script ready")
	return s, nil
}

// Generate narrates the first MaxItems articles one call at a time.
// It always returns exactly min(len(articles), MaxItems) item bodies.
func (a *Assembler) Generate(ctx context.Context, doc *types.NewsDocument) *types.NarrationScript {
	articles := a.selectArticles(doc)
	items := make([]types.ItemBody, 0, len(articles))
	for i, art := range articles {
		items = append(items, a.GenerateItem(ctx, art, i+1))
	}
	return assemble(doc, items)
}

// GenerateItem asks the model for one article's body. Call errors are retried
// up to Retries times; a response that is empty or too short goes straight to
// the fallback body.
func (a *Assembler) GenerateItem(ctx context.Context, art types.Article, index int) types.ItemBody {
	req := Request{
		System:      systemPrompt,
		Prompt:      itemPrompt(art, index),
		Temperature: a.cfg.Script.Temperature,
		MaxTokens:   a.cfg.Script.ItemMaxTokens,
	}

	text, err := a.generateWithRetry(ctx, req, fmt.Sprintf("item %d", index))
	if err != nil {
		a.log.Warn().Err(err).Int("item", index).Msg("generation failed, using fallback body")
		return types.Fallback(index, FallbackBody(art, index), err.Error())
	}

	text = cleanNarration(text)
	if n := wordCount(text); n < a.cfg.Script.MinWords {
		reason := fmt.Sprintf("response too short: %d words, need %d", n, a.cfg.Script.MinWords)
		a.log.Warn().Int("item", index).Int("words", n).Msg("short response, using fallback body")
		return types.Fallback(index, FallbackBody(art, index), reason)
	}
	a.log.Debug().Int("item", index).Int("words", wordCount(text)).Msg("item generated")
	return types.Generated(index, text)
}

// GenerateBulk makes one large call over the article list. If that fails
// after retrying, the script is assembled from fallback bodies.
func (a *Assembler) GenerateBulk(ctx context.Context, doc *types.NewsDocument) *types.NarrationScript {
	req := Request{
		System:      systemPrompt,
		Prompt:      bulkPrompt(doc, a.cfg.Script.BulkArticles),
		Temperature: a.cfg.Script.Temperature,
		MaxTokens:   a.cfg.Script.BulkMaxTokens,
	}

	text, err := a.generateWithRetry(ctx, req, "bulk")
	if err == nil {
		text = cleanNarration(text)
		if n := wordCount(text); n < a.cfg.Script.MinWords {
			err = fmt.Errorf("response too short: %d words", n)
		}
	}
	if err != nil {
		a.log.Warn().Err(err).Msg("bulk generation failed, assembling fallback bodies")
		articles := a.selectArticles(doc)
		items := make([]types.ItemBody, 0, len(articles))
		for i, art := range articles {
			items = append(items, types.Fallback(i+1, FallbackBody(art, i+1), err.Error()))
		}
		return assemble(doc, items)
	}

	return &types.NarrationScript{
		Date:   doc.Date,
		Text:   text,
		IsBulk: true,
	}
}

func (a *Assembler) generateWithRetry(ctx context.Context, req Request, label string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= a.cfg.Script.Retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		callCtx := ctx
		var cancel context.CancelFunc = func() {}
		if a.cfg.Script.Timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, a.cfg.Script.Timeout)
		}
		text, err := a.gen.Generate(callCtx, req)
		cancel()
		if err == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}
		if err == nil {
			err = ErrEmptyResponse
		}
		lastErr = err
		a.log.Debug().Err(err).Str("call", label).Int("attempt", attempt+1).Msg("generation attempt failed")
	}
	return "", lastErr
}

func (a *Assembler) selectArticles(doc *types.NewsDocument) []types.Article {
	articles := doc.Articles
	if n := a.cfg.Script.MaxItems; n > 0 && len(articles) > n {
		articles = articles[:n]
	}
	return articles
}

// assemble joins intro, item bodies in article order, and outro.
func assemble(doc *types.NewsDocument, items []types.ItemBody) *types.NarrationScript {
	s := &types.NarrationScript{
		Date:  doc.Date,
		Intro: Intro(doc.DateDisplay),
		Items: items,
		Outro: Outro(),
	}
	bodies := make([]string, 0, len(items))
	for _, it := range items {
		bodies = append(bodies, it.Text)
	}
	s.Text = strings.Join([]string{s.Intro, strings.Join(bodies, "\n\n"), s.Outro}, "\n\n")
	return s
}
