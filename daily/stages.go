// Package daily sequences the stages that turn one day's news into a video.
package daily

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"upsc-daily-pipeline/types"
)

// Stage names one step of the daily run.
type Stage string

const (
	StageNews    Stage = "news"
	StageScript  Stage = "script"
	StageAudio   Stage = "audio"
	StageVisuals Stage = "visuals"
	StageVideo   Stage = "video"
	StagePublish Stage = "publish"
)

// Stages is the fixed execution order.
var Stages = []Stage{StageNews, StageScript, StageAudio, StageVisuals, StageVideo, StagePublish}

// ParseStage accepts a stage name, case-insensitively.
func ParseStage(s string) (Stage, error) {
	want := Stage(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range Stages {
		if st == want {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown stage %q (want one of %v)", s, Stages)
}

func (s Stage) index() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// ErrInputMissing means a stage's input artifact is not on disk.
var ErrInputMissing = errors.New("required input missing")

// StageError wraps the failure that halted a run.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("stage %s: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }

type NewsSource interface {
	Run(ctx context.Context, day time.Time) (*types.NewsDocument, error)
}

type ScriptAssembler interface {
	Run(ctx context.Context, doc *types.NewsDocument) (*types.NarrationScript, error)
}

type AudioPipeline interface {
	Run(ctx context.Context, s *types.NarrationScript) (*types.NarrationAudio, error)
}

type VisualAssembler interface {
	Run(ctx context.Context, day time.Time) (*types.Visuals, error)
}

type VideoMuxer interface {
	Run(ctx context.Context, date, image, audio string) (*types.VideoArtifact, error)
}

type MetadataBuilder interface {
	Build(day time.Time, doc *types.NewsDocument) *types.VideoMetadata
}

type Publisher interface {
	Run(ctx context.Context, videoFile, thumbnail string, md *types.VideoMetadata) (*types.Publication, error)
}

// Components are the stage implementations. Stages a run skips may be nil.
type Components struct {
	News      NewsSource
	Script    ScriptAssembler
	Audio     AudioPipeline
	Visuals   VisualAssembler
	Video     VideoMuxer
	Metadata  MetadataBuilder
	Publisher Publisher
}

// Options select where a run starts and stops and whether it publishes.
// Empty From and To mean the first and last stage.
type Options struct {
	From    Stage
	To      Stage
	Publish bool
}

// Runs reports whether stage s executes under o.
func (o Options) Runs(s Stage) bool {
	if s == StagePublish && !o.Publish {
		return false
	}
	from := o.From
	if from == "" {
		from = StageNews
	}
	if s.index() < from.index() {
		return false
	}
	return o.To == "" || s.index() <= o.To.index()
}
