package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"upsc-daily-pipeline/config"
	"upsc-daily-pipeline/types"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// VideoService is the slice of the YouTube Data API the uploader needs.
type VideoService interface {
	Insert(ctx context.Context, video *youtube.Video, media io.Reader, notifySubscribers bool) (*youtube.Video, error)
	SetThumbnail(ctx context.Context, videoID string, media io.Reader) error
}

// Uploader handles YouTube video upload via Data API v3
type Uploader struct {
	cfg *config.Config
	svc VideoService
	log zerolog.Logger
	now func() time.Time
}

// New creates an Uploader that connects with the configured refresh token on first use.
func New(cfg *config.Config, log zerolog.Logger) *Uploader {
	return &Uploader{cfg: cfg, log: log, now: time.Now}
}

// NewWithService creates an Uploader around an existing service.
func NewWithService(cfg *config.Config, svc VideoService, log zerolog.Logger) *Uploader {
	return &Uploader{cfg: cfg, svc: svc, log: log, now: time.Now}
}

// Run uploads the video, sets the thumbnail and writes an upload log.
// Only the video insert is fatal.
func (u *Uploader) Run(ctx context.Context, videoFile, thumbnail string, md *types.VideoMetadata) (*types.Publication, error) {
	if u.svc == nil {
		u.log.Info().Msg("Authenticating with YouTube API...")
		svc, err := Connect(ctx, u.cfg.Upload)
		if err != nil {
			return nil, fmt.Errorf("youtube auth: %w", err)
		}
		u.svc = svc
	}

	f, err := os.Open(videoFile)
	if err != nil {
		return nil, fmt.Errorf("open video file: %w", err)
	}
	defer f.Close()

	if fi, err := f.Stat(); err == nil {
		u.log.Info().Str("title", md.Title).Float64("size_mb", float64(fi.Size())/1024/1024).Msg("Uploading...")
	}

	uploaded, err := u.svc.Insert(ctx, u.video(md), f, u.cfg.Upload.NotifySubscribers)
	if err != nil {
		return nil, fmt.Errorf("youtube upload: %w", err)
	}

	pub := &types.Publication{
		VideoID: uploaded.Id,
		URL:     fmt.Sprintf("https://www.youtube.com/watch?v=%s", uploaded.Id),
	}
	u.log.Info().Str("video_id", pub.VideoID).Str("url", pub.URL).Msg("✅ Uploaded successfully")

	if thumbnail != "" {
		if err := u.setThumbnail(ctx, pub.VideoID, thumbnail); err != nil {
			u.log.Warn().Err(err).Msg("thumbnail upload failed")
		} else {
			u.log.Info().Msg("✅ Thumbnail uploaded")
		}
	}

	if logFile, err := LogUpload(u.cfg.Paths.Logs, videoFile, pub, md, u.now()); err != nil {
		u.log.Warn().Err(err).Msg("could not write upload log")
	} else {
		u.log.Info().Str("file", logFile).Msg("Upload log saved")
	}
	return pub, nil
}

func (u *Uploader) video(md *types.VideoMetadata) *youtube.Video {
	status := &youtube.VideoStatus{
		PrivacyStatus:           md.Visibility,
		SelfDeclaredMadeForKids: u.cfg.Upload.MadeForKids,
		ForceSendFields:         []string{"SelfDeclaredMadeForKids"},
	}
	if md.ScheduledTimeUTC != "" {
		status.PrivacyStatus = "private" // must be private to schedule
		status.PublishAt = md.ScheduledTimeUTC
	}
	return &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:                md.Title,
			Description:          md.Description,
			Tags:                 md.Tags,
			CategoryId:           md.CategoryID,
			DefaultLanguage:      u.cfg.Upload.DefaultLanguage,
			DefaultAudioLanguage: u.cfg.Upload.DefaultLanguage,
		},
		Status: status,
	}
}

func (u *Uploader) setThumbnail(ctx context.Context, videoID, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return u.svc.SetThumbnail(ctx, videoID, f)
}

// Connect builds a YouTube service from the refresh token.
func Connect(ctx context.Context, uc config.UploadConfig) (VideoService, error) {
	conf := &oauth2.Config{
		ClientID:     uc.ClientID,
		ClientSecret: uc.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{youtube.YoutubeUploadScope, youtube.YoutubeScope},
	}
	token := &oauth2.Token{
		RefreshToken: uc.RefreshToken,
		Expiry:       time.Now().Add(-time.Hour), // force refresh
	}

	svc, err := youtube.NewService(ctx, option.WithHTTPClient(conf.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	return &apiService{svc: svc}, nil
}

type apiService struct {
	svc *youtube.Service
}

// notifySubscribers is a query parameter of videos.insert, not part of the video resource.
func (a *apiService) Insert(ctx context.Context, video *youtube.Video, media io.Reader, notifySubscribers bool) (*youtube.Video, error) {
	return a.svc.Videos.Insert([]string{"snippet", "status"}, video).
		NotifySubscribers(notifySubscribers).
		Media(media).
		Context(ctx).
		Do()
}

func (a *apiService) SetThumbnail(ctx context.Context, videoID string, media io.Reader) error {
	_, err := a.svc.Thumbnails.Set(videoID).Media(media).Context(ctx).Do()
	return err
}

type uploadLog struct {
	VideoID      string `json:"video_id"`
	VideoURL     string `json:"video_url"`
	Title        string `json:"title"`
	Visibility   string `json:"visibility"`
	ScheduledUTC string `json:"scheduled_utc"`
	UploadedAt   string `json:"uploaded_at"`
	VideoFile    string `json:"video_file"`
}

// LogUpload saves the upload result as logs/upload_<timestamp>.json
func LogUpload(logsDir, videoFile string, pub *types.Publication, md *types.VideoMetadata, at time.Time) (string, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return "", err
	}
	entry := uploadLog{
		VideoID:      pub.VideoID,
		VideoURL:     pub.URL,
		Title:        md.Title,
		Visibility:   md.Visibility,
		ScheduledUTC: md.ScheduledTimeUTC,
		UploadedAt:   at.UTC().Format(time.RFC3339),
		VideoFile:    videoFile,
	}
	logFile := filepath.Join(logsDir, fmt.Sprintf("upload_%s.json", at.Format("20060102_150405")))
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return "", err
	}
	return logFile, os.WriteFile(logFile, data, 0o644)
}
