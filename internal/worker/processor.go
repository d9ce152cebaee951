package worker

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/naveensalgaonker/youtubeVideoHelper/internal/models"
	"github.com/naveensalgaonker/youtubeVideoHelper/internal/services"
)

// Narrow dependencies so the processor is testable with in-memory fakes.

type videoLookup interface {
	FetchMetadata(ctx context.Context, url string) (*services.VideoMetadata, error)
	GetTranscription(ctx context.Context, videoID string) (*services.TranscriptResult, error)
	GetTranscriptionInLanguage(ctx context.Context, videoID, languageCode string) (*services.TranscriptResult, error)
}

type summarizerProvider interface {
	ForUser(ctx context.Context, userID *uuid.UUID) (services.Summarizer, error)
}

type videoStore interface {
	Create(ctx context.Context, v *models.Video) error
	GetByVideoID(ctx context.Context, videoID string) (*models.Video, error)
	Claim(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateMetadata(ctx context.Context, id uuid.UUID, title string, durationSeconds *int, channelName, uploadDate *string) error
}

type transcriptStore interface {
	Replace(ctx context.Context, t *models.Transcript) error
	GetByVideoID(ctx context.Context, videoID uuid.UUID) (*models.Transcript, error)
}

type summaryStore interface {
	Replace(ctx context.Context, s *models.Summary) error
}

// Processor runs the per-video state machine: pending -> processing ->
// completed/failed. One call handles one URL end to end.
type Processor struct {
	lookup      videoLookup
	summarizers summarizerProvider
	videos      videoStore
	transcripts transcriptStore
	summaries   summaryStore
}

func NewProcessor(lookup videoLookup, summarizers summarizerProvider, videos videoStore, transcripts transcriptStore, summaries summaryStore) *Processor {
	return &Processor{
		lookup:      lookup,
		summarizers: summarizers,
		videos:      videos,
		transcripts: transcripts,
		summaries:   summaries,
	}
}

// ProcessURL runs one video through its lifecycle. A nil return means the
// video completed (or was skipped as already done); any error means the
// video resolved to failed, except ErrInvalidURL which creates no record
// at all.
func (p *Processor) ProcessURL(ctx context.Context, url string, opts models.JobOptions) error {
	videoID := services.ExtractVideoID(url)
	if videoID == "" {
		return fmt.Errorf("%w: %s", services.ErrInvalidURL, url)
	}

	video, err := p.videos.GetByVideoID(ctx, videoID)
	if errors.Is(err, pgx.ErrNoRows) {
		if opts.Stage != models.StageFull {
			return fmt.Errorf("video %s not found for %s re-run", videoID, opts.Stage)
		}
		video = &models.Video{
			UserID:   opts.UserID,
			VideoID:  videoID,
			VideoURL: url,
			Title:    url,
			Status:   models.StatusPending,
		}
		if err := p.videos.Create(ctx, video); err != nil {
			return fmt.Errorf("create video record: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("look up video record: %w", err)
	} else if video.Status == models.StatusCompleted && !opts.Force && opts.Stage == models.StageFull {
		log.Printf("Video %s already completed, skipping", videoID)
		return nil
	}

	claimed, err := p.videos.Claim(ctx, video.ID)
	if err != nil {
		return p.fail(ctx, video.ID, fmt.Errorf("claim video: %w", err))
	}
	if !claimed {
		// Another attempt owns the processing status. With a single
		// consumer this only happens after a crash mid-video; treat it
		// as owned elsewhere and move on.
		log.Printf("Video %s already processing, skipping", videoID)
		return nil
	}

	switch opts.Stage {
	case models.StageSummary:
		err = p.runSummaryStage(ctx, video, opts)
	default:
		err = p.runFullStage(ctx, video, opts)
	}
	if err != nil {
		return p.fail(ctx, video.ID, err)
	}

	if err := p.videos.UpdateStatus(ctx, video.ID, models.StatusCompleted); err != nil {
		// The work is done but the claim cannot be released as
		// completed; resolve to failed so the video is never left in
		// processing once this attempt returns.
		return p.fail(ctx, video.ID, fmt.Errorf("mark video completed: %w", err))
	}
	return nil
}

// runFullStage covers both full processing and transcript-only re-runs:
// metadata, transcript, then summary unless the stage or options skip it.
func (p *Processor) runFullStage(ctx context.Context, video *models.Video, opts models.JobOptions) error {
	meta, err := p.lookup.FetchMetadata(ctx, video.VideoURL)
	if err != nil {
		return fmt.Errorf("fetch metadata: %w", err)
	}

	var duration *int
	if meta.DurationSeconds > 0 {
		duration = &meta.DurationSeconds
	}
	var channel, uploadDate *string
	if meta.ChannelName != "" {
		channel = &meta.ChannelName
	}
	if meta.UploadDate != "" {
		uploadDate = &meta.UploadDate
	}
	if err := p.videos.UpdateMetadata(ctx, video.ID, meta.Title, duration, channel, uploadDate); err != nil {
		return fmt.Errorf("persist metadata: %w", err)
	}
	video.Title = meta.Title

	var transcript *services.TranscriptResult
	if opts.Language != "" {
		transcript, err = p.lookup.GetTranscriptionInLanguage(ctx, video.VideoID, opts.Language)
	} else {
		transcript, err = p.lookup.GetTranscription(ctx, video.VideoID)
	}
	if err != nil {
		return fmt.Errorf("fetch transcript: %w", err)
	}

	record := &models.Transcript{
		VideoID:  video.ID,
		Text:     transcript.Text,
		Language: transcript.Language,
		Source:   transcript.Source,
	}
	if err := p.transcripts.Replace(ctx, record); err != nil {
		return fmt.Errorf("persist transcript: %w", err)
	}

	if opts.SkipAI || opts.Stage == models.StageTranscript {
		return nil
	}
	return p.summarize(ctx, video, transcript.Text, opts)
}

// runSummaryStage re-summarizes from the stored transcript without
// touching metadata or captions.
func (p *Processor) runSummaryStage(ctx context.Context, video *models.Video, opts models.JobOptions) error {
	transcript, err := p.transcripts.GetByVideoID(ctx, video.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("video %s has no transcript to summarize", video.VideoID)
		}
		return fmt.Errorf("load transcript: %w", err)
	}
	return p.summarize(ctx, video, transcript.Text, opts)
}

func (p *Processor) summarize(ctx context.Context, video *models.Video, transcriptText string, opts models.JobOptions) error {
	summarizer, err := p.summarizers.ForUser(ctx, opts.UserID)
	if err != nil {
		return fmt.Errorf("build summarizer: %w", err)
	}

	result, err := summarizer.Summarize(ctx, video.Title, transcriptText)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	record := &models.Summary{
		VideoID:  video.ID,
		Text:     result.Summary,
		Category: result.Category,
		AIModel:  summarizer.Model(),
	}
	if err := p.summaries.Replace(ctx, record); err != nil {
		return fmt.Errorf("persist summary: %w", err)
	}
	return nil
}

// fail resolves the video to failed and passes the cause through. The
// status write is best-effort: the original error is the one worth
// reporting.
func (p *Processor) fail(ctx context.Context, id uuid.UUID, cause error) error {
	if err := p.videos.UpdateStatus(ctx, id, models.StatusFailed); err != nil {
		log.Printf("Failed to mark video %s as failed: %v", id, err)
	}
	return cause
}
