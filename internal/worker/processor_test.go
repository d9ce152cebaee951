package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/naveensalgaonker/youtubeVideoHelper/internal/models"
	"github.com/naveensalgaonker/youtubeVideoHelper/internal/services"
)

// ─── Fakes ───

type fakeLookup struct {
	meta          *services.VideoMetadata
	metaErr       error
	transcript    *services.TranscriptResult
	transcriptErr error
	autoCalls     int
	langRequested string
}

func (f *fakeLookup) FetchMetadata(ctx context.Context, url string) (*services.VideoMetadata, error) {
	if f.metaErr != nil {
		return nil, f.metaErr
	}
	return f.meta, nil
}

func (f *fakeLookup) GetTranscription(ctx context.Context, videoID string) (*services.TranscriptResult, error) {
	f.autoCalls++
	if f.transcriptErr != nil {
		return nil, f.transcriptErr
	}
	return f.transcript, nil
}

func (f *fakeLookup) GetTranscriptionInLanguage(ctx context.Context, videoID, languageCode string) (*services.TranscriptResult, error) {
	f.langRequested = languageCode
	if f.transcriptErr != nil {
		return nil, f.transcriptErr
	}
	return &services.TranscriptResult{Text: f.transcript.Text, Language: languageCode, Source: "manual"}, nil
}

type fakeSummarizer struct {
	result *services.SummaryResult
	err    error
	calls  int
}

func (f *fakeSummarizer) Summarize(ctx context.Context, title, transcript string) (*services.SummaryResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeSummarizer) Model() string { return "fake-model" }

type fakeSummarizerProvider struct {
	summarizer *fakeSummarizer
	err        error
}

func (f *fakeSummarizerProvider) ForUser(ctx context.Context, userID *uuid.UUID) (services.Summarizer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.summarizer, nil
}

type fakeVideoStore struct {
	videos     map[string]*models.Video // keyed by YouTube video ID
	statuses   map[uuid.UUID]string
	created    int
	panicOn    string // video ID that panics on Claim, for loop-safety tests
	failStatus string // status whose write is refused
}

func newFakeVideoStore() *fakeVideoStore {
	return &fakeVideoStore{
		videos:   make(map[string]*models.Video),
		statuses: make(map[uuid.UUID]string),
	}
}

func (f *fakeVideoStore) Create(ctx context.Context, v *models.Video) error {
	v.ID = uuid.New()
	f.videos[v.VideoID] = v
	f.statuses[v.ID] = v.Status
	f.created++
	return nil
}

func (f *fakeVideoStore) GetByVideoID(ctx context.Context, videoID string) (*models.Video, error) {
	v, ok := f.videos[videoID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *v
	copied.Status = f.statuses[v.ID]
	return &copied, nil
}

func (f *fakeVideoStore) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	for vid, v := range f.videos {
		if v.ID == id && vid == f.panicOn {
			panic("store exploded")
		}
	}
	if f.statuses[id] == models.StatusProcessing {
		return false, nil
	}
	f.statuses[id] = models.StatusProcessing
	return true, nil
}

func (f *fakeVideoStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if f.failStatus != "" && status == f.failStatus {
		return errors.New("status write refused")
	}
	f.statuses[id] = status
	return nil
}

func (f *fakeVideoStore) UpdateMetadata(ctx context.Context, id uuid.UUID, title string, durationSeconds *int, channelName, uploadDate *string) error {
	for _, v := range f.videos {
		if v.ID == id {
			v.Title = title
			v.DurationSeconds = durationSeconds
			v.ChannelName = channelName
			v.UploadDate = uploadDate
		}
	}
	return nil
}

func (f *fakeVideoStore) statusOf(videoID string) string {
	v, ok := f.videos[videoID]
	if !ok {
		return ""
	}
	return f.statuses[v.ID]
}

type fakeTranscriptStore struct {
	byVideo map[uuid.UUID]*models.Transcript
	calls   int
}

func newFakeTranscriptStore() *fakeTranscriptStore {
	return &fakeTranscriptStore{byVideo: make(map[uuid.UUID]*models.Transcript)}
}

func (f *fakeTranscriptStore) Replace(ctx context.Context, t *models.Transcript) error {
	f.calls++
	f.byVideo[t.VideoID] = t
	return nil
}

func (f *fakeTranscriptStore) GetByVideoID(ctx context.Context, videoID uuid.UUID) (*models.Transcript, error) {
	t, ok := f.byVideo[videoID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return t, nil
}

type fakeSummaryStore struct {
	byVideo map[uuid.UUID]*models.Summary
	calls   int
}

func newFakeSummaryStore() *fakeSummaryStore {
	return &fakeSummaryStore{byVideo: make(map[uuid.UUID]*models.Summary)}
}

func (f *fakeSummaryStore) Replace(ctx context.Context, s *models.Summary) error {
	f.calls++
	f.byVideo[s.VideoID] = s
	return nil
}

type fixture struct {
	lookup      *fakeLookup
	summarizer  *fakeSummarizer
	provider    *fakeSummarizerProvider
	videos      *fakeVideoStore
	transcripts *fakeTranscriptStore
	summaries   *fakeSummaryStore
	processor   *Processor
}

func newFixture() *fixture {
	duration := 213
	f := &fixture{
		lookup: &fakeLookup{
			meta: &services.VideoMetadata{
				VideoID:         "dQw4w9WgXcQ",
				VideoURL:        "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
				Title:           "Test Video",
				DurationSeconds: duration,
				ChannelName:     "Test Channel",
				UploadDate:      "2024-01-15",
			},
			transcript: &services.TranscriptResult{
				Text:     "Never gonna give you up",
				Language: "en",
				Source:   "manual",
			},
		},
		summarizer:  &fakeSummarizer{result: &services.SummaryResult{Summary: "A song.", Category: "Music"}},
		videos:      newFakeVideoStore(),
		transcripts: newFakeTranscriptStore(),
		summaries:   newFakeSummaryStore(),
	}
	f.provider = &fakeSummarizerProvider{summarizer: f.summarizer}
	f.processor = NewProcessor(f.lookup, f.provider, f.videos, f.transcripts, f.summaries)
	return f
}

const testURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

// ─── Per-video state machine ───

func TestProcessURL_FullPipeline(t *testing.T) {
	f := newFixture()

	if err := f.processor.ProcessURL(context.Background(), testURL, models.JobOptions{Stage: models.StageFull}); err != nil {
		t.Fatalf("ProcessURL failed: %v", err)
	}

	if got := f.videos.statusOf("dQw4w9WgXcQ"); got != models.StatusCompleted {
		t.Errorf("Expected status completed, got %q", got)
	}
	if f.transcripts.calls != 1 {
		t.Errorf("Expected 1 transcript write, got %d", f.transcripts.calls)
	}
	if f.summaries.calls != 1 {
		t.Errorf("Expected 1 summary write, got %d", f.summaries.calls)
	}

	video := f.videos.videos["dQw4w9WgXcQ"]
	if video.Title != "Test Video" {
		t.Errorf("Expected metadata title persisted, got %q", video.Title)
	}
	summary := f.summaries.byVideo[video.ID]
	if summary == nil || summary.Category != "Music" {
		t.Errorf("Expected Music summary persisted, got %+v", summary)
	}
	if summary.AIModel != "fake-model" {
		t.Errorf("Expected generating model recorded, got %q", summary.AIModel)
	}
}

func TestProcessURL_SkipAI(t *testing.T) {
	f := newFixture()

	err := f.processor.ProcessURL(context.Background(), testURL, models.JobOptions{Stage: models.StageFull, SkipAI: true})
	if err != nil {
		t.Fatalf("ProcessURL failed: %v", err)
	}

	if f.summarizer.calls != 0 {
		t.Errorf("Expected summarizer never called, got %d calls", f.summarizer.calls)
	}
	if f.summaries.calls != 0 {
		t.Errorf("Expected no summary writes, got %d", f.summaries.calls)
	}
	if got := f.videos.statusOf("dQw4w9WgXcQ"); got != models.StatusCompleted {
		t.Errorf("Expected status completed without AI, got %q", got)
	}
}

func TestProcessURL_InvalidURL(t *testing.T) {
	f := newFixture()

	err := f.processor.ProcessURL(context.Background(), "not-a-url", models.JobOptions{Stage: models.StageFull})
	if !errors.Is(err, services.ErrInvalidURL) {
		t.Fatalf("Expected ErrInvalidURL, got %v", err)
	}
	if f.videos.created != 0 {
		t.Errorf("Expected no video record for invalid URL, got %d", f.videos.created)
	}
}

func TestProcessURL_NoTranscript(t *testing.T) {
	f := newFixture()
	f.lookup.transcriptErr = services.ErrNoTranscript

	err := f.processor.ProcessURL(context.Background(), testURL, models.JobOptions{Stage: models.StageFull})
	if err == nil {
		t.Fatal("Expected failure when no transcript exists")
	}

	if got := f.videos.statusOf("dQw4w9WgXcQ"); got != models.StatusFailed {
		t.Errorf("Expected status failed, got %q", got)
	}
	if f.transcripts.calls != 0 {
		t.Errorf("Expected no transcript rows, got %d", f.transcripts.calls)
	}
	if f.summaries.calls != 0 {
		t.Errorf("Expected no summary rows, got %d", f.summaries.calls)
	}
}

func TestProcessURL_MetadataFailure(t *testing.T) {
	f := newFixture()
	f.lookup.metaErr = services.ErrLookupFailed

	err := f.processor.ProcessURL(context.Background(), testURL, models.JobOptions{Stage: models.StageFull})
	if err == nil {
		t.Fatal("Expected failure when metadata lookup fails")
	}
	if got := f.videos.statusOf("dQw4w9WgXcQ"); got != models.StatusFailed {
		t.Errorf("Expected status failed, got %q", got)
	}
}

func TestProcessURL_CompletedSkippedWithoutForce(t *testing.T) {
	f := newFixture()
	opts := models.JobOptions{Stage: models.StageFull}

	if err := f.processor.ProcessURL(context.Background(), testURL, opts); err != nil {
		t.Fatalf("First run failed: %v", err)
	}

	// Second run must be a no-op success that writes nothing new.
	if err := f.processor.ProcessURL(context.Background(), testURL, opts); err != nil {
		t.Fatalf("Re-run of completed video should succeed: %v", err)
	}
	if f.transcripts.calls != 1 {
		t.Errorf("Expected transcript untouched on skip, got %d writes", f.transcripts.calls)
	}
	if f.summaries.calls != 1 {
		t.Errorf("Expected summary untouched on skip, got %d writes", f.summaries.calls)
	}
}

func TestProcessURL_ForceReprocesses(t *testing.T) {
	f := newFixture()

	if err := f.processor.ProcessURL(context.Background(), testURL, models.JobOptions{Stage: models.StageFull}); err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	if err := f.processor.ProcessURL(context.Background(), testURL, models.JobOptions{Stage: models.StageFull, Force: true}); err != nil {
		t.Fatalf("Forced re-run failed: %v", err)
	}

	if f.transcripts.calls != 2 {
		t.Errorf("Expected transcript replaced on force, got %d writes", f.transcripts.calls)
	}
	if f.videos.created != 1 {
		t.Errorf("Expected a single video record, got %d", f.videos.created)
	}
}

func TestProcessURL_AlreadyProcessingSkipped(t *testing.T) {
	f := newFixture()
	video := &models.Video{VideoID: "dQw4w9WgXcQ", VideoURL: testURL, Status: models.StatusProcessing}
	f.videos.Create(context.Background(), video)
	f.videos.statuses[video.ID] = models.StatusProcessing

	if err := f.processor.ProcessURL(context.Background(), testURL, models.JobOptions{Stage: models.StageFull}); err != nil {
		t.Fatalf("Expected no-op success for processing video, got %v", err)
	}
	if f.transcripts.calls != 0 {
		t.Errorf("Expected no writes for claimed video, got %d", f.transcripts.calls)
	}
}

func TestProcessURL_TranscriptStage(t *testing.T) {
	f := newFixture()

	if err := f.processor.ProcessURL(context.Background(), testURL, models.JobOptions{Stage: models.StageFull}); err != nil {
		t.Fatalf("Initial run failed: %v", err)
	}

	err := f.processor.ProcessURL(context.Background(), testURL, models.JobOptions{Stage: models.StageTranscript})
	if err != nil {
		t.Fatalf("Transcript re-run failed: %v", err)
	}

	if f.transcripts.calls != 2 {
		t.Errorf("Expected transcript refreshed, got %d writes", f.transcripts.calls)
	}
	if f.summaries.calls != 1 {
		t.Errorf("Expected summary untouched by transcript stage, got %d writes", f.summaries.calls)
	}
}

func TestProcessURL_TranscriptStageWithLanguage(t *testing.T) {
	f := newFixture()

	if err := f.processor.ProcessURL(context.Background(), testURL, models.JobOptions{Stage: models.StageFull}); err != nil {
		t.Fatalf("Initial run failed: %v", err)
	}
	f.lookup.autoCalls = 0

	err := f.processor.ProcessURL(context.Background(), testURL, models.JobOptions{Stage: models.StageTranscript, Language: "de"})
	if err != nil {
		t.Fatalf("Language re-run failed: %v", err)
	}

	if f.lookup.langRequested != "de" {
		t.Errorf("Expected caption fetch in %q, got %q", "de", f.lookup.langRequested)
	}
	if f.lookup.autoCalls != 0 {
		t.Errorf("Expected automatic fallback chain bypassed, got %d calls", f.lookup.autoCalls)
	}

	video := f.videos.videos["dQw4w9WgXcQ"]
	stored := f.transcripts.byVideo[video.ID]
	if stored == nil || stored.Language != "de" {
		t.Fatalf("Expected stored transcript in de, got %+v", stored)
	}
}

func TestProcessURL_SummaryStage(t *testing.T) {
	f := newFixture()

	if err := f.processor.ProcessURL(context.Background(), testURL, models.JobOptions{Stage: models.StageFull, SkipAI: true}); err != nil {
		t.Fatalf("Initial run failed: %v", err)
	}

	err := f.processor.ProcessURL(context.Background(), testURL, models.JobOptions{Stage: models.StageSummary})
	if err != nil {
		t.Fatalf("Summary re-run failed: %v", err)
	}

	if f.summaries.calls != 1 {
		t.Errorf("Expected summary written from stored transcript, got %d", f.summaries.calls)
	}
	if f.transcripts.calls != 1 {
		t.Errorf("Expected transcript untouched by summary stage, got %d writes", f.transcripts.calls)
	}
}

func TestProcessURL_SummaryStageWithoutTranscript(t *testing.T) {
	f := newFixture()
	video := &models.Video{VideoID: "dQw4w9WgXcQ", VideoURL: testURL, Status: models.StatusFailed}
	f.videos.Create(context.Background(), video)
	f.videos.statuses[video.ID] = models.StatusFailed

	err := f.processor.ProcessURL(context.Background(), testURL, models.JobOptions{Stage: models.StageSummary})
	if err == nil {
		t.Fatal("Expected failure when no transcript is stored")
	}
	if got := f.videos.statusOf("dQw4w9WgXcQ"); got != models.StatusFailed {
		t.Errorf("Expected status failed, got %q", got)
	}
}

func TestProcessURL_SummaryStageUnknownVideo(t *testing.T) {
	f := newFixture()

	err := f.processor.ProcessURL(context.Background(), testURL, models.JobOptions{Stage: models.StageSummary})
	if err == nil {
		t.Fatal("Expected failure for summary re-run of unknown video")
	}
	if f.videos.created != 0 {
		t.Errorf("Expected no record created by stage-limited run, got %d", f.videos.created)
	}
}

func TestProcessURL_SummarizerFailureMarksFailed(t *testing.T) {
	f := newFixture()
	f.summarizer.err = errors.New("provider down")

	err := f.processor.ProcessURL(context.Background(), testURL, models.JobOptions{Stage: models.StageFull})
	if err == nil {
		t.Fatal("Expected failure when summarizer errors")
	}

	if got := f.videos.statusOf("dQw4w9WgXcQ"); got != models.StatusFailed {
		t.Errorf("Expected status failed, got %q", got)
	}
	// The transcript from the earlier step survives the summary failure.
	if f.transcripts.calls != 1 {
		t.Errorf("Expected transcript persisted before summary failed, got %d writes", f.transcripts.calls)
	}
}

func TestProcessURL_CompletedWriteFailureResolvesToFailed(t *testing.T) {
	f := newFixture()
	f.videos.failStatus = models.StatusCompleted

	err := f.processor.ProcessURL(context.Background(), testURL, models.JobOptions{Stage: models.StageFull})
	if err == nil {
		t.Fatal("Expected error when the completed write is refused")
	}

	// The attempt must not leave the claim held: a refused completed
	// write still resolves the video to failed.
	if got := f.videos.statusOf("dQw4w9WgXcQ"); got != models.StatusFailed {
		t.Errorf("Expected status failed, got %q", got)
	}
}
