package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/naveensalgaonker/youtubeVideoHelper/internal/middleware"
	"github.com/naveensalgaonker/youtubeVideoHelper/internal/models"
	"github.com/naveensalgaonker/youtubeVideoHelper/internal/services"
	"github.com/naveensalgaonker/youtubeVideoHelper/internal/worker"
)

type videoURLSource interface {
	ListByIDs(ctx context.Context, ids []uuid.UUID, userID *uuid.UUID) ([]*models.Video, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error)
}

type captionSource interface {
	ListAvailableCaptions(ctx context.Context, videoID string) ([]services.CaptionTrack, error)
}

type captionListResponse struct {
	VideoID  string                  `json:"video_id"`
	Captions []services.CaptionTrack `json:"captions"`
}

// JobHandler fronts the coordinator: batch submission, polling, and the
// bulk/retry re-run endpoints that enqueue stage-limited jobs.
type JobHandler struct {
	coordinator *worker.Coordinator
	videos      videoURLSource
	captions    captionSource
}

func NewJobHandler(coordinator *worker.Coordinator, videos videoURLSource, captions captionSource) *JobHandler {
	return &JobHandler{coordinator: coordinator, videos: videos, captions: captions}
}

func (h *JobHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	result, err := h.coordinator.Submit(req.URLs, models.JobOptions{
		SkipAI: req.SkipAI,
		Force:  req.Force,
		Stage:  models.StageFull,
		UserID: &userID,
	})
	if err != nil {
		if errors.Is(err, worker.ErrEmptyInput) {
			writeJSON(w, http.StatusBadRequest, errorResp("EMPTY_INPUT", "No URLs provided", r))
			return
		}
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, result)
}

func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	userID := middleware.GetUserID(r.Context())

	snap, err := h.coordinator.Progress(jobID, &userID)
	if err != nil {
		if errors.Is(err, worker.ErrJobNotFound) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Job not found", r))
			return
		}
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// BulkTranscripts re-runs transcript extraction for the selected videos
// as one queued job.
func (h *JobHandler) BulkTranscripts(w http.ResponseWriter, r *http.Request) {
	h.submitBulk(w, r, models.StageTranscript)
}

// BulkSummaries re-runs summarization for the selected videos as one
// queued job.
func (h *JobHandler) BulkSummaries(w http.ResponseWriter, r *http.Request) {
	h.submitBulk(w, r, models.StageSummary)
}

func (h *JobHandler) submitBulk(w http.ResponseWriter, r *http.Request, stage string) {
	var req models.BulkVideosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	videos, err := h.videos.ListByIDs(r.Context(), req.VideoIDs, &userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if len(videos) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("EMPTY_INPUT", "No matching videos", r))
		return
	}

	urls := make([]string, 0, len(videos))
	for _, v := range videos {
		urls = append(urls, v.VideoURL)
	}

	result, err := h.coordinator.SubmitURLs(urls, models.JobOptions{
		Stage:  stage,
		UserID: &userID,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, result)
}

// RetryTranscript re-runs metadata and transcript extraction for one
// failed video.
func (h *JobHandler) RetryTranscript(w http.ResponseWriter, r *http.Request) {
	h.submitRetry(w, r, models.StageTranscript)
}

// RetrySummary re-runs summarization for one video from its stored
// transcript.
func (h *JobHandler) RetrySummary(w http.ResponseWriter, r *http.Request) {
	h.submitRetry(w, r, models.StageSummary)
}

func (h *JobHandler) submitRetry(w http.ResponseWriter, r *http.Request, stage string) {
	h.submitSingle(w, r, models.JobOptions{Stage: stage})
}

// ListCaptions reports the caption tracks YouTube advertises for one
// video, so the client can offer a language choice before a transcript
// re-run.
func (h *JobHandler) ListCaptions(w http.ResponseWriter, r *http.Request) {
	video, ok := h.ownedVideo(w, r)
	if !ok {
		return
	}

	tracks, err := h.captions.ListAvailableCaptions(r.Context(), video.VideoID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, captionListResponse{
		VideoID:  video.VideoID,
		Captions: tracks,
	})
}

// FetchTranscriptLanguage queues a transcript re-run pinned to the
// caption language the user picked from ListCaptions.
func (h *JobHandler) FetchTranscriptLanguage(w http.ResponseWriter, r *http.Request) {
	language := chi.URLParam(r, "language")
	if !captionLanguageRe.MatchString(language) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid language code", r))
		return
	}

	h.submitSingle(w, r, models.JobOptions{
		Stage:    models.StageTranscript,
		Language: language,
	})
}

var captionLanguageRe = regexp.MustCompile(`^[a-zA-Z]{2,3}(-[a-zA-Z0-9]{2,8})*$`)

// submitSingle queues a one-video job for the {id} in the route, after
// the ownership check shared by the retry and language endpoints.
func (h *JobHandler) submitSingle(w http.ResponseWriter, r *http.Request, opts models.JobOptions) {
	video, ok := h.ownedVideo(w, r)
	if !ok {
		return
	}

	userID := middleware.GetUserID(r.Context())
	opts.UserID = &userID

	result, err := h.coordinator.SubmitURLs([]string{video.VideoURL}, opts)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, result)
}

func (h *JobHandler) ownedVideo(w http.ResponseWriter, r *http.Request) (*models.Video, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid video ID", r))
		return nil, false
	}

	userID := middleware.GetUserID(r.Context())
	video, err := h.videos.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, &services.NotFoundError{Message: "Video not found"})
		return nil, false
	}
	if video.UserID != nil && *video.UserID != userID {
		handleServiceError(w, r, &services.ForbiddenError{Message: "Video belongs to another user"})
		return nil, false
	}
	return video, true
}
