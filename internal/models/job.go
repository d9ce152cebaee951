package models

import (
	"github.com/google/uuid"
)

// Job statuses. Jobs live only in process memory: a restart discards
// them and pollers observe "job not found".
const (
	JobQueued     = "queued"
	JobProcessing = "processing"
	JobCompleted  = "completed"
)

// Job processing stages. A full job runs metadata, transcript and
// summary; the limited stages re-run only one half for existing videos.
const (
	StageFull       = "full"
	StageTranscript = "transcript"
	StageSummary    = "summary"
)

// JobOptions carries the per-batch settings chosen at submission.
// Language pins transcript retrieval to one caption language instead of
// the automatic fallback chain; empty means automatic.
type JobOptions struct {
	SkipAI   bool
	Force    bool
	Stage    string
	Language string
	UserID   *uuid.UUID
}

// JobSnapshot is the point-in-time view returned to pollers.
type JobSnapshot struct {
	JobID      string  `json:"job_id"`
	Status     string  `json:"status"`
	Total      int     `json:"total"`
	Completed  int     `json:"completed"`
	Failed     int     `json:"failed"`
	CurrentURL *string `json:"current_url"`
	SkipAI     bool    `json:"skip_ai"`
}

// SubmitResult reports what a batch submission accepted.
type SubmitResult struct {
	JobID             string `json:"job_id"`
	TotalURLs         int    `json:"total_urls"`
	DuplicatesRemoved int    `json:"duplicates_removed"`
}

type SubmitJobRequest struct {
	URLs   string `json:"urls"`
	SkipAI bool   `json:"skip_ai"`
	Force  bool   `json:"force"`
}

type BulkVideosRequest struct {
	VideoIDs []uuid.UUID `json:"video_ids"`
}

// API error envelope.
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
