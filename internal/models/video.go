package models

import (
	"time"

	"github.com/google/uuid"
)

// Video lifecycle statuses.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

type Video struct {
	ID              uuid.UUID  `json:"id"`
	UserID          *uuid.UUID `json:"user_id"`
	VideoID         string     `json:"video_id"`
	VideoURL        string     `json:"video_url"`
	Title           string     `json:"title"`
	DurationSeconds *int       `json:"duration_seconds"`
	ChannelName     *string    `json:"channel_name"`
	UploadDate      *string    `json:"upload_date"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type Transcript struct {
	ID        uuid.UUID `json:"id"`
	VideoID   uuid.UUID `json:"video_id"`
	Text      string    `json:"transcript_text"`
	Language  string    `json:"language"`
	Source    string    `json:"source"` // "manual" | "generated"
	CreatedAt time.Time `json:"created_at"`
}

type Summary struct {
	ID        uuid.UUID `json:"id"`
	VideoID   uuid.UUID `json:"video_id"`
	Text      string    `json:"summary_text"`
	Category  string    `json:"category"`
	AIModel   string    `json:"ai_model"`
	CreatedAt time.Time `json:"created_at"`
}

// VideoListItem is the joined row returned by list views: the video plus
// whether a transcript/summary exists and the summary category if any.
type VideoListItem struct {
	Video
	Category         *string `json:"category"`
	Summary          *string `json:"summary"`
	HasTranscription bool    `json:"has_transcription"`
	HasSummary       bool    `json:"has_summary"`
}

// VideoDetail is the fully joined record for detail views.
type VideoDetail struct {
	Video
	Transcript *Transcript `json:"transcript"`
	Summary    *Summary    `json:"summary"`
}

type VideoStats struct {
	TotalVideos     int `json:"total_videos"`
	Completed       int `json:"completed"`
	Processing      int `json:"processing"`
	Pending         int `json:"pending"`
	Failed          int `json:"failed"`
	TotalCategories int `json:"total_categories"`
}
