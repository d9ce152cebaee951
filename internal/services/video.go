package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/naveensalgaonker/youtubeVideoHelper/internal/models"
	"github.com/naveensalgaonker/youtubeVideoHelper/internal/repository"
)

// VideoService is the read/delete side of the video library. Writes go
// through the job pipeline only.
type VideoService struct {
	videoRepo *repository.VideoRepo
}

func NewVideoService(videoRepo *repository.VideoRepo) *VideoService {
	return &VideoService{videoRepo: videoRepo}
}

type ListFilter struct {
	Category string
	Search   string
	Limit    int
}

func (s *VideoService) List(ctx context.Context, userID *uuid.UUID, filter ListFilter) ([]*models.VideoListItem, error) {
	items, err := s.videoRepo.List(ctx, userID, filter.Category, filter.Search, filter.Limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.VideoListItem{}
	}
	return items, nil
}

// GetDetail enforces ownership when userID is set: admins and the CLI
// pass nil and see everything.
func (s *VideoService) GetDetail(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*models.VideoDetail, error) {
	detail, err := s.videoRepo.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Video not found"}
		}
		return nil, err
	}
	if userID != nil && detail.UserID != nil && *detail.UserID != *userID {
		return nil, &ForbiddenError{Message: "Video belongs to another user"}
	}
	return detail, nil
}

func (s *VideoService) BulkDelete(ctx context.Context, ids []uuid.UUID, userID *uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, &ValidationError{Fields: map[string]string{"video_ids": "at least one video ID is required"}}
	}
	return s.videoRepo.BulkDelete(ctx, ids, userID)
}

func (s *VideoService) Stats(ctx context.Context, userID *uuid.UUID) (*models.VideoStats, error) {
	return s.videoRepo.Stats(ctx, userID)
}

// ExportData gathers what the exporters need: list rows for the tabular
// formats, and full details (transcript included) for the text dump.
func (s *VideoService) ExportData(ctx context.Context, userID *uuid.UUID, category string) ([]*models.VideoListItem, []*models.VideoDetail, error) {
	items, err := s.videoRepo.List(ctx, userID, category, "", 0)
	if err != nil {
		return nil, nil, err
	}

	var details []*models.VideoDetail
	for _, item := range items {
		if !item.HasTranscription {
			continue
		}
		detail, err := s.videoRepo.GetDetail(ctx, item.ID)
		if err != nil {
			return nil, nil, err
		}
		details = append(details, detail)
	}

	return items, details, nil
}

func (s *VideoService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.videoRepo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}
