package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/naveensalgaonker/youtubeVideoHelper/internal/models"
	"github.com/naveensalgaonker/youtubeVideoHelper/internal/repository"
)

type UserService struct {
	userRepo *repository.UserRepo
}

func NewUserService(userRepo *repository.UserRepo) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetMe(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "User not found"}
		}
		return nil, err
	}
	return user, nil
}

// GetSettings returns the stored settings with API keys masked: the UI
// only needs to know whether a key is set.
func (s *UserService) GetSettings(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error) {
	settings, err := s.userRepo.GetSettings(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &models.UserSettings{UserID: userID, AIProvider: "openai"}, nil
		}
		return nil, err
	}

	settings.OpenAIAPIKey = maskKey(settings.OpenAIAPIKey)
	settings.GeminiAPIKey = maskKey(settings.GeminiAPIKey)
	return settings, nil
}

func (s *UserService) UpdateSettings(ctx context.Context, userID uuid.UUID, req models.UpdateSettingsRequest) (*models.UserSettings, error) {
	if req.AIProvider != nil {
		provider := strings.ToLower(*req.AIProvider)
		if provider != "openai" && provider != "gemini" {
			return nil, &ValidationError{Fields: map[string]string{"ai_provider": "must be openai or gemini"}}
		}
		*req.AIProvider = provider
	}

	current, err := s.userRepo.GetSettings(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		current = &models.UserSettings{UserID: userID, AIProvider: "openai"}
	} else if err != nil {
		return nil, err
	}

	if req.OpenAIAPIKey != nil {
		current.OpenAIAPIKey = nilIfEmpty(*req.OpenAIAPIKey)
	}
	if req.GeminiAPIKey != nil {
		current.GeminiAPIKey = nilIfEmpty(*req.GeminiAPIKey)
	}
	if req.AIProvider != nil {
		current.AIProvider = *req.AIProvider
	}

	if err := s.userRepo.UpdateSettings(ctx, current); err != nil {
		return nil, err
	}

	current.OpenAIAPIKey = maskKey(current.OpenAIAPIKey)
	current.GeminiAPIKey = maskKey(current.GeminiAPIKey)
	return current, nil
}

func maskKey(key *string) *string {
	if key == nil || *key == "" {
		return nil
	}
	masked := "********"
	if len(*key) > 4 {
		masked += (*key)[len(*key)-4:]
	}
	return &masked
}

func nilIfEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
