package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserSettings holds per-user AI provider configuration. Keys override
// the server-wide provider credentials when present.
type UserSettings struct {
	UserID       uuid.UUID `json:"user_id"`
	OpenAIAPIKey *string   `json:"openai_api_key"`
	GeminiAPIKey *string   `json:"gemini_api_key"`
	AIProvider   string    `json:"ai_provider"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type UpdateSettingsRequest struct {
	OpenAIAPIKey *string `json:"openai_api_key"`
	GeminiAPIKey *string `json:"gemini_api_key"`
	AIProvider   *string `json:"ai_provider"`
}
