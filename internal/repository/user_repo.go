package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/naveensalgaonker/youtubeVideoHelper/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()

	query := `INSERT INTO users (id, username, password_hash, is_admin)
		VALUES ($1, $2, $3, $4) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.IsAdmin,
	).Scan(&user.CreatedAt)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, username, password_hash, is_admin, created_at
		FROM users WHERE username = $1`

	err := r.pool.QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, username, password_hash, is_admin, created_at
		FROM users WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE users SET password_hash = $1 WHERE id = $2",
		passwordHash, userID,
	)
	return err
}

func (r *UserRepo) CreateSettings(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		"INSERT INTO user_settings (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING",
		userID,
	)
	return err
}

func (r *UserRepo) GetSettings(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error) {
	s := &models.UserSettings{}
	query := `SELECT user_id, openai_api_key, gemini_api_key, ai_provider, updated_at
		FROM user_settings WHERE user_id = $1`

	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&s.UserID, &s.OpenAIAPIKey, &s.GeminiAPIKey, &s.AIProvider, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *UserRepo) UpdateSettings(ctx context.Context, s *models.UserSettings) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_settings (user_id, openai_api_key, gemini_api_key, ai_provider, updated_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET
		   openai_api_key = EXCLUDED.openai_api_key,
		   gemini_api_key = EXCLUDED.gemini_api_key,
		   ai_provider = EXCLUDED.ai_provider,
		   updated_at = NOW()`,
		s.UserID, s.OpenAIAPIKey, s.GeminiAPIKey, s.AIProvider,
	)
	return err
}

// EnsureAdmin creates the default admin account on first start. The
// password must be changed immediately on a real deployment.
func (r *UserRepo) EnsureAdmin(ctx context.Context) error {
	_, err := r.GetByUsername(ctx, "admin")
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), 12)
	if err != nil {
		return err
	}

	admin := &models.User{
		Username:     "admin",
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := r.Create(ctx, admin); err != nil {
		return err
	}
	r.CreateSettings(ctx, admin.ID)

	log.Println("Created default admin account - Username: admin, Password: admin123 - CHANGE THIS IMMEDIATELY!")
	return nil
}
