package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/naveensalgaonker/youtubeVideoHelper/internal/models"
)

type SummaryRepo struct {
	pool *pgxpool.Pool
}

func NewSummaryRepo(pool *pgxpool.Pool) *SummaryRepo {
	return &SummaryRepo{pool: pool}
}

// Replace follows the same transactional delete-then-insert as
// TranscriptRepo.Replace: re-summarizing a video discards the prior row.
func (r *SummaryRepo) Replace(ctx context.Context, s *models.Summary) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM summaries WHERE video_id = $1", s.VideoID); err != nil {
		return err
	}

	s.ID = uuid.New()
	err = tx.QueryRow(ctx,
		`INSERT INTO summaries (id, video_id, summary_text, category, ai_model)
		 VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
		s.ID, s.VideoID, s.Text, s.Category, s.AIModel,
	).Scan(&s.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *SummaryRepo) GetByVideoID(ctx context.Context, videoID uuid.UUID) (*models.Summary, error) {
	s := &models.Summary{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, video_id, summary_text, category, ai_model, created_at
		 FROM summaries WHERE video_id = $1`, videoID,
	).Scan(&s.ID, &s.VideoID, &s.Text, &s.Category, &s.AIModel, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}
