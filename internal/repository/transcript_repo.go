package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/naveensalgaonker/youtubeVideoHelper/internal/models"
)

type TranscriptRepo struct {
	pool *pgxpool.Pool
}

func NewTranscriptRepo(pool *pgxpool.Pool) *TranscriptRepo {
	return &TranscriptRepo{pool: pool}
}

// Replace swaps the stored transcript for a video. Delete and insert run
// in one transaction so the video never holds two transcripts and a
// failed insert leaves the old row visible.
func (r *TranscriptRepo) Replace(ctx context.Context, t *models.Transcript) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM transcripts WHERE video_id = $1", t.VideoID); err != nil {
		return err
	}

	t.ID = uuid.New()
	err = tx.QueryRow(ctx,
		`INSERT INTO transcripts (id, video_id, transcript_text, language, source)
		 VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
		t.ID, t.VideoID, t.Text, t.Language, t.Source,
	).Scan(&t.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *TranscriptRepo) GetByVideoID(ctx context.Context, videoID uuid.UUID) (*models.Transcript, error) {
	t := &models.Transcript{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, video_id, transcript_text, language, source, created_at
		 FROM transcripts WHERE video_id = $1`, videoID,
	).Scan(&t.ID, &t.VideoID, &t.Text, &t.Language, &t.Source, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}
