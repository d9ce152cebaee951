package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/naveensalgaonker/youtubeVideoHelper/internal/models"
)

type VideoRepo struct {
	pool *pgxpool.Pool
}

func NewVideoRepo(pool *pgxpool.Pool) *VideoRepo {
	return &VideoRepo{pool: pool}
}

const videoColumns = `id, user_id, video_id, video_url, title, duration_seconds,
	channel_name, upload_date, status, created_at, updated_at`

func scanVideo(row interface{ Scan(...any) error }, v *models.Video) error {
	return row.Scan(
		&v.ID, &v.UserID, &v.VideoID, &v.VideoURL, &v.Title, &v.DurationSeconds,
		&v.ChannelName, &v.UploadDate, &v.Status, &v.CreatedAt, &v.UpdatedAt,
	)
}

func (r *VideoRepo) Create(ctx context.Context, v *models.Video) error {
	v.ID = uuid.New()
	if v.Status == "" {
		v.Status = models.StatusPending
	}

	query := `INSERT INTO videos (id, user_id, video_id, video_url, title, duration_seconds, channel_name, upload_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		v.ID, v.UserID, v.VideoID, v.VideoURL, v.Title, v.DurationSeconds,
		v.ChannelName, v.UploadDate, v.Status,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
}

func (r *VideoRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	v := &models.Video{}
	query := "SELECT " + videoColumns + " FROM videos WHERE id = $1"
	if err := scanVideo(r.pool.QueryRow(ctx, query, id), v); err != nil {
		return nil, err
	}
	return v, nil
}

func (r *VideoRepo) GetByVideoID(ctx context.Context, videoID string) (*models.Video, error) {
	v := &models.Video{}
	query := "SELECT " + videoColumns + " FROM videos WHERE video_id = $1"
	if err := scanVideo(r.pool.QueryRow(ctx, query, videoID), v); err != nil {
		return nil, err
	}
	return v, nil
}

func (r *VideoRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE videos SET status = $1, updated_at = NOW() WHERE id = $2",
		status, id,
	)
	return err
}

// Claim atomically transitions a video into processing. It fails (false)
// when another attempt already holds the processing status, which is the
// lease check that makes the transition safe if workers are ever added.
func (r *VideoRepo) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		"UPDATE videos SET status = $1, updated_at = NOW() WHERE id = $2 AND status <> $1",
		models.StatusProcessing, id,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *VideoRepo) UpdateMetadata(ctx context.Context, id uuid.UUID, title string, durationSeconds *int, channelName, uploadDate *string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE videos SET title = $1, duration_seconds = $2, channel_name = $3, upload_date = $4, updated_at = NOW()
		 WHERE id = $5`,
		title, durationSeconds, channelName, uploadDate, id,
	)
	return err
}

// List returns videos joined with transcript/summary existence flags,
// newest first. A nil userID lists everything (admin and CLI use).
func (r *VideoRepo) List(ctx context.Context, userID *uuid.UUID, category, search string, limit int) ([]*models.VideoListItem, error) {
	query := `SELECT v.id, v.user_id, v.video_id, v.video_url, v.title, v.duration_seconds,
		v.channel_name, v.upload_date, v.status, v.created_at, v.updated_at,
		s.category, s.summary_text,
		t.id IS NOT NULL AS has_transcription,
		s.id IS NOT NULL AS has_summary
		FROM videos v
		LEFT JOIN transcripts t ON v.id = t.video_id
		LEFT JOIN summaries s ON v.id = s.video_id`

	var conds []string
	var args []interface{}
	argIdx := 1

	if userID != nil {
		conds = append(conds, fmt.Sprintf("v.user_id = $%d", argIdx))
		args = append(args, *userID)
		argIdx++
	}
	if category != "" {
		conds = append(conds, fmt.Sprintf("s.category = $%d", argIdx))
		args = append(args, category)
		argIdx++
	}
	if search != "" {
		conds = append(conds, fmt.Sprintf("(v.title ILIKE $%d OR t.transcript_text ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+search+"%")
		argIdx++
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY v.created_at DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.VideoListItem
	for rows.Next() {
		item := &models.VideoListItem{}
		err := rows.Scan(
			&item.ID, &item.UserID, &item.VideoID, &item.VideoURL, &item.Title, &item.DurationSeconds,
			&item.ChannelName, &item.UploadDate, &item.Status, &item.CreatedAt, &item.UpdatedAt,
			&item.Category, &item.Summary, &item.HasTranscription, &item.HasSummary,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// GetDetail returns the fully joined record: video plus its current
// transcript and summary rows if present.
func (r *VideoRepo) GetDetail(ctx context.Context, id uuid.UUID) (*models.VideoDetail, error) {
	video, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.VideoDetail{Video: *video}

	t := &models.Transcript{}
	err = r.pool.QueryRow(ctx,
		`SELECT id, video_id, transcript_text, language, source, created_at
		 FROM transcripts WHERE video_id = $1`, id,
	).Scan(&t.ID, &t.VideoID, &t.Text, &t.Language, &t.Source, &t.CreatedAt)
	if err == nil {
		detail.Transcript = t
	}

	s := &models.Summary{}
	err = r.pool.QueryRow(ctx,
		`SELECT id, video_id, summary_text, category, ai_model, created_at
		 FROM summaries WHERE video_id = $1`, id,
	).Scan(&s.ID, &s.VideoID, &s.Text, &s.Category, &s.AIModel, &s.CreatedAt)
	if err == nil {
		detail.Summary = s
	}

	return detail, nil
}

func (r *VideoRepo) ListByIDs(ctx context.Context, ids []uuid.UUID, userID *uuid.UUID) ([]*models.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, 0, len(ids)+1)
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args = append(args, id)
	}

	query := "SELECT " + videoColumns + " FROM videos WHERE id IN (" + strings.Join(placeholders, ",") + ")"
	if userID != nil {
		query += fmt.Sprintf(" AND user_id = $%d", len(ids)+1)
		args = append(args, *userID)
	}
	query += " ORDER BY created_at"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []*models.Video
	for rows.Next() {
		v := &models.Video{}
		if err := scanVideo(rows, v); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}

	return videos, rows.Err()
}

func (r *VideoRepo) BulkDelete(ctx context.Context, ids []uuid.UUID, userID *uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, 0, len(ids)+1)
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args = append(args, id)
	}

	query := "DELETE FROM videos WHERE id IN (" + strings.Join(placeholders, ",") + ")"
	if userID != nil {
		query += fmt.Sprintf(" AND user_id = $%d", len(ids)+1)
		args = append(args, *userID)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *VideoRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT DISTINCT category FROM summaries WHERE category IS NOT NULL ORDER BY category")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (r *VideoRepo) Stats(ctx context.Context, userID *uuid.UUID) (*models.VideoStats, error) {
	stats := &models.VideoStats{}

	query := `SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE status = 'completed'),
		COUNT(*) FILTER (WHERE status = 'processing'),
		COUNT(*) FILTER (WHERE status = 'pending'),
		COUNT(*) FILTER (WHERE status = 'failed')
		FROM videos`
	args := []interface{}{}
	if userID != nil {
		query += " WHERE user_id = $1"
		args = append(args, *userID)
	}

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&stats.TotalVideos, &stats.Completed, &stats.Processing, &stats.Pending, &stats.Failed,
	)
	if err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx,
		"SELECT COUNT(DISTINCT category) FROM summaries WHERE category IS NOT NULL",
	).Scan(&stats.TotalCategories)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
