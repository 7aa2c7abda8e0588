package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"artschool-backend/internal/model"
	"artschool-backend/pkg/apierror"
)

type VideoRepository struct {
	pool *pgxpool.Pool
}

func NewVideoRepository(pool *pgxpool.Pool) *VideoRepository {
	return &VideoRepository{pool: pool}
}

func (r *VideoRepository) FindByID(ctx context.Context, id int64) (model.Video, error) {
	var v model.Video
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, artist, kind, youtube_url, thumbnail_url, position, created_at
		 FROM videos WHERE id = $1`, id).
		Scan(&v.ID, &v.Title, &v.Artist, &v.Kind, &v.YouTubeURL, &v.ThumbnailURL, &v.Position, &v.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Video{}, apierror.NotFound("video not found", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return model.Video{}, fmt.Errorf("find video by id: %w", err)
	}
	return v, nil
}

func (r *VideoRepository) List(ctx context.Context) ([]model.Video, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, artist, kind, youtube_url, thumbnail_url, position, created_at
		 FROM videos ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	videos := make([]model.Video, 0)
	for rows.Next() {
		var v model.Video
		if err := rows.Scan(&v.ID, &v.Title, &v.Artist, &v.Kind, &v.YouTubeURL, &v.ThumbnailURL, &v.Position, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (r *VideoRepository) Create(ctx context.Context, v model.Video) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO videos (title, artist, kind, youtube_url, thumbnail_url, position)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		v.Title, v.Artist, v.Kind, v.YouTubeURL, v.ThumbnailURL, v.Position).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create video: %w", err)
	}
	return id, nil
}

func (r *VideoRepository) Update(ctx context.Context, v model.Video) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE videos SET title = $2, artist = $3, kind = $4, youtube_url = $5,
		        thumbnail_url = $6, position = $7
		 WHERE id = $1`,
		v.ID, v.Title, v.Artist, v.Kind, v.YouTubeURL, v.ThumbnailURL, v.Position)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("video not found", strconv.FormatInt(v.ID, 10))
	}
	return nil
}

func (r *VideoRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("video not found", strconv.FormatInt(id, 10))
	}
	return nil
}
