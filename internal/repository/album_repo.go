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

type AlbumRepository struct {
	pool *pgxpool.Pool
}

func NewAlbumRepository(pool *pgxpool.Pool) *AlbumRepository {
	return &AlbumRepository{pool: pool}
}

func (r *AlbumRepository) FindByID(ctx context.Context, id int64) (model.Album, error) {
	var a model.Album
	err := r.pool.QueryRow(ctx,
		`SELECT a.id, a.title, a.description, a.created_at,
		        (SELECT COUNT(*) FROM photos p WHERE p.album_id = a.id)
		 FROM albums a WHERE a.id = $1`, id).
		Scan(&a.ID, &a.Title, &a.Description, &a.CreatedAt, &a.PhotoCount)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Album{}, apierror.NotFound("album not found", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return model.Album{}, fmt.Errorf("find album by id: %w", err)
	}
	return a, nil
}

func (r *AlbumRepository) List(ctx context.Context) ([]model.Album, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.title, a.description, a.created_at,
		        (SELECT COUNT(*) FROM photos p WHERE p.album_id = a.id)
		 FROM albums a ORDER BY a.created_at DESC, a.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	defer rows.Close()

	albums := make([]model.Album, 0)
	for rows.Next() {
		var a model.Album
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.CreatedAt, &a.PhotoCount); err != nil {
			return nil, fmt.Errorf("scan album: %w", err)
		}
		albums = append(albums, a)
	}
	return albums, rows.Err()
}

func (r *AlbumRepository) Create(ctx context.Context, a model.Album) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO albums (title, description) VALUES ($1, $2) RETURNING id`,
		a.Title, a.Description).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create album: %w", err)
	}
	return id, nil
}

// Delete removes the album; photo rows cascade. The caller is responsible
// for removing photo files from storage first.
func (r *AlbumRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM albums WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete album: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("album not found", strconv.FormatInt(id, 10))
	}
	return nil
}

func (r *AlbumRepository) FindPhoto(ctx context.Context, albumID int64, photoID int64) (model.Photo, error) {
	var p model.Photo
	err := r.pool.QueryRow(ctx,
		`SELECT id, album_id, stored_path, original_name, size, mime_type, uploaded_at
		 FROM photos WHERE id = $1 AND album_id = $2`, photoID, albumID).
		Scan(&p.ID, &p.AlbumID, &p.StoredPath, &p.OriginalName, &p.Size, &p.MimeType, &p.UploadedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Photo{}, apierror.NotFound("photo not found", strconv.FormatInt(photoID, 10))
	}
	if err != nil {
		return model.Photo{}, fmt.Errorf("find photo: %w", err)
	}
	return p, nil
}

func (r *AlbumRepository) ListPhotos(ctx context.Context, albumID int64) ([]model.Photo, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, album_id, stored_path, original_name, size, mime_type, uploaded_at
		 FROM photos WHERE album_id = $1 ORDER BY uploaded_at, id`, albumID)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	photos := make([]model.Photo, 0)
	for rows.Next() {
		var p model.Photo
		if err := rows.Scan(&p.ID, &p.AlbumID, &p.StoredPath, &p.OriginalName, &p.Size, &p.MimeType, &p.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

func (r *AlbumRepository) CreatePhoto(ctx context.Context, p model.Photo) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO photos (album_id, stored_path, original_name, size, mime_type)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		p.AlbumID, p.StoredPath, p.OriginalName, p.Size, p.MimeType).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create photo: %w", err)
	}
	return id, nil
}

func (r *AlbumRepository) DeletePhoto(ctx context.Context, albumID int64, photoID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM photos WHERE id = $1 AND album_id = $2`, photoID, albumID)
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("photo not found", strconv.FormatInt(photoID, 10))
	}
	return nil
}
