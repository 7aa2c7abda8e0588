package model

import "time"

type Album struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	PhotoCount  int       `json:"photo_count"`
}

type Photo struct {
	ID           int64     `json:"id"`
	AlbumID      int64     `json:"album_id"`
	StoredPath   string    `json:"-"`
	OriginalName string    `json:"original_name"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mime_type"`
	UploadedAt   time.Time `json:"uploaded_at"`
}
