package model

import "time"

// Video is one entry of the public video catalog. Kind distinguishes catalog
// categories (mood video, snippet, clip).
type Video struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Artist       string    `json:"artist"`
	Kind         string    `json:"type"`
	YouTubeURL   string    `json:"youtube_url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Position     int       `json:"order"`
	CreatedAt    time.Time `json:"created_at"`
}
