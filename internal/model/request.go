package model

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UpdateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	// Password is optional; empty means keep the current hash.
	Password string `json:"password"`
}

type ToggleAdminRequest struct {
	IsAdmin bool `json:"is_admin"`
}

type ProgressUpdateRequest struct {
	LessonID    int  `json:"lesson_id"`
	IsCompleted bool `json:"is_completed"`
}

type CreateVideoRequest struct {
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	Kind         string `json:"type"`
	YouTubeURL   string `json:"youtube_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Position     int    `json:"order"`
}

type CreateAlbumRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
