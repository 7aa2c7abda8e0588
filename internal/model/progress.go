package model

// ProgressRecord tracks completion of one lesson by one user. At most one
// record exists per (user_id, lesson_id) pair.
type ProgressRecord struct {
	ID          int64 `json:"id"`
	UserID      int64 `json:"user_id"`
	LessonID    int   `json:"lesson_id"`
	IsCompleted bool  `json:"is_completed"`
}
