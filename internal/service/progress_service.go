package service

import (
	"context"
	"math"

	"artschool-backend/internal/model"
	"artschool-backend/pkg/apierror"
)

// TotalLessons is the fixed size of the lesson course used for percentage
// derivation.
const TotalLessons = 12

type ProgressStore interface {
	Upsert(ctx context.Context, userID int64, lessonID int, isCompleted bool) error
	ListByUser(ctx context.Context, userID int64) ([]model.ProgressRecord, error)
	CompletedCountsByUser(ctx context.Context) (map[int64]int, error)
}

type ProgressService struct {
	store ProgressStore
}

func NewProgressService(store ProgressStore) *ProgressService {
	return &ProgressService{store: store}
}

// SetProgress records the completion flag for one (user, lesson) pair.
// Repeated calls with the same arguments leave identical state.
func (s *ProgressService) SetProgress(ctx context.Context, userID int64, lessonID int, isCompleted bool) error {
	if lessonID <= 0 {
		return apierror.BadRequest("lesson_id must be positive", "")
	}

	return s.store.Upsert(ctx, userID, lessonID, isCompleted)
}

func (s *ProgressService) GetProgress(ctx context.Context, userID int64) ([]model.ProgressRecord, error) {
	return s.store.ListByUser(ctx, userID)
}

// progressPercent derives the completed percentage from a raw lesson count,
// capped at 100.
func progressPercent(completed int) int {
	if TotalLessons <= 0 {
		return 0
	}

	percent := int(math.Round(float64(completed) / float64(TotalLessons) * 100))
	if percent > 100 {
		percent = 100
	}
	return percent
}
