package service

import (
	"context"
	"strings"

	"artschool-backend/internal/model"
	"artschool-backend/pkg/apierror"
)

type VideoStore interface {
	FindByID(ctx context.Context, id int64) (model.Video, error)
	List(ctx context.Context) ([]model.Video, error)
	Create(ctx context.Context, v model.Video) (int64, error)
	Update(ctx context.Context, v model.Video) error
	Delete(ctx context.Context, id int64) error
}

type VideoService struct {
	store VideoStore
}

func NewVideoService(store VideoStore) *VideoService {
	return &VideoService{store: store}
}

func (s *VideoService) List(ctx context.Context) ([]model.Video, error) {
	return s.store.List(ctx)
}

func (s *VideoService) Get(ctx context.Context, id int64) (model.Video, error) {
	return s.store.FindByID(ctx, id)
}

func (s *VideoService) Create(ctx context.Context, req model.CreateVideoRequest) (model.Video, error) {
	video, err := videoFromRequest(req)
	if err != nil {
		return model.Video{}, err
	}

	id, err := s.store.Create(ctx, video)
	if err != nil {
		return model.Video{}, err
	}

	return s.store.FindByID(ctx, id)
}

func (s *VideoService) Update(ctx context.Context, id int64, req model.CreateVideoRequest) (model.Video, error) {
	video, err := videoFromRequest(req)
	if err != nil {
		return model.Video{}, err
	}

	video.ID = id
	if err := s.store.Update(ctx, video); err != nil {
		return model.Video{}, err
	}

	return s.store.FindByID(ctx, id)
}

func (s *VideoService) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

func videoFromRequest(req model.CreateVideoRequest) (model.Video, error) {
	title := strings.TrimSpace(req.Title)
	artist := strings.TrimSpace(req.Artist)
	youtubeURL := strings.TrimSpace(req.YouTubeURL)

	if title == "" || artist == "" || youtubeURL == "" {
		return model.Video{}, apierror.BadRequest("title, artist and youtube_url are required", "")
	}

	return model.Video{
		Title:        title,
		Artist:       artist,
		Kind:         strings.TrimSpace(req.Kind),
		YouTubeURL:   youtubeURL,
		ThumbnailURL: strings.TrimSpace(req.ThumbnailURL),
		Position:     req.Position,
	}, nil
}
