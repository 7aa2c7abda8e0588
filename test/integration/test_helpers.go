//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"artschool-backend/internal/config"
	"artschool-backend/internal/handler"
	"artschool-backend/internal/middleware"
	"artschool-backend/internal/model"
	"artschool-backend/internal/router"
	"artschool-backend/internal/service"
	"artschool-backend/internal/storage"
	"artschool-backend/internal/token"
	"artschool-backend/pkg/apierror"
	"artschool-backend/pkg/passhash"
)

// The integration suite runs the real router, middleware, handlers and
// services over in-memory stores, so the full HTTP surface is exercised
// without a database.

type memUserStore struct {
	users  map[int64]model.User
	nextID int64
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[int64]model.User), nextID: 1}
}

func (s *memUserStore) FindByID(_ context.Context, id int64) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, apierror.NotFound("user not found", "")
	}
	return u, nil
}

func (s *memUserStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, apierror.NotFound("user not found", username)
}

func (s *memUserStore) FindByOAuth(_ context.Context, provider string, externalID string) (model.User, error) {
	for _, u := range s.users {
		if u.OAuthProvider == provider && u.OAuthID == externalID {
			return u, nil
		}
	}
	return model.User{}, apierror.NotFound("user not found", externalID)
}

func (s *memUserStore) FindByOAuthEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range s.users {
		if u.OAuthEmail == email {
			return u, nil
		}
	}
	return model.User{}, apierror.NotFound("user not found", email)
}

func (s *memUserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := s.FindByUsername(ctx, username)
	return err == nil, nil
}

func (s *memUserStore) ExistsByUsernameExcluding(_ context.Context, username string, excludeID int64) (bool, error) {
	for _, u := range s.users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memUserStore) Create(_ context.Context, u model.User) (int64, error) {
	u.ID = s.nextID
	s.nextID++
	s.users[u.ID] = u
	return u.ID, nil
}

func (s *memUserStore) Update(_ context.Context, u model.User) error {
	if _, ok := s.users[u.ID]; !ok {
		return apierror.NotFound("user not found", "")
	}
	s.users[u.ID] = u
	return nil
}

func (s *memUserStore) SetAdmin(_ context.Context, id int64, isAdmin bool) error {
	u, ok := s.users[id]
	if !ok {
		return apierror.NotFound("user not found", "")
	}
	u.IsAdmin = isAdmin
	s.users[id] = u
	return nil
}

func (s *memUserStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.users[id]; !ok {
		return apierror.NotFound("user not found", "")
	}
	delete(s.users, id)
	return nil
}

func (s *memUserStore) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memUserStore) Counts(_ context.Context) (int, int, error) {
	total, admins := 0, 0
	for _, u := range s.users {
		total++
		if u.IsAdmin {
			admins++
		}
	}
	return total, admins, nil
}

type memProgressStore struct {
	records map[[2]int64]model.ProgressRecord
	nextID  int64
}

func newMemProgressStore() *memProgressStore {
	return &memProgressStore{records: make(map[[2]int64]model.ProgressRecord), nextID: 1}
}

func (s *memProgressStore) Upsert(_ context.Context, userID int64, lessonID int, isCompleted bool) error {
	key := [2]int64{userID, int64(lessonID)}
	if existing, ok := s.records[key]; ok {
		existing.IsCompleted = isCompleted
		s.records[key] = existing
		return nil
	}
	s.records[key] = model.ProgressRecord{ID: s.nextID, UserID: userID, LessonID: lessonID, IsCompleted: isCompleted}
	s.nextID++
	return nil
}

func (s *memProgressStore) ListByUser(_ context.Context, userID int64) ([]model.ProgressRecord, error) {
	var out []model.ProgressRecord
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LessonID < out[j].LessonID })
	return out, nil
}

func (s *memProgressStore) CompletedCountsByUser(_ context.Context) (map[int64]int, error) {
	counts := make(map[int64]int)
	for _, r := range s.records {
		if r.IsCompleted {
			counts[r.UserID]++
		}
	}
	return counts, nil
}

type memVideoStore struct {
	videos map[int64]model.Video
	nextID int64
}

func newMemVideoStore() *memVideoStore {
	return &memVideoStore{videos: make(map[int64]model.Video), nextID: 1}
}

func (s *memVideoStore) FindByID(_ context.Context, id int64) (model.Video, error) {
	v, ok := s.videos[id]
	if !ok {
		return model.Video{}, apierror.NotFound("video not found", "")
	}
	return v, nil
}

func (s *memVideoStore) List(_ context.Context) ([]model.Video, error) {
	out := make([]model.Video, 0, len(s.videos))
	for _, v := range s.videos {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memVideoStore) Create(_ context.Context, v model.Video) (int64, error) {
	v.ID = s.nextID
	s.nextID++
	s.videos[v.ID] = v
	return v.ID, nil
}

func (s *memVideoStore) Update(_ context.Context, v model.Video) error {
	if _, ok := s.videos[v.ID]; !ok {
		return apierror.NotFound("video not found", "")
	}
	s.videos[v.ID] = v
	return nil
}

func (s *memVideoStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.videos[id]; !ok {
		return apierror.NotFound("video not found", "")
	}
	delete(s.videos, id)
	return nil
}

type memAlbumStore struct {
	albums      map[int64]model.Album
	photos      map[int64]model.Photo
	nextAlbumID int64
	nextPhotoID int64
}

func newMemAlbumStore() *memAlbumStore {
	return &memAlbumStore{
		albums:      make(map[int64]model.Album),
		photos:      make(map[int64]model.Photo),
		nextAlbumID: 1,
		nextPhotoID: 1,
	}
}

func (s *memAlbumStore) FindByID(_ context.Context, id int64) (model.Album, error) {
	a, ok := s.albums[id]
	if !ok {
		return model.Album{}, apierror.NotFound("album not found", "")
	}
	return a, nil
}

func (s *memAlbumStore) List(_ context.Context) ([]model.Album, error) {
	out := make([]model.Album, 0, len(s.albums))
	for _, a := range s.albums {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memAlbumStore) Create(_ context.Context, a model.Album) (int64, error) {
	a.ID = s.nextAlbumID
	s.nextAlbumID++
	s.albums[a.ID] = a
	return a.ID, nil
}

func (s *memAlbumStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.albums[id]; !ok {
		return apierror.NotFound("album not found", "")
	}
	delete(s.albums, id)
	for photoID, p := range s.photos {
		if p.AlbumID == id {
			delete(s.photos, photoID)
		}
	}
	return nil
}

func (s *memAlbumStore) FindPhoto(_ context.Context, albumID int64, photoID int64) (model.Photo, error) {
	p, ok := s.photos[photoID]
	if !ok || p.AlbumID != albumID {
		return model.Photo{}, apierror.NotFound("photo not found", "")
	}
	return p, nil
}

func (s *memAlbumStore) ListPhotos(_ context.Context, albumID int64) ([]model.Photo, error) {
	var out []model.Photo
	for _, p := range s.photos {
		if p.AlbumID == albumID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memAlbumStore) CreatePhoto(_ context.Context, p model.Photo) (int64, error) {
	p.ID = s.nextPhotoID
	s.nextPhotoID++
	s.photos[p.ID] = p
	return p.ID, nil
}

func (s *memAlbumStore) DeletePhoto(_ context.Context, albumID int64, photoID int64) error {
	p, ok := s.photos[photoID]
	if !ok || p.AlbumID != albumID {
		return apierror.NotFound("photo not found", "")
	}
	delete(s.photos, photoID)
	return nil
}

type noopHealth struct{}

func (noopHealth) Health(context.Context) error { return nil }

// newTestServer stands up the whole HTTP stack with one pre-seeded admin
// account (admin / admin123).
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		ServerPort:     "8080",
		RequestTimeout: 30 * time.Second,
		JWTSecret:      "test-secret",
		AccessTokenTTL: 15 * time.Minute,
		CORSOrigins:    []string{"*"},
		MaxUploadSize:  10 * 1024 * 1024,
	}

	users := newMemUserStore()
	adminHash, err := passhash.Hash("admin123")
	require.NoError(t, err)
	_, err = users.Create(context.Background(), model.User{
		Username:     "admin",
		PasswordHash: adminHash,
		IsAdmin:      true,
		RegisteredAt: "01.01.2025",
	})
	require.NoError(t, err)

	progress := newMemProgressStore()
	videos := newMemVideoStore()
	albums := newMemAlbumStore()

	photoStore, err := storage.New(t.TempDir())
	require.NoError(t, err)

	tokenService, err := token.New(cfg.JWTSecret)
	require.NoError(t, err)

	authService := service.NewAuthService(users, tokenService, cfg.AccessTokenTTL)
	progressService := service.NewProgressService(progress)
	adminService := service.NewAdminService(users, progress)
	videoService := service.NewVideoService(videos)
	albumService := service.NewAlbumService(albums, photoStore, t.TempDir())

	provider := service.NewYandexClient("client-id", "client-secret", "http://localhost/callback")
	oauthService := service.NewOAuthService(users, tokenService, provider, cfg.AccessTokenTTL)

	authMiddleware := middleware.NewAuthMiddleware(tokenService, users)

	server := httptest.NewServer(router.New(cfg, authMiddleware, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		OAuth:    handler.NewOAuthHandler(oauthService),
		Progress: handler.NewProgressHandler(progressService),
		Admin:    handler.NewAdminHandler(adminService),
		Video:    handler.NewVideoHandler(videoService),
		Album:    handler.NewAlbumHandler(albumService, cfg.MaxUploadSize),
	}, noopHealth{}))
	t.Cleanup(server.Close)

	return server
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeBody(t *testing.T, resp *http.Response) envelope {
	t.Helper()

	defer resp.Body.Close()
	var parsed envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return parsed
}

func login(t *testing.T, server *httptest.Server, username string, password string) string {
	t.Helper()

	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	require.NoError(t, err)

	resp, err := http.Post(server.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	parsed := decodeBody(t, resp)
	var tokens struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(parsed.Data, &tokens))
	require.NotEmpty(t, tokens.AccessToken)
	return tokens.AccessToken
}

func doJSON(t *testing.T, method string, url string, payload any, accessToken string) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if payload == nil {
		reader = bytes.NewReader(nil)
	} else {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}
