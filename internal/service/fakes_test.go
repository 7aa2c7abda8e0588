package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"artschool-backend/internal/model"
	"artschool-backend/pkg/apierror"
)

// fakeUserStore is an in-memory UserStore used across the service tests.
type fakeUserStore struct {
	users  map[int64]model.User
	nextID int64

	createErr error
	findErr   error
}

func newFakeUserStore(seed ...model.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[int64]model.User), nextID: 1}
	for _, u := range seed {
		if u.ID == 0 {
			u.ID = s.nextID
		}
		if u.ID >= s.nextID {
			s.nextID = u.ID + 1
		}
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) FindByID(_ context.Context, id int64) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, apierror.NotFound("user not found", fmt.Sprintf("%d", id))
	}
	return u, nil
}

func (s *fakeUserStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	if s.findErr != nil {
		return model.User{}, s.findErr
	}
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, apierror.NotFound("user not found", username)
}

func (s *fakeUserStore) FindByOAuth(_ context.Context, provider string, externalID string) (model.User, error) {
	for _, u := range s.users {
		if u.OAuthProvider == provider && u.OAuthID == externalID {
			return u, nil
		}
	}
	return model.User{}, apierror.NotFound("user not found", externalID)
}

func (s *fakeUserStore) FindByOAuthEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range s.users {
		if u.OAuthEmail == email {
			return u, nil
		}
	}
	return model.User{}, apierror.NotFound("user not found", email)
}

func (s *fakeUserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := s.FindByUsername(ctx, username)
	return err == nil, nil
}

func (s *fakeUserStore) ExistsByUsernameExcluding(_ context.Context, username string, excludeID int64) (bool, error) {
	for _, u := range s.users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) Create(_ context.Context, u model.User) (int64, error) {
	if s.createErr != nil {
		return 0, s.createErr
	}
	u.ID = s.nextID
	s.nextID++
	s.users[u.ID] = u
	return u.ID, nil
}

func (s *fakeUserStore) Update(_ context.Context, u model.User) error {
	if _, ok := s.users[u.ID]; !ok {
		return apierror.NotFound("user not found", fmt.Sprintf("%d", u.ID))
	}
	s.users[u.ID] = u
	return nil
}

func (s *fakeUserStore) SetAdmin(_ context.Context, id int64, isAdmin bool) error {
	u, ok := s.users[id]
	if !ok {
		return apierror.NotFound("user not found", fmt.Sprintf("%d", id))
	}
	u.IsAdmin = isAdmin
	s.users[id] = u
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.users[id]; !ok {
		return apierror.NotFound("user not found", fmt.Sprintf("%d", id))
	}
	delete(s.users, id)
	return nil
}

func (s *fakeUserStore) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeUserStore) Counts(_ context.Context) (int, int, error) {
	total, admins := 0, 0
	for _, u := range s.users {
		total++
		if u.IsAdmin {
			admins++
		}
	}
	return total, admins, nil
}

// fakeProgressStore keys records by (userID, lessonID), mirroring the
// database unique constraint.
type fakeProgressStore struct {
	records map[[2]int64]model.ProgressRecord
	nextID  int64
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{records: make(map[[2]int64]model.ProgressRecord), nextID: 1}
}

func (s *fakeProgressStore) Upsert(_ context.Context, userID int64, lessonID int, isCompleted bool) error {
	key := [2]int64{userID, int64(lessonID)}
	if existing, ok := s.records[key]; ok {
		existing.IsCompleted = isCompleted
		s.records[key] = existing
		return nil
	}

	s.records[key] = model.ProgressRecord{
		ID:          s.nextID,
		UserID:      userID,
		LessonID:    lessonID,
		IsCompleted: isCompleted,
	}
	s.nextID++
	return nil
}

func (s *fakeProgressStore) ListByUser(_ context.Context, userID int64) ([]model.ProgressRecord, error) {
	var out []model.ProgressRecord
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LessonID < out[j].LessonID })
	return out, nil
}

func (s *fakeProgressStore) CompletedCountsByUser(_ context.Context) (map[int64]int, error) {
	counts := make(map[int64]int)
	for _, r := range s.records {
		if r.IsCompleted {
			counts[r.UserID]++
		}
	}
	return counts, nil
}

// fakeTokenIssuer records the last subject and TTL it was asked to sign for.
type fakeTokenIssuer struct {
	lastSubject string
	lastTTL     time.Duration
	err         error
}

func (f *fakeTokenIssuer) Issue(subject string, ttl time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.lastSubject = subject
	f.lastTTL = ttl
	return "signed-token-for-" + subject, nil
}

// fakeProvider is a canned OAuth provider.
type fakeProvider struct {
	name    string
	profile ProviderProfile
	err     error
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) AuthURL() string { return "https://provider.example/authorize" }

func (f *fakeProvider) Exchange(_ context.Context, _ string) (ProviderProfile, error) {
	if f.err != nil {
		return ProviderProfile{}, f.err
	}
	return f.profile, nil
}
