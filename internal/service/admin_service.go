package service

import (
	"context"
	"math"
	"strings"
	"time"

	"artschool-backend/internal/model"
	"artschool-backend/internal/util"
	"artschool-backend/pkg/apierror"
	"artschool-backend/pkg/passhash"
)

// AdminService implements the role-gated user-management operations. Every
// method assumes the caller has already passed the admin guard.
type AdminService struct {
	users    UserStore
	progress ProgressStore
}

func NewAdminService(users UserStore, progress ProgressStore) *AdminService {
	return &AdminService{users: users, progress: progress}
}

// ListUsers returns every account with its derived lesson-progress
// percentage and a normalized registration date.
func (s *AdminService) ListUsers(ctx context.Context) ([]model.AdminUserView, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	completed, err := s.progress.CompletedCountsByUser(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]model.AdminUserView, 0, len(users))
	for _, u := range users {
		views = append(views, model.AdminUserView{
			ID:        u.ID,
			Username:  u.Username,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Progress:  progressPercent(completed[u.ID]),
			DateReg:   util.NormalizeRegDate(u.RegisteredAt),
			IsAdmin:   u.IsAdmin,
		})
	}

	return views, nil
}

// CreateAdmin registers an account with the admin flag set. Unlike
// self-registration it does not issue a token.
func (s *AdminService) CreateAdmin(ctx context.Context, req model.RegisterRequest) (model.Profile, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return model.Profile{}, apierror.BadRequest("username and password are required", "")
	}

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return model.Profile{}, err
	}
	if exists {
		return model.Profile{}, apierror.Conflict("username already taken", username)
	}

	hash, err := passhash.Hash(req.Password)
	if err != nil {
		return model.Profile{}, err
	}

	user := model.User{
		Username:     username,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		IsAdmin:      true,
		RegisteredAt: util.FormatRegDate(time.Now()),
	}

	id, err := s.users.Create(ctx, user)
	if err != nil {
		return model.Profile{}, err
	}

	user.ID = id
	return user.Profile(), nil
}

func (s *AdminService) GetUser(ctx context.Context, id int64) (model.Profile, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.Profile{}, err
	}

	return user.Profile(), nil
}

// UpdateUser replaces names and username; the password changes only when a
// new one is supplied. A username change re-checks uniqueness excluding the
// row being updated.
func (s *AdminService) UpdateUser(ctx context.Context, id int64, req model.UpdateUserRequest) (model.Profile, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.Profile{}, err
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		return model.Profile{}, apierror.BadRequest("username cannot be empty", "")
	}

	if username != user.Username {
		taken, err := s.users.ExistsByUsernameExcluding(ctx, username, id)
		if err != nil {
			return model.Profile{}, err
		}
		if taken {
			return model.Profile{}, apierror.Conflict("username already taken", username)
		}
	}

	user.Username = username
	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)

	if req.Password != "" {
		hash, err := passhash.Hash(req.Password)
		if err != nil {
			return model.Profile{}, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return model.Profile{}, err
	}

	return user.Profile(), nil
}

// DeleteUser removes an account and, via the cascade, its progress records.
// Admins cannot delete their own account.
func (s *AdminService) DeleteUser(ctx context.Context, id int64, callerID int64) error {
	if id == callerID {
		return apierror.BadRequest("cannot delete your own account", "")
	}

	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}

	return s.users.Delete(ctx, id)
}

// ToggleAdmin grants or revokes the admin flag. Self-modification of
// privilege is rejected regardless of the target value.
func (s *AdminService) ToggleAdmin(ctx context.Context, id int64, callerID int64, isAdmin bool) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}

	if id == callerID {
		return apierror.BadRequest("cannot change your own admin rights", "")
	}

	return s.users.SetAdmin(ctx, id, isAdmin)
}

// Stats aggregates account counts and the mean progress percentage. The
// percentage comes from the live lesson counts, the single canonical
// computation shared with ListUsers.
func (s *AdminService) Stats(ctx context.Context) (model.AdminStats, error) {
	total, admins, err := s.users.Counts(ctx)
	if err != nil {
		return model.AdminStats{}, err
	}

	completed, err := s.progress.CompletedCountsByUser(ctx)
	if err != nil {
		return model.AdminStats{}, err
	}

	var avg float64
	if total > 0 {
		sum := 0
		for _, count := range completed {
			sum += progressPercent(count)
		}
		avg = math.Round(float64(sum)/float64(total)*10) / 10
	}

	return model.AdminStats{
		TotalUsers:   total,
		AdminCount:   admins,
		RegularUsers: total - admins,
		AvgProgress:  avg,
	}, nil
}
