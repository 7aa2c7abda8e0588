package service

import (
	"context"
	"strings"
	"time"

	"artschool-backend/internal/model"
	"artschool-backend/internal/util"
	"artschool-backend/pkg/apierror"
	"artschool-backend/pkg/passhash"
)

// UserStore is the credential-store surface the services need. The pgx
// repository satisfies it; tests use in-memory fakes.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	FindByOAuth(ctx context.Context, provider string, externalID string) (model.User, error)
	FindByOAuthEmail(ctx context.Context, email string) (model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByUsernameExcluding(ctx context.Context, username string, excludeID int64) (bool, error)
	Create(ctx context.Context, u model.User) (int64, error)
	Update(ctx context.Context, u model.User) error
	SetAdmin(ctx context.Context, id int64, isAdmin bool) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]model.User, error)
	Counts(ctx context.Context) (total int, admins int, err error)
}

// TokenIssuer issues a signed bearer token for a subject. TTL is always
// passed explicitly by the caller.
type TokenIssuer interface {
	Issue(subject string, ttl time.Duration) (string, error)
}

type AuthService struct {
	users     UserStore
	tokens    TokenIssuer
	accessTTL time.Duration
}

func NewAuthService(users UserStore, tokens TokenIssuer, accessTTL time.Duration) *AuthService {
	return &AuthService{users: users, tokens: tokens, accessTTL: accessTTL}
}

// Register creates an account and signs the new user in, in one step.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.TokenResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return model.TokenResponse{}, apierror.BadRequest("username and password are required", "")
	}

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return model.TokenResponse{}, err
	}
	if exists {
		return model.TokenResponse{}, apierror.Conflict("username already taken", username)
	}

	hash, err := passhash.Hash(req.Password)
	if err != nil {
		return model.TokenResponse{}, err
	}

	user := model.User{
		Username:     username,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		IsAdmin:      false,
		RegisteredAt: util.FormatRegDate(time.Now()),
	}

	id, err := s.users.Create(ctx, user)
	if err != nil {
		return model.TokenResponse{}, err
	}

	return s.issueFor(username, id)
}

// Login verifies credentials and issues a token. Unknown username and wrong
// password produce the identical error so usernames cannot be enumerated;
// a store failure is not an authentication failure and propagates as-is.
func (s *AuthService) Login(ctx context.Context, username string, password string) (model.TokenResponse, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if isNotFound(err) {
			return model.TokenResponse{}, apierror.Unauthorized("invalid username or password")
		}
		return model.TokenResponse{}, err
	}

	// OAuth-only accounts carry no password hash and cannot log in locally.
	if user.PasswordHash == "" || !passhash.Verify(password, user.PasswordHash) {
		return model.TokenResponse{}, apierror.Unauthorized("invalid username or password")
	}

	return s.issueFor(user.Username, user.ID)
}

func (s *AuthService) issueFor(username string, userID int64) (model.TokenResponse, error) {
	signed, err := s.tokens.Issue(username, s.accessTTL)
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{
		AccessToken: signed,
		TokenType:   "bearer",
		UserID:      userID,
	}, nil
}
