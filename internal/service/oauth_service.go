package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"artschool-backend/internal/model"
	"artschool-backend/internal/util"
	"artschool-backend/pkg/apierror"
)

// ProviderProfile is the verified identity an OAuth provider hands back
// after exchanging an authorization code.
type ProviderProfile struct {
	ExternalID string
	Email      string
	FirstName  string
	LastName   string
}

// ProviderClient is the external collaborator doing the network exchange.
// Its failures surface to the end user as an authentication failure, never
// a crash.
type ProviderClient interface {
	Name() string
	AuthURL() string
	Exchange(ctx context.Context, code string) (ProviderProfile, error)
}

type OAuthService struct {
	users     UserStore
	tokens    TokenIssuer
	provider  ProviderClient
	accessTTL time.Duration
}

func NewOAuthService(users UserStore, tokens TokenIssuer, provider ProviderClient, accessTTL time.Duration) *OAuthService {
	return &OAuthService{users: users, tokens: tokens, provider: provider, accessTTL: accessTTL}
}

func (s *OAuthService) AuthURL() string {
	return s.provider.AuthURL()
}

// LoginWithCode exchanges the authorization code, finds or creates the
// linked local account, and issues a token the same way password login does.
func (s *OAuthService) LoginWithCode(ctx context.Context, code string) (model.TokenResponse, error) {
	if strings.TrimSpace(code) == "" {
		return model.TokenResponse{}, apierror.BadRequest("authorization code is required", "")
	}

	profile, err := s.provider.Exchange(ctx, code)
	if err != nil {
		slog.Error("oauth exchange failed", "provider", s.provider.Name(), "error", err)
		return model.TokenResponse{}, apierror.Unauthorized("provider authentication failed")
	}

	if profile.ExternalID == "" {
		return model.TokenResponse{}, apierror.Unauthorized("provider authentication failed")
	}

	user, err := s.findOrCreate(ctx, profile)
	if err != nil {
		return model.TokenResponse{}, err
	}

	signed, err := s.tokens.Issue(user.Username, s.accessTTL)
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{
		AccessToken: signed,
		TokenType:   "bearer",
		UserID:      user.ID,
	}, nil
}

func (s *OAuthService) findOrCreate(ctx context.Context, profile ProviderProfile) (model.User, error) {
	user, err := s.users.FindByOAuth(ctx, s.provider.Name(), profile.ExternalID)
	if err == nil {
		return user, nil
	}
	if !isNotFound(err) {
		return model.User{}, err
	}

	// Fall back to an account already linked to the same email.
	if profile.Email != "" {
		user, err = s.users.FindByOAuthEmail(ctx, profile.Email)
		if err == nil {
			return user, nil
		}
		if !isNotFound(err) {
			return model.User{}, err
		}
	}

	created := model.User{
		Username:      fmt.Sprintf("%s_%s", s.provider.Name(), profile.ExternalID),
		FirstName:     strings.TrimSpace(profile.FirstName),
		LastName:      strings.TrimSpace(profile.LastName),
		IsAdmin:       false,
		RegisteredAt:  util.FormatRegDate(time.Now()),
		OAuthProvider: s.provider.Name(),
		OAuthID:       profile.ExternalID,
		OAuthEmail:    strings.TrimSpace(profile.Email),
	}

	id, err := s.users.Create(ctx, created)
	if err != nil {
		return model.User{}, err
	}

	created.ID = id
	return created, nil
}

func isNotFound(err error) bool {
	var apiErr *apierror.APIError
	return errors.As(err, &apiErr) && apiErr.Code == "NOT_FOUND"
}
