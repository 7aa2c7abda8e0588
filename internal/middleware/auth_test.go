package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"artschool-backend/internal/model"
	"artschool-backend/pkg/apierror"
)

type stubValidator struct {
	subject string
	err     error
}

func (s *stubValidator) Validate(string) (string, error) {
	return s.subject, s.err
}

type stubUserFinder struct {
	user model.User
	err  error
}

func (s *stubUserFinder) FindByUsername(context.Context, string) (model.User, error) {
	return s.user, s.err
}

func authedRequest(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, "maria", user.Username)
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("resolves the token to a user in context", func(t *testing.T) {
		mw := NewAuthMiddleware(
			&stubValidator{subject: "maria"},
			&stubUserFinder{user: model.User{ID: 1, Username: "maria"}},
		)

		rec := httptest.NewRecorder()
		mw.RequireAuth(okHandler).ServeHTTP(rec, authedRequest("valid"))
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("missing header is a 401", func(t *testing.T) {
		mw := NewAuthMiddleware(&stubValidator{subject: "maria"}, &stubUserFinder{})

		rec := httptest.NewRecorder()
		mw.RequireAuth(okHandler).ServeHTTP(rec, authedRequest(""))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token and vanished subject return identical bodies", func(t *testing.T) {
		badToken := NewAuthMiddleware(
			&stubValidator{err: errors.New("bad signature")},
			&stubUserFinder{},
		)
		goneUser := NewAuthMiddleware(
			&stubValidator{subject: "ghost"},
			&stubUserFinder{err: apierror.NotFound("user not found", "ghost")},
		)

		recBad := httptest.NewRecorder()
		badToken.RequireAuth(okHandler).ServeHTTP(recBad, authedRequest("forged"))

		recGone := httptest.NewRecorder()
		goneUser.RequireAuth(okHandler).ServeHTTP(recGone, authedRequest("stale"))

		require.Equal(t, http.StatusUnauthorized, recBad.Code)
		require.Equal(t, http.StatusUnauthorized, recGone.Code)
		require.Equal(t, recBad.Body.String(), recGone.Body.String())
	})

	t.Run("store failure is a 500, not a 401", func(t *testing.T) {
		mw := NewAuthMiddleware(
			&stubValidator{subject: "maria"},
			&stubUserFinder{err: errors.New("connection refused")},
		)

		rec := httptest.NewRecorder()
		mw.RequireAuth(okHandler).ServeHTTP(rec, authedRequest("valid"))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
		require.NotContains(t, rec.Body.String(), "connection refused")
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("admin user passes", func(t *testing.T) {
		mw := NewAuthMiddleware(
			&stubValidator{subject: "root"},
			&stubUserFinder{user: model.User{ID: 1, Username: "root", IsAdmin: true}},
		)

		rec := httptest.NewRecorder()
		mw.RequireAuth(mw.RequireAdmin(okHandler)).ServeHTTP(rec, authedRequest("valid"))
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("authenticated non-admin gets a 403", func(t *testing.T) {
		mw := NewAuthMiddleware(
			&stubValidator{subject: "maria"},
			&stubUserFinder{user: model.User{ID: 2, Username: "maria"}},
		)

		rec := httptest.NewRecorder()
		mw.RequireAuth(mw.RequireAdmin(okHandler)).ServeHTTP(rec, authedRequest("valid"))
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unauthenticated request gets a 401 before the role check", func(t *testing.T) {
		mw := NewAuthMiddleware(
			&stubValidator{err: errors.New("expired")},
			&stubUserFinder{user: model.User{IsAdmin: true}},
		)

		rec := httptest.NewRecorder()
		mw.RequireAuth(mw.RequireAdmin(okHandler)).ServeHTTP(rec, authedRequest("expired"))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
