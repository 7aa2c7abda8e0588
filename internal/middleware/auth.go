package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"artschool-backend/internal/model"
	"artschool-backend/pkg/apierror"
)

type tokenValidator interface {
	Validate(tokenString string) (subject string, err error)
}

type userFinder interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
}

type contextKey string

const currentUserContextKey contextKey = "current_user"

type AuthMiddleware struct {
	validator tokenValidator
	users     userFinder
}

func NewAuthMiddleware(validator tokenValidator, users userFinder) *AuthMiddleware {
	return &AuthMiddleware{validator: validator, users: users}
}

// RequireAuth resolves the bearer token to a user record and stores it in
// the request context. An invalid token and a token whose subject no longer
// exists produce the same 401; callers cannot tell the causes apart.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			writeGuardError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid authorization header")
			return
		}

		subject, err := m.validator.Validate(strings.TrimSpace(header[7:]))
		if err != nil {
			writeGuardError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			return
		}

		user, err := m.users.FindByUsername(r.Context(), subject)
		if err != nil {
			// A missing subject means a stale token, indistinguishable
			// from an invalid one. Anything else is a store failure.
			if isNotFound(err) {
				writeGuardError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
				return
			}
			slog.Error("user lookup failed during auth", "error", err.Error())
			writeGuardError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected server error")
			return
		}

		ctx := context.WithValue(r.Context(), currentUserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin layers the role check on top of RequireAuth; it never runs
// against an unauthenticated request.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			writeGuardError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}

		if !user.IsAdmin {
			writeGuardError(w, http.StatusForbidden, "FORBIDDEN", "admin rights required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func UserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(currentUserContextKey).(model.User)
	return user, ok
}

func isNotFound(err error) bool {
	var apiErr *apierror.APIError
	return errors.As(err, &apiErr) && apiErr.Code == "NOT_FOUND"
}

func writeGuardError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    code,
			Message: message,
		},
	})
}
