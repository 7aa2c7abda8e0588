package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"artschool-backend/internal/model"
	"artschool-backend/pkg/apierror"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) model.APIResponse {
	t.Helper()

	var envelope model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestWriteError(t *testing.T) {
	t.Parallel()

	t.Run("api errors carry their own status and code", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeError(rec, apierror.Conflict("username already taken", "maria"))

		require.Equal(t, http.StatusConflict, rec.Code)
		envelope := decodeEnvelope(t, rec)
		require.False(t, envelope.Success)
		require.Equal(t, "CONFLICT", envelope.Error.Code)
		require.Equal(t, "maria", envelope.Error.Details)
	})

	t.Run("each error kind maps to its status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeError(rec, apierror.NotFound("user not found", "7"))
		require.Equal(t, http.StatusNotFound, rec.Code)

		rec = httptest.NewRecorder()
		writeError(rec, apierror.Unauthorized("invalid username or password"))
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = httptest.NewRecorder()
		writeError(rec, apierror.Forbidden("admin rights required"))
		require.Equal(t, http.StatusForbidden, rec.Code)

		rec = httptest.NewRecorder()
		writeError(rec, apierror.BadRequest("lesson_id must be positive", ""))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unclassified errors are masked as a generic 500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeError(rec, errors.New("pq: connection refused to 10.0.0.5"))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		envelope := decodeEnvelope(t, rec)
		require.Equal(t, "INTERNAL_ERROR", envelope.Error.Code)
		require.NotContains(t, rec.Body.String(), "10.0.0.5")
	})
}

func TestIDParam(t *testing.T) {
	t.Parallel()

	newRequest := func(value string) *http.Request {
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("id", value)
		r := httptest.NewRequest(http.MethodGet, "/users/"+value, nil)
		return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))
	}

	id, err := idParam(newRequest("42"), "id")
	require.NoError(t, err)
	require.Equal(t, int64(42), id)

	for _, bad := range []string{"abc", "0", "-3", "9999999999999999999999"} {
		_, err := idParam(newRequest(bad), "id")
		require.Error(t, err, "value %q should be rejected", bad)
	}
}

func TestCredentialsFromRequest(t *testing.T) {
	t.Parallel()

	t.Run("reads a urlencoded form", func(t *testing.T) {
		form := url.Values{"username": {"maria"}, "password": {"secret"}}
		r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		username, password, err := credentialsFromRequest(r)
		require.NoError(t, err)
		require.Equal(t, "maria", username)
		require.Equal(t, "secret", password)
	})

	t.Run("reads a json body", func(t *testing.T) {
		body := `{"username":"maria","password":"secret"}`
		r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json; charset=utf-8")

		username, password, err := credentialsFromRequest(r)
		require.NoError(t, err)
		require.Equal(t, "maria", username)
		require.Equal(t, "secret", password)
	})

	t.Run("malformed json is a bad request", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{broken"))
		r.Header.Set("Content-Type", "application/json")

		_, _, err := credentialsFromRequest(r)
		require.Error(t, err)
	})
}
