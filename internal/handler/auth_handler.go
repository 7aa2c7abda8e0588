package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"artschool-backend/internal/middleware"
	"artschool-backend/internal/model"
	"artschool-backend/internal/service"
	"artschool-backend/pkg/apierror"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	tokens, err := h.service.Register(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, tokens)
}

// Login accepts credentials either as a classic OAuth2 password form or as
// a JSON body.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	username, password, err := credentialsFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	tokens, err := h.service.Login(r.Context(), username, password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, tokens)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	writeSuccess(w, http.StatusOK, user.Profile())
}

func credentialsFromRequest(r *http.Request) (string, string, error) {
	contentType := strings.ToLower(r.Header.Get("Content-Type"))

	if strings.Contains(contentType, "application/json") {
		var payload model.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return "", "", apierror.BadRequest("invalid JSON body", "")
		}
		return payload.Username, payload.Password, nil
	}

	if err := r.ParseForm(); err != nil {
		return "", "", apierror.BadRequest("invalid form body", "")
	}

	return r.PostFormValue("username"), r.PostFormValue("password"), nil
}
