package handler

import (
	"net/http"
	"strings"

	"artschool-backend/internal/service"
	"artschool-backend/pkg/apierror"
)

type OAuthHandler struct {
	service *service.OAuthService
}

func NewOAuthHandler(service *service.OAuthService) *OAuthHandler {
	return &OAuthHandler{service: service}
}

// AuthURL hands the front end the provider's authorization URL.
func (h *OAuthHandler) AuthURL(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"auth_url": h.service.AuthURL()})
}

// Callback receives the provider redirect carrying the authorization code.
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if code == "" {
		writeError(w, apierror.BadRequest("query parameter 'code' is required", "code"))
		return
	}

	tokens, err := h.service.LoginWithCode(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, tokens)
}
