package model

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// TokenResponse is the auth payload shape: bearer token plus the id of the
// account it was issued for.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      int64  `json:"user_id"`
}

type UserList struct {
	Users []AdminUserView `json:"users"`
}

type ProgressList struct {
	Progress []ProgressRecord `json:"progress"`
}

type VideoList struct {
	Videos []Video `json:"videos"`
}

type AlbumList struct {
	Albums []Album `json:"albums"`
}

type PhotoList struct {
	Photos []Photo `json:"photos"`
}
