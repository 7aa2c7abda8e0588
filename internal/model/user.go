package model

// User is the credential-store record. IsAdmin is a real boolean in the
// domain; the 0/1 encoding lives only in the repository layer.
type User struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	PasswordHash  string `json:"-"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	IsAdmin       bool   `json:"is_admin"`
	RegisteredAt  string `json:"date_reg"`
	OAuthProvider string `json:"-"`
	OAuthID       string `json:"-"`
	OAuthEmail    string `json:"-"`
}

// Profile is the shape returned to the authenticated user themselves.
type Profile struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsAdmin   bool   `json:"is_admin"`
}

// AdminUserView is a user row as seen in the admin panel, with the derived
// lesson-progress percentage and the normalized registration date.
type AdminUserView struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Progress  int    `json:"progress"`
	DateReg   string `json:"date_reg"`
	IsAdmin   bool   `json:"is_admin"`
}

type AdminStats struct {
	TotalUsers   int     `json:"total_users"`
	AdminCount   int     `json:"admin_count"`
	RegularUsers int     `json:"regular_users"`
	AvgProgress  float64 `json:"avg_progress"`
}

func (u User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsAdmin:   u.IsAdmin,
	}
}
