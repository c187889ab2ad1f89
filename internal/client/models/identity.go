// Package models defines the wire types of the MonCraft portal backend as
// consumed by the client. Fields mirror the backend JSON payloads.
package models

import "time"

// Identity is the resolved user profile tied to a credential. It is an
// immutable snapshot: the session layer replaces it wholesale on each
// resolution and never patches individual fields.
type Identity struct {
	ID         string     `json:"id"`
	Username   string     `json:"minecraft_username"`
	UUID       string     `json:"uuid"`
	AvatarURL  string     `json:"skin_url,omitempty"`
	IsAdmin    bool       `json:"is_admin"`
	CreatedAt  time.Time  `json:"created_at"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
	LoginCount int        `json:"login_count,omitempty"`
}

// LoginResult is the /auth/login success payload. The backend provisions the
// account on first login, so the identity rides along with the token and no
// follow-up /auth/me call is needed.
type LoginResult struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        Identity `json:"user"`
}
