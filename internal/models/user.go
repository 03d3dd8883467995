package models

import (
	"database/sql"
	"time"
)

// User is the stored account record. AvatarURL, Bio and LastSeen are
// nullable in the schema; JSON views flatten them to empty-string fallbacks.
type User struct {
	ID           int            `db:"id" json:"id"`
	Username     string         `db:"username" json:"username"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	DisplayName  string         `db:"display_name" json:"display_name"`
	AvatarURL    sql.NullString `db:"avatar_url" json:"-"`
	Bio          sql.NullString `db:"bio" json:"-"`
	LastSeen     sql.NullTime   `db:"last_seen" json:"-"`
	CreatedAt    time.Time      `db:"created_at" json:"-"`
}

// AuthUser is the user payload returned by login and verify.
type AuthUser struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Bio         string `json:"bio"`
}

// AuthView flattens a stored user for auth responses.
func (u User) AuthView() AuthUser {
	return AuthUser{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL.String,
		Bio:         u.Bio.String,
	}
}

// ContactView is one row of the contacts listing, ordered by display name.
type ContactView struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Bio      string `json:"bio"`
	Online   bool   `json:"online"`
}

// SearchHit is a raw search row: the matched user plus the contact flag
// relative to the requester.
type SearchHit struct {
	User
	IsContact bool `db:"is_contact"`
}

// UserSearchResult is one row of the user search, annotated with whether the
// requester already has the user as a contact.
type UserSearchResult struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	Bio       string `json:"bio"`
	IsContact bool   `json:"isContact"`
}
