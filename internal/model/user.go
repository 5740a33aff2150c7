// Package model defines domain entities for the application.
package model

import "time"

// User is a registered tool user. Users live in process memory only.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UsageCount  int64     `json:"usage_count"`
}

// UserResponse is the public view returned by register and login.
type UserResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// ProfileResponse is the public view returned by /me.
type ProfileResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	UsageCount  int64  `json:"usage_count"`
}

// ToResponse converts a User to UserResponse.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
	}
}

// ToProfile converts a User to ProfileResponse.
func (u *User) ToProfile() ProfileResponse {
	return ProfileResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		UsageCount:  u.UsageCount,
	}
}

// AuthContext holds the authenticated caller.
// This is injected into the request context by the token middleware.
type AuthContext struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}
