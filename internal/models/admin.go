package models

import (
	"time"
)

// RoleAdmin is the only role allowed into the back office
const RoleAdmin = "admin"

// LoginRequest is the admin login payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned on successful login
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MediaUpload is the result of an image upload
type MediaUpload struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}
