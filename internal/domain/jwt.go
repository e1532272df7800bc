package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// RepflowClaims represents the JWT claims the session API accepts
type RepflowClaims struct {
	UserID string   `json:"user_id"`
	Email  string   `json:"email,omitempty"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// Roles allowed to run workout sessions
const (
	RoleMember = "member"
	RoleCoach  = "coach"
)
