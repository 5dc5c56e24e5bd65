// Package models defines the user and notification records shared by the
// session and notification components.
package models

import "strings"

// Role classifies an account and drives post-login routing and
// notification visibility.
type Role string

const (
	RoleYouth    Role = "youth"
	RoleEmployer Role = "employer"
	RoleAdmin    Role = "admin"
	RoleVerifier Role = "verifier"
)

// User is the hydrated account record returned by the auth API.
// Profile is an opaque payload the core never interprets.
type User struct {
	ID              string         `json:"id"`
	Email           string         `json:"email"`
	Role            Role           `json:"role"`
	FirstName       string         `json:"firstName,omitempty"`
	LastName        string         `json:"lastName,omitempty"`
	CompanyName     string         `json:"companyName,omitempty"`
	ContactName     string         `json:"contactName,omitempty"`
	IsEmailVerified bool           `json:"isEmailVerified"`
	Profile         map[string]any `json:"profile,omitempty"`
}

// DisplayName derives a human-readable name for the user. No name field is
// guaranteed present for any role, so derivation degrades: explicit name
// fields first, then the email local-part, then a role-based literal.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if n := strings.TrimSpace(u.FirstName + " " + u.LastName); n != "" {
		return n
	}
	if u.CompanyName != "" {
		return u.CompanyName
	}
	if u.ContactName != "" {
		return u.ContactName
	}
	if local, _, ok := strings.Cut(u.Email, "@"); ok && local != "" {
		return local
	}
	if u.Role == RoleAdmin {
		return "Admin"
	}
	return "User"
}
