package auth

import (
	"strings"
	"unicode"

	"assetflow/record"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// RoleOf extracts the role from a user document, defaulting to RoleUser.
func RoleOf(user record.Document) Role {
	switch Role(user.String("role")) {
	case RoleAdmin:
		return RoleAdmin
	case RoleManager:
		return RoleManager
	default:
		return RoleUser
	}
}

// SignupRequest contains account creation data supplied by callers.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// LoginRequest contains password login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OTPRequest carries the email for a one-time-code issue or verify call.
type OTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// NormalizeEmail trims and lowercases an address. Every email that enters
// this package is normalized before use so sessions, codes, and user lookups
// are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Sanitize returns a copy of the user document with the password hash
// removed. No response payload ever includes the hash.
func Sanitize(user record.Document) record.Document {
	out := user.Clone()
	delete(out, "password_hash")
	return out
}

// displayName derives a readable name from the local part of an email, used
// when a user record is created implicitly by an OTP request.
func displayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return email
	}
	runes := []rune(local)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
