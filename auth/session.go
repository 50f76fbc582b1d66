package auth

import (
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// Sessions is the process-wide set of currently authenticated emails.
// Membership only: there is no expiry, logout is the only removal path, and
// the set does not survive a restart. Request handlers run concurrently, so
// the map is mutex-guarded.
type Sessions struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewSessions() *Sessions {
	return &Sessions{active: make(map[string]struct{})}
}

// Activate marks the email as authenticated.
func (s *Sessions) Activate(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[email] = struct{}{}
}

// Deactivate removes the email. Removing an absent email is a no-op.
func (s *Sessions) Deactivate(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, email)
}

// Active reports whether the email currently holds a session.
func (s *Sessions) Active(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[email]
	return ok
}

// issueToken signs a bearer token carrying the session email. The token is a
// transport convenience for clients that prefer an Authorization header over
// X-User-Email; the Sessions set stays the source of truth, so a token for a
// logged-out email does not resolve.
func (s *Service) issueToken(email string) (string, error) {
	claims := jwt.MapClaims{
		"email": email,
		"iat":   s.now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign session token: %w", err)
	}
	return signed, nil
}

// EmailFromToken extracts the claimed email from a signed session token.
func (s *Service) EmailFromToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("auth: parse session token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid session token")
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", fmt.Errorf("auth: invalid email in session token")
	}
	return email, nil
}
