package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// codeEntry is the live one-time code for an email. At most one entry exists
// per address; a reissue overwrites the prior one.
type codeEntry struct {
	code      string
	expiresAt time.Time
}

// OTPStore holds issued one-time codes keyed by normalized email. Like
// Sessions it is volatile process state shared across request handlers, so
// access is mutex-guarded. Expiry is checked lazily at verification; there
// is no background sweep.
type OTPStore struct {
	mu      sync.Mutex
	entries map[string]codeEntry
}

func NewOTPStore() *OTPStore {
	return &OTPStore{entries: make(map[string]codeEntry)}
}

// Issue stores a code for the email, replacing any previous one.
func (o *OTPStore) Issue(email, code string, expiresAt time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries[email] = codeEntry{code: code, expiresAt: expiresAt}
}

// Verify consumes the entry for email when code matches and has not expired.
// The entry is deleted only on success, so a second verify with the same
// code fails.
func (o *OTPStore) Verify(email, code string, now time.Time) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	entry, ok := o.entries[email]
	if !ok || entry.code != code || now.After(entry.expiresAt) {
		return false
	}
	delete(o.entries, email)
	return true
}

// generateCode returns a uniformly random 6-digit numeric string.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("auth: generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
