package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"assetflow/record"
)

var (
	// ErrUnauthorized signals that no active session exists for the claimed
	// identity.
	ErrUnauthorized = errors.New("auth: unauthorized")
	// ErrInvalidCredentials signals wrong email or password. It is deliberately
	// the same error for an unknown account, an account without a password, and
	// a failed hash check, so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	// ErrInvalidOrExpiredCode signals a one-time code that is missing, wrong,
	// expired, or already consumed.
	ErrInvalidOrExpiredCode = errors.New("auth: invalid or expired code")
	// ErrEmailRequired signals a missing email address.
	ErrEmailRequired = errors.New("auth: email required")
	// ErrWeakPassword signals a password under the minimum length.
	ErrWeakPassword = errors.New("auth: password must be at least 6 characters")
	// ErrUserExists signals a signup attempt for an email that already has an
	// account.
	ErrUserExists = errors.New("auth: user with this email already exists")
)

const otpTTL = 5 * time.Minute

// Sender delivers a one-time code out of band. Delivery failure never fails
// issuance; the service logs the code as a fallback channel.
type Sender interface {
	SendOTP(ctx context.Context, email, code string) error
}

// UserStore is the slice of the record store the auth service needs.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (record.Document, error)
	Insert(ctx context.Context, collection string, doc record.Document) (record.Document, error)
	Update(ctx context.Context, collection, id string, partial record.Document) (record.Document, error)
}

// Result bundles the sanitized user document and session token returned by
// every successful authentication path.
type Result struct {
	User  record.Document
	Token string
}

// Service owns the volatile session and one-time-code state and orchestrates
// authentication against the user collection. All state is explicitly
// constructed here and injected into handlers; there are no package-level
// globals.
type Service struct {
	store    UserStore
	sessions *Sessions
	otps     *OTPStore
	sender   Sender
	secret   []byte
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates an authentication service.
func NewService(store UserStore, sender Sender, secret string, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		sessions: NewSessions(),
		otps:     NewOTPStore(),
		sender:   sender,
		secret:   []byte(secret),
		logger:   logger,
		now:      time.Now,
	}
}

// RequestCode issues a one-time code for the email, creating a minimal user
// record when none exists. The code is stored before delivery is attempted,
// so a broken mail path still leaves a verifiable code behind.
func (s *Service) RequestCode(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return ErrEmailRequired
	}

	if _, err := s.ensureUser(ctx, email, "", ""); err != nil {
		return err
	}

	code, err := generateCode()
	if err != nil {
		return err
	}
	s.otps.Issue(email, code, s.now().Add(otpTTL))

	if err := s.sender.SendOTP(ctx, email, code); err != nil {
		// Fallback channel: surface the code in server logs.
		s.logger.Warn("otp delivery failed, code available in log",
			"email", email, "code", code, "error", err)
	}
	return nil
}

// VerifyCode checks the submitted code, and on success activates a session
// and consumes the code.
func (s *Service) VerifyCode(ctx context.Context, email, code string) (Result, error) {
	email = NormalizeEmail(email)
	code = strings.TrimSpace(code)

	if !s.otps.Verify(email, code, s.now()) {
		return Result{}, ErrInvalidOrExpiredCode
	}

	user, err := s.ensureUser(ctx, email, "", "")
	if err != nil {
		return Result{}, err
	}

	s.sessions.Activate(email)
	token, err := s.issueToken(email)
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("authenticated via otp", "email", email)
	return Result{User: Sanitize(user), Token: token}, nil
}

// Signup creates a password-backed account and activates a session.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (Result, error) {
	email := NormalizeEmail(req.Email)
	if email == "" {
		return Result{}, ErrEmailRequired
	}
	password := strings.TrimSpace(req.Password)
	if len(password) < 6 {
		return Result{}, ErrWeakPassword
	}

	if _, err := s.store.FindUserByEmail(ctx, email); err == nil {
		return Result{}, ErrUserExists
	} else if !errors.Is(err, record.ErrNotFound) {
		return Result{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Result{}, fmt.Errorf("auth: hash password: %w", err)
	}

	user, err := s.ensureUser(ctx, email, string(hash), strings.TrimSpace(req.FullName))
	if err != nil {
		return Result{}, err
	}

	s.sessions.Activate(email)
	token, err := s.issueToken(email)
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("new user signed up", "email", email)
	return Result{User: Sanitize(user), Token: token}, nil
}

// Login verifies a password against the stored hash and activates a session.
func (s *Service) Login(ctx context.Context, req LoginRequest) (Result, error) {
	email := NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return Result{}, ErrInvalidCredentials
	}

	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return Result{}, ErrInvalidCredentials
		}
		return Result{}, err
	}

	hash := user.String("password_hash")
	if hash == "" {
		return Result{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		s.logger.Warn("failed password attempt", "email", email)
		return Result{}, ErrInvalidCredentials
	}

	s.sessions.Activate(email)
	token, err := s.issueToken(email)
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("authenticated via password", "email", email)
	return Result{User: Sanitize(user), Token: token}, nil
}

// Logout removes the email from the active session set. Logging out an email
// without a session is a no-op.
func (s *Service) Logout(email string) {
	s.sessions.Deactivate(NormalizeEmail(email))
}

// Resolve maps a claimed email to the full user record, requiring an active
// session. A session whose user record has vanished resolves to unauthorized
// rather than failing harder; it should not occur given session invariants.
func (s *Service) Resolve(ctx context.Context, claimed string) (record.Document, error) {
	email := NormalizeEmail(claimed)
	if email == "" || !s.sessions.Active(email) {
		return nil, ErrUnauthorized
	}

	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return Sanitize(user), nil
}

// ensureUser returns the user document for email, creating a minimal one
// (default role user) when none exists. A non-empty hash is written onto an
// existing passwordless account; fullName overrides the derived name on
// creation and is applied to existing accounts when provided.
func (s *Service) ensureUser(ctx context.Context, email, hash, fullName string) (record.Document, error) {
	existing, err := s.store.FindUserByEmail(ctx, email)
	if err == nil {
		partial := record.Document{}
		if hash != "" && existing.String("password_hash") != hash {
			partial["password_hash"] = hash
		}
		if fullName != "" {
			partial["full_name"] = fullName
		}
		if len(partial) == 0 {
			return existing, nil
		}
		updated, err := s.store.Update(ctx, record.CollectionUsers, existing.String(record.KeyID), partial)
		if err != nil {
			return nil, fmt.Errorf("auth: update user: %w", err)
		}
		return updated, nil
	}
	if !errors.Is(err, record.ErrNotFound) {
		return nil, err
	}

	name := fullName
	if name == "" {
		name = displayName(email)
	}
	doc := record.Document{
		"email":       email,
		"full_name":   name,
		"role":        string(RoleUser),
		"department":  "",
		"phone":       "",
		"employee_id": "",
	}
	if hash != "" {
		doc["password_hash"] = hash
	}

	created, err := s.store.Insert(ctx, record.CollectionUsers, doc)
	if err != nil {
		return nil, fmt.Errorf("auth: create user: %w", err)
	}
	return created, nil
}
