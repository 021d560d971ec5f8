// Package auth signs users up and in, and carries the resolved session and
// profile through a request.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"finovo/internal/core"
	"finovo/internal/log"
	"finovo/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("Invalid email or password. Please check your credentials and try again.")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

// Accounts is the storage the auth service needs.
type Accounts interface {
	storage.CredentialStore
	storage.ProfileStore
}

type Service struct {
	accounts Accounts
	sessions SessionStore
	ttl      time.Duration
	cost     int
	logger   *log.Logger
	now      func() time.Time
}

type Option func(*Service)

// WithBcryptCost lowers the hashing cost in tests.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l.WithComponent(log.ComponentAuth)
		}
	}
}

func NewService(accounts Accounts, sessions SessionStore, ttl time.Duration, opts ...Option) *Service {
	s := &Service{
		accounts: accounts,
		sessions: sessions,
		ttl:      ttl,
		cost:     bcrypt.DefaultCost,
		logger:   log.New(log.DefaultConfig()).WithComponent(log.ComponentAuth),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers credentials and the bare profile, then opens a session.
func (s *Service) SignUp(ctx context.Context, email, password, name string) (*Session, error) {
	email = NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID := core.NewID()
	now := s.now().UTC()
	if err := s.accounts.CreateCredentials(ctx, core.Credentials{
		UserID:       userID,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
	}); err != nil {
		return nil, err
	}

	if err := s.accounts.SaveProfile(ctx, core.NewProfile(userID, email, name)); err != nil {
		if delErr := s.accounts.DeleteCredentials(ctx, userID); delErr != nil {
			s.logger.ErrorContext(ctx, "Failed to roll back credentials", log.FieldUserID, userID, log.FieldError, delErr)
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}

	s.logger.InfoContext(ctx, "User signed up", log.FieldUserID, userID)
	return s.openSession(ctx, userID, email)
}

// SignIn checks the password and opens a session. Unknown email and wrong
// password give the same error.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = NormalizeEmail(email)
	creds, err := s.accounts.GetCredentialsByEmail(ctx, email)
	if errors.Is(err, core.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword(creds.PasswordHash, []byte(password)); err != nil {
		s.logger.WarnContext(ctx, "Sign-in rejected", log.FieldUserID, creds.UserID)
		return nil, ErrInvalidCredentials
	}
	return s.openSession(ctx, creds.UserID, creds.Email)
}

func (s *Service) SignOut(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// SignOutEverywhere drops all of the user's sessions.
func (s *Service) SignOutEverywhere(ctx context.Context, userID string) error {
	return s.sessions.DeleteUser(ctx, userID)
}

func (s *Service) Resolve(ctx context.Context, token string) (*Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrSessionNotFound
	}
	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Service) openSession(ctx context.Context, userID, email string) (*Session, error) {
	sess := Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		Email:     email,
		ExpiresAt: s.now().Add(s.ttl).UTC(),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Context is the signed-in user as seen by a request handler. Profile is
// missing until it has been loaded.
type Context struct {
	Session Session
	Profile core.Optional[core.Profile]
}

func (c Context) UserID() string {
	return c.Session.UserID
}

// ProfileComplete is false while the profile is missing.
func (c Context) ProfileComplete() bool {
	p, ok := c.Profile.Get()
	return ok && core.ProfileComplete(p)
}

type contextKey struct{}

func WithContext(ctx context.Context, ac Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (Context, bool) {
	ac, ok := ctx.Value(contextKey{}).(Context)
	return ac, ok
}
