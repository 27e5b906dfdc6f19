// Package users implements the dashboard login stub: PIN accounts, sessions
// and admin-only account management.
package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	pinLength         = 6
	defaultSessionTTL = 24 * time.Hour
	seedAdminID       = "admin"
)

var (
	ErrCredentialsRequired = errors.New("username and PIN are required")
	ErrInvalidCredentials  = errors.New("invalid username or PIN")
	ErrAdminRequired       = errors.New("admin authentication required")
	ErrInvalidPIN          = errors.New("PIN must be exactly 6 digits")
	ErrUsernameTaken       = errors.New("username already exists")
	ErrUserIDRequired      = errors.New("user ID is required")
	ErrProtectedUser       = errors.New("cannot delete admin user")
	ErrInvalidRole         = errors.New("invalid role")
)

// reserved names cannot be claimed by new accounts.
var reserved = map[string]bool{"walshadmin": true, "demo": true, "admin": true, "test": true}

// Seed is an account created at startup.
type Seed struct {
	Username string
	PIN      string
	Role     string
}

// Service manages accounts and sessions.
type Service struct {
	repo     Repository
	sessions *sessionStore
	ttl      time.Duration
	cost     int
	now      func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithSessionTTL sets how long a session stays valid.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

// WithHashCost sets the bcrypt cost.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new account service.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		sessions: newSessionStore(),
		ttl:      defaultSessionTTL,
		cost:     bcrypt.DefaultCost,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SeedUsers creates the startup accounts. The first admin gets the fixed id
// "admin" and cannot be deleted.
func (s *Service) SeedUsers(ctx context.Context, seeds []Seed) error {
	adminSeeded := false
	for _, seed := range seeds {
		username := normalize(seed.Username)
		if username == "" {
			continue
		}
		role := seed.Role
		if role == "" {
			role = RoleUser
		}
		id := uuid.NewString()
		protected := false
		if role == RoleAdmin && !adminSeeded {
			id, protected, adminSeeded = seedAdminID, true, true
		}
		if _, err := s.create(ctx, id, username, seed.PIN, role, protected); err != nil {
			return err
		}
	}
	return nil
}

// Login verifies the PIN and opens a session.
func (s *Service) Login(ctx context.Context, creds Credentials) (User, Session, error) {
	username := normalize(creds.Username)
	if username == "" || creds.PIN == "" {
		return User{}, Session{}, ErrCredentialsRequired
	}
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return User{}, Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.PINHash, []byte(creds.PIN)); err != nil || !user.IsActive {
		return User{}, Session{}, ErrInvalidCredentials
	}

	now := s.now()
	user.LastLoginAt = &now
	if err := s.repo.Update(ctx, user); err != nil {
		return User{}, Session{}, err
	}

	sess := Session{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		Username:     user.Username,
		Role:         user.Role,
		LoginAt:      now,
		LastActivity: now,
		ExpiresAt:    now.Add(s.ttl),
		IPAddress:    creds.IPAddress,
		UserAgent:    creds.UserAgent,
	}
	s.sessions.put(sess)
	return user, sess, nil
}

// VerifyAdmin succeeds when sessionID belongs to a live admin session.
func (s *Service) VerifyAdmin(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrAdminRequired
	}
	sess, ok := s.sessions.touch(sessionID, s.now())
	if !ok || sess.Role != RoleAdmin {
		return ErrAdminRequired
	}
	return nil
}

// Create adds an account on behalf of an admin.
func (s *Service) Create(ctx context.Context, adminSession string, in CreateInput) (User, error) {
	if err := s.VerifyAdmin(ctx, adminSession); err != nil {
		return User{}, err
	}
	username := normalize(in.Username)
	if username == "" || in.PIN == "" {
		return User{}, ErrCredentialsRequired
	}
	if !validPIN(in.PIN) {
		return User{}, ErrInvalidPIN
	}
	role := in.Role
	if role == "" {
		role = RoleUser
	}
	if reserved[username] {
		return User{}, ErrUsernameTaken
	}
	user, err := s.create(ctx, uuid.NewString(), username, in.PIN, role, false)
	if errors.Is(err, ErrUserExists) {
		return User{}, ErrUsernameTaken
	}
	return user, err
}

// Update changes role, PIN or activation of an account.
func (s *Service) Update(ctx context.Context, adminSession, id string, in UpdateInput) (User, error) {
	if err := s.VerifyAdmin(ctx, adminSession); err != nil {
		return User{}, err
	}
	if id == "" {
		return User{}, ErrUserIDRequired
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if in.Role != nil {
		if !validRole(*in.Role) {
			return User{}, ErrInvalidRole
		}
		user.Role = *in.Role
	}
	if in.PIN != nil {
		if !validPIN(*in.PIN) {
			return User{}, ErrInvalidPIN
		}
		hash, err := s.hash(*in.PIN)
		if err != nil {
			return User{}, err
		}
		user.PINHash = hash
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	user.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, user); err != nil {
		return User{}, err
	}
	if !user.IsActive || in.Role != nil || in.PIN != nil {
		s.sessions.dropUser(user.ID)
	}
	return user, nil
}

// Delete removes an account and its sessions.
func (s *Service) Delete(ctx context.Context, adminSession, id string) error {
	if err := s.VerifyAdmin(ctx, adminSession); err != nil {
		return err
	}
	if id == "" {
		return ErrUserIDRequired
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Protected {
		return ErrProtectedUser
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.sessions.dropUser(id)
	return nil
}

// List returns every account.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Sessions returns the live sessions.
func (s *Service) Sessions() []Session {
	return s.sessions.active(s.now())
}

// Now exposes the service clock to handlers.
func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) create(ctx context.Context, id, username, pin, role string, protected bool) (User, error) {
	if !validRole(role) {
		return User{}, ErrInvalidRole
	}
	hash, err := s.hash(pin)
	if err != nil {
		return User{}, err
	}
	now := s.now()
	user := User{
		ID:        id,
		Username:  username,
		Role:      role,
		PINHash:   hash,
		IsActive:  true,
		Protected: protected,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *Service) hash(pin string) ([]byte, error) {
	if !validPIN(pin) {
		return nil, ErrInvalidPIN
	}
	return bcrypt.GenerateFromPassword([]byte(pin), s.cost)
}

func validPIN(pin string) bool {
	if len(pin) != pinLength {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func validRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

func normalize(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
