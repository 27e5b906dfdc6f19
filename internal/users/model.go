package users

import "time"

// Roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is a dashboard account.
type User struct {
	ID          string
	Username    string
	Role        string
	PINHash     []byte
	IsActive    bool
	Protected   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastLoginAt *time.Time
}

// Session is issued on login and identifies the caller on admin calls.
type Session struct {
	ID           string
	UserID       string
	Username     string
	Role         string
	LoginAt      time.Time
	LastActivity time.Time
	ExpiresAt    time.Time
	IPAddress    string
	UserAgent    string
}

// Credentials request structure.
type Credentials struct {
	Username  string
	PIN       string
	IPAddress string
	UserAgent string
}

// CreateInput describes a new account.
type CreateInput struct {
	Username string
	PIN      string
	Role     string
}

// UpdateInput lists the mutable fields. Nil means unchanged.
type UpdateInput struct {
	Role     *string
	PIN      *string
	IsActive *bool
}
