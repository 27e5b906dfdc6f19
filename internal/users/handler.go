package users

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bundler-sim/bundler_sim/internal/envelope"
)

// Handler exposes account endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a users HTTP handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	PIN      string `json:"pin"`
}

type createRequest struct {
	Username     string `json:"username"`
	PIN          string `json:"pin"`
	Role         string `json:"role"`
	AdminSession string `json:"admin_session"`
}

type updateRequest struct {
	UserID       string `json:"user_id"`
	AdminSession string `json:"admin_session"`
	Updates      struct {
		Role     *string `json:"role"`
		PIN      *string `json:"pin"`
		IsActive *bool   `json:"is_active"`
	} `json:"updates"`
}

type deleteRequest struct {
	UserID       string `json:"user_id"`
	AdminSession string `json:"admin_session"`
}

type userResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Role        string     `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at"`
	IsActive    bool       `json:"is_active"`
}

type sessionResponse struct {
	SessionID    string    `json:"session_id"`
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	LoginAt      time.Time `json:"login_at"`
	LastActivity time.Time `json:"last_activity"`
	ExpiresAt    time.Time `json:"expires_at"`
	IPAddress    string    `json:"ip_address"`
	UserAgent    string    `json:"user_agent"`
}

// Login validates credentials and opens a session.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	envelope.Bind(c, &req, h.logger)

	user, sess, err := h.service.Login(c.UserContext(), Credentials{
		Username:  req.Username,
		PIN:       req.PIN,
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	})
	if err != nil {
		return h.fail(c, err)
	}
	h.logger.InfoContext(c.UserContext(), "user logged in", "user_id", user.ID, "role", user.Role)
	return envelope.OK(c, fiber.Map{
		"user":    toUser(user),
		"session": toSession(sess),
	})
}

// Create adds an account. Requires an admin session.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	envelope.Bind(c, &req, h.logger)

	user, err := h.service.Create(c.UserContext(), req.AdminSession, CreateInput{Username: req.Username, PIN: req.PIN, Role: req.Role})
	if err != nil {
		return h.fail(c, err)
	}
	return envelope.OK(c, fiber.Map{"user": toUser(user)})
}

// Update changes an account. Requires an admin session.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req updateRequest
	envelope.Bind(c, &req, h.logger)

	user, err := h.service.Update(c.UserContext(), req.AdminSession, req.UserID, UpdateInput{
		Role:     req.Updates.Role,
		PIN:      req.Updates.PIN,
		IsActive: req.Updates.IsActive,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return envelope.OK(c, fiber.Map{"user": toUser(user)})
}

// Delete removes an account. Requires an admin session.
func (h *Handler) Delete(c *fiber.Ctx) error {
	var req deleteRequest
	envelope.Bind(c, &req, h.logger)

	if err := h.service.Delete(c.UserContext(), req.AdminSession, req.UserID); err != nil {
		return h.fail(c, err)
	}
	return envelope.OK(c, fiber.Map{
		"deleted_user_id": req.UserID,
		"deleted_at":      h.service.Now(),
	})
}

// List returns all accounts.
func (h *Handler) List(c *fiber.Ctx) error {
	list, err := h.service.List(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	out := make([]userResponse, 0, len(list))
	for _, u := range list {
		out = append(out, toUser(u))
	}
	return envelope.OK(c, fiber.Map{"users": out, "total_count": len(out)})
}

// Sessions returns the live sessions.
func (h *Handler) Sessions(c *fiber.Ctx) error {
	list := h.service.Sessions()
	out := make([]sessionResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSession(s))
	}
	return envelope.OK(c, fiber.Map{"sessions": out, "active_count": len(out)})
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrCredentialsRequired):
		return envelope.Fail(c, "Username and PIN are required")
	case errors.Is(err, ErrInvalidCredentials):
		return envelope.Fail(c, "Invalid username or PIN")
	case errors.Is(err, ErrAdminRequired):
		return envelope.Fail(c, "Admin authentication required")
	case errors.Is(err, ErrInvalidPIN):
		return envelope.Fail(c, "PIN must be exactly 6 digits")
	case errors.Is(err, ErrUsernameTaken):
		return envelope.Fail(c, "Username already exists")
	case errors.Is(err, ErrUserIDRequired):
		return envelope.Fail(c, "User ID is required")
	case errors.Is(err, ErrProtectedUser):
		return envelope.Fail(c, "Cannot delete admin user")
	case errors.Is(err, ErrUserNotFound):
		return envelope.Fail(c, "User not found")
	case errors.Is(err, ErrInvalidRole):
		return envelope.Fail(c, "Invalid role")
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}

func toUser(u User) userResponse {
	return userResponse{
		ID:          u.ID,
		Username:    u.Username,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		LastLoginAt: u.LastLoginAt,
		IsActive:    u.IsActive,
	}
}

func toSession(s Session) sessionResponse {
	return sessionResponse{
		SessionID:    s.ID,
		UserID:       s.UserID,
		Username:     s.Username,
		LoginAt:      s.LoginAt,
		LastActivity: s.LastActivity,
		ExpiresAt:    s.ExpiresAt,
		IPAddress:    s.IPAddress,
		UserAgent:    s.UserAgent,
	}
}
