package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bundler-sim/bundler_sim/internal/envelope"
)

const (
	adminSessionHeader = "X-Admin-Session"
	adminSessionQuery  = "admin_session"
	adminSessionLocal  = "admin_session"
)

// SessionVerifier checks that a session id belongs to a live admin.
type SessionVerifier interface {
	VerifyAdmin(ctx context.Context, sessionID string) error
}

// AdminSession guards read-only admin listings. The session id comes from
// the X-Admin-Session header or the admin_session query parameter.
func AdminSession(verifier SessionVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := strings.TrimSpace(c.Get(adminSessionHeader))
		if sessionID == "" {
			sessionID = strings.TrimSpace(c.Query(adminSessionQuery))
		}
		if err := verifier.VerifyAdmin(c.UserContext(), sessionID); err != nil {
			return envelope.FailStatus(c, http.StatusUnauthorized, "Admin authentication required")
		}
		c.Locals(adminSessionLocal, sessionID)
		return c.Next()
	}
}
