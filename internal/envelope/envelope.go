// Package envelope renders the {success, data, error} response shape shared
// by every API endpoint.
package envelope

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Response is the wire envelope. OperationID and TotalWallets sit next to
// Data for the endpoints that report them.
type Response struct {
	Success      bool   `json:"success"`
	Data         any    `json:"data,omitempty"`
	Error        string `json:"error,omitempty"`
	OperationID  string `json:"operation_id,omitempty"`
	TotalWallets *int   `json:"total_wallets,omitempty"`
}

// OK writes a successful envelope with HTTP 200.
func OK(c *fiber.Ctx, data any) error {
	return c.Status(http.StatusOK).JSON(Response{Success: true, Data: data})
}

// Fail writes success=false with HTTP 200. Validation and simulated
// failures are reported in-band.
func Fail(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusOK).JSON(Response{Success: false, Error: message})
}

// FailStatus writes success=false with an explicit status code.
func FailStatus(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(Response{Success: false, Error: message})
}

// Send writes r as is.
func Send(c *fiber.Ctx, r Response) error {
	return c.Status(http.StatusOK).JSON(r)
}

// Count is a helper for Response.TotalWallets.
func Count(n int) *int {
	return &n
}

// Bind decodes the JSON body into out. Malformed or missing bodies leave out
// untouched so handlers fall back to their defaults; a body that fails
// part-way binds nothing.
func Bind[T any](c *fiber.Ctx, out *T, logger *slog.Logger) {
	body := c.Body()
	if len(body) == 0 {
		return
	}
	decoded := *out
	if err := c.App().Config().JSONDecoder(body, &decoded); err != nil {
		if logger != nil {
			logger.DebugContext(c.UserContext(), "ignoring malformed body", "path", c.Path(), "error", err)
		}
		return
	}
	*out = decoded
}

// ErrorHandler renders unmatched routes as plain-text 404 and every other
// error as a failed envelope carrying the fiber status code.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := http.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code == http.StatusNotFound {
			c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
			return c.Status(code).SendString(err.Error())
		}
		if code >= http.StatusInternalServerError && logger != nil {
			logger.ErrorContext(c.UserContext(), "request failed", "path", c.Path(), "error", err)
		}
		return c.Status(code).JSON(Response{Success: false, Error: err.Error()})
	}
}
