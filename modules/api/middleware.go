package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/task-api/domain/principal"
)

const (
	// PrincipalContextKey is the key used to store the verified
	// principal in the Fiber context.
	PrincipalContextKey = "principal"

	// msgUnauthenticated is the single detail string for every 401. A
	// missing, malformed, badly signed, or expired token must all read
	// the same to the caller.
	msgUnauthenticated = "Not authenticated"
)

// TokenVerifier validates a bearer token and returns the principal it
// asserts.
type TokenVerifier interface {
	Verify(token string) (principal.Principal, error)
}

// AuthMiddleware creates a middleware that verifies the bearer token
// and stores the resulting principal in the request context.
func AuthMiddleware(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return unauthenticated(c)
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			return unauthenticated(c)
		}

		p, err := verifier.Verify(token)
		if err != nil {
			return unauthenticated(c)
		}

		c.Locals(PrincipalContextKey, p)
		return c.Next()
	}
}

// RequireOwner creates a middleware that enforces the path/token
// identity check: the :ownerID path segment must equal the verified
// principal's id. A mismatch means the caller asserts a false identity,
// so this is the one place that answers 403 rather than 404, and it
// short-circuits before any task service call.
func RequireOwner() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := c.Locals(PrincipalContextKey).(principal.Principal)
		if !ok {
			return unauthenticated(c)
		}

		if c.Params("ownerID") != p.ID {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Detail: "You don't have permission to access this resource",
			})
		}
		return c.Next()
	}
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Detail: msgUnauthenticated,
	})
}
