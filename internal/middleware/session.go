package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kobo-pay/kobo_pay/internal/apperr"
	"github.com/kobo-pay/kobo_pay/internal/auth"
	"github.com/kobo-pay/kobo_pay/internal/identity"
)

// Session returns a middleware that validates bearer session tokens and
// confirms the bound user still exists before admitting the request.
func Session(tokens *auth.TokenIssuer, repo identity.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return apperr.Auth("missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])
		phone, err := tokens.Verify(tokenStr)
		if err != nil {
			return err
		}
		if _, err := repo.Find(c.UserContext(), phone); err != nil {
			return apperr.Auth("session user no longer exists")
		}
		c.Locals("phone", phone)
		return c.Next()
	}
}
