package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kobo-pay/kobo_pay/internal/otp"
)

// RegisterOTPRoutes wires phone verification endpoints.
func RegisterOTPRoutes(r fiber.Router, h *otp.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/otp")
	if rateLimiter != nil {
		group.Post("/send", rateLimiter, h.Send)
		group.Post("/resend", rateLimiter, h.Resend)
	} else {
		group.Post("/send", h.Send)
		group.Post("/resend", h.Resend)
	}
	group.Post("/verify", h.Verify)
	group.Get("/status", h.Status)
}
