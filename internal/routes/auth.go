package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kobo-pay/kobo_pay/internal/auth"
)

// RegisterAuthRoutes wires registration, login and PIN recovery endpoints.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	group.Post("/register", h.Register)
	if rateLimiter != nil {
		group.Post("/login", rateLimiter, h.Login)
	} else {
		group.Post("/login", h.Login)
	}
	group.Post("/reset-pin", h.ResetPIN)
}

// RegisterProfileRoutes wires session-scoped account endpoints.
func RegisterProfileRoutes(r fiber.Router, h *auth.Handler) {
	r.Get("/me", h.Me)
	r.Put("/me/profile", h.UpdateProfile)
	r.Post("/me/change-pin", h.ChangePIN)
}
