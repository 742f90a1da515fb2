package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kobo-pay/kobo_pay/internal/bills"
)

// RegisterBillRoutes wires bill payment endpoints. Bill creation carries
// idempotency middleware so retried orders are not double-charged.
func RegisterBillRoutes(r fiber.Router, h *bills.Handler, idem fiber.Handler) {
	group := r.Group("/bills")
	group.Get("/categories", h.Categories)
	group.Get("/categories/:categoryId", h.CategoryList)
	group.Get("/categories/:categoryId/items/:itemId", h.CategoryItem)
	group.Post("/validate-customer", h.ValidateCustomer)
	if idem != nil {
		group.Post("", idem, h.Create)
	} else {
		group.Post("", h.Create)
	}
}
