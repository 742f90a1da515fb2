package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kobo-pay/kobo_pay/internal/cards"
)

// RegisterCardRoutes wires card-provider customer and card endpoints.
func RegisterCardRoutes(r fiber.Router, h *cards.Handler) {
	customers := r.Group("/customers")
	customers.Post("", h.CreateCustomer)
	customers.Get("", h.ListCustomers)
	customers.Get("/:customerId", h.GetCustomer)
	customers.Put("/:customerId", h.UpdateCustomer)
	customers.Post("/:customerId/kyc", h.CustomerKYC)

	group := r.Group("/cards")
	group.Post("", h.CreateCard)
	group.Get("", h.ListCards)
	group.Get("/:cardId", h.GetCard)
	group.Post("/:cardId/fund", h.Fund)
	group.Post("/:cardId/withdraw", h.Withdraw)
	group.Post("/:cardId/freeze", h.Freeze)
	group.Post("/:cardId/unfreeze", h.Unfreeze)
	group.Post("/:cardId/terminate", h.Terminate)
	group.Get("/:cardId/transactions", h.Transactions)
}
