package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kobo-pay/kobo_pay/internal/wallet"
)

// RegisterWalletRoutes wires custodial wallet endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	group := r.Group("/wallet")
	group.Get("/dashboard", h.Dashboard)
	group.Get("/balances/:address", h.Balances)
	group.Get("/transactions", h.Transactions)
	group.Get("/transactions/:address", h.TransactionsByAddress)
}
