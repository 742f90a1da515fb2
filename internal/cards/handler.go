package cards

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/kobo-pay/kobo_pay/internal/apperr"
	"github.com/kobo-pay/kobo_pay/internal/identity"
	"github.com/kobo-pay/kobo_pay/internal/swervpay"
)

// Handler proxies customer and card operations to the card provider.
type Handler struct {
	client *swervpay.Client
	ids    *identity.Service
}

// NewHandler builds a cards HTTP handler.
func NewHandler(client *swervpay.Client, ids *identity.Service) *Handler {
	return &Handler{client: client, ids: ids}
}

type createCustomerRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Country     string `json:"country"`
}

// CreateCustomer creates a card-provider customer for the authenticated user
// and records the provider id on the user record.
func (h *Handler) CreateCustomer(c *fiber.Ctx) error {
	phone, _ := c.Locals("phone").(string)
	if phone == "" {
		return apperr.Auth("unauthorized")
	}
	var req createCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if req.PhoneNumber == "" {
		req.PhoneNumber = phone
	}

	customer, err := h.client.CreateCustomer(c.UserContext(), swervpay.CreateCustomerInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Country:     req.Country,
	})
	if err != nil {
		return err
	}
	if err := h.ids.AttachCardCustomer(c.UserContext(), phone, customer.ID); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"customer": customer})
}

// GetCustomer fetches one provider customer.
func (h *Handler) GetCustomer(c *fiber.Ctx) error {
	customer, err := h.client.GetCustomer(c.UserContext(), c.Params("customerId"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"customer": customer})
}

// ListCustomers pages through provider customers.
func (h *Handler) ListCustomers(c *fiber.Ctx) error {
	page, err := h.client.ListCustomers(c.UserContext(), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(page)
}

// UpdateCustomer replaces the mutable provider customer fields.
func (h *Handler) UpdateCustomer(c *fiber.Ctx) error {
	var req createCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	customer, err := h.client.UpdateCustomer(c.UserContext(), c.Params("customerId"), swervpay.CreateCustomerInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Country:     req.Country,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"customer": customer})
}

// CustomerKYC forwards a KYC submission to the provider unmodified; the
// provider owns the document schema.
func (h *Handler) CustomerKYC(c *fiber.Ctx) error {
	var payload map[string]any
	if err := c.BodyParser(&payload); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := h.client.CustomerKYC(c.UserContext(), c.Params("customerId"), payload); err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "KYC submitted"})
}

type createCardRequest struct {
	CustomerID string `json:"customer_id"`
	Type       string `json:"type"`
	Currency   string `json:"currency"`
}

// CreateCard issues a card. The customer id defaults to the one recorded on
// the authenticated user.
func (h *Handler) CreateCard(c *fiber.Ctx) error {
	phone, _ := c.Locals("phone").(string)
	var req createCardRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if req.CustomerID == "" && phone != "" {
		user, err := h.ids.Get(c.UserContext(), phone)
		if err != nil {
			return err
		}
		req.CustomerID = user.CardCustomerID
	}

	card, err := h.client.CreateCard(c.UserContext(), swervpay.CreateCardInput{
		CustomerID: req.CustomerID,
		Type:       req.Type,
		Currency:   req.Currency,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"card": card})
}

// GetCard fetches one card.
func (h *Handler) GetCard(c *fiber.Ctx) error {
	card, err := h.client.GetCard(c.UserContext(), c.Params("cardId"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"card": card})
}

// ListCards pages through issued cards.
func (h *Handler) ListCards(c *fiber.Ctx) error {
	page, err := h.client.ListCards(c.UserContext(), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(page)
}

type amountRequest struct {
	Amount int64 `json:"amount"`
}

// Fund moves value onto a card.
func (h *Handler) Fund(c *fiber.Ctx) error {
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	card, err := h.client.FundCard(c.UserContext(), c.Params("cardId"), req.Amount)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"card": card})
}

// Withdraw moves value off a card.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	card, err := h.client.WithdrawFromCard(c.UserContext(), c.Params("cardId"), req.Amount)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"card": card})
}

// Freeze suspends card spending.
func (h *Handler) Freeze(c *fiber.Ctx) error {
	return h.stateOp(c, h.client.FreezeCard, "card frozen")
}

// Unfreeze lifts a freeze.
func (h *Handler) Unfreeze(c *fiber.Ctx) error {
	return h.stateOp(c, h.client.UnfreezeCard, "card unfrozen")
}

// Terminate permanently closes a card.
func (h *Handler) Terminate(c *fiber.Ctx) error {
	return h.stateOp(c, h.client.TerminateCard, "card terminated")
}

// Transactions pages through a card's transaction history.
func (h *Handler) Transactions(c *fiber.Ctx) error {
	page, err := h.client.CardTransactions(c.UserContext(), c.Params("cardId"), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(page)
}

func (h *Handler) stateOp(c *fiber.Ctx, op func(ctx context.Context, cardID string) error, message string) error {
	if err := op(c.UserContext(), c.Params("cardId")); err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": message})
}

func queryInt(c *fiber.Ctx, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}
