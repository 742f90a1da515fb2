package bills

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/kobo-pay/kobo_pay/internal/apperr"
	"github.com/kobo-pay/kobo_pay/internal/swervpay"
)

// Handler proxies bill payment operations to the payments provider.
type Handler struct {
	client *swervpay.Client
}

// NewHandler builds a bills HTTP handler.
func NewHandler(client *swervpay.Client) *Handler {
	return &Handler{client: client}
}

// Categories lists the top-level bill categories.
func (h *Handler) Categories(c *fiber.Ctx) error {
	categories, err := h.client.BillCategories(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"categories": categories})
}

// CategoryList lists the billers within one category.
func (h *Handler) CategoryList(c *fiber.Ctx) error {
	items, err := h.client.BillCategoryList(c.UserContext(), c.Params("categoryId"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"items": items})
}

// CategoryItem fetches one biller's detail and pricing.
func (h *Handler) CategoryItem(c *fiber.Ctx) error {
	item, err := h.client.BillCategoryItem(c.UserContext(), c.Params("categoryId"), c.Params("itemId"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"item": item})
}

type validateCustomerRequest struct {
	BillerCode string `json:"biller_code"`
	CustomerID string `json:"customer_id"`
}

// ValidateCustomer confirms a biller-side customer reference before payment.
func (h *Handler) ValidateCustomer(c *fiber.Ctx) error {
	var req validateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	result, err := h.client.ValidateBillCustomer(c.UserContext(), req.BillerCode, req.CustomerID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"customer": result})
}

type createBillRequest struct {
	Amount     int64          `json:"amount"`
	BillerCode string         `json:"biller_code"`
	CustomerID string         `json:"customer_id"`
	Reference  string         `json:"reference"`
	Metadata   map[string]any `json:"metadata"`
}

// Create submits a bill payment. The route carries idempotency middleware so
// client retries with the same key replay the stored response.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createBillRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	payment, err := h.client.CreateBillPayment(c.UserContext(), swervpay.BillPaymentInput{
		Amount:     req.Amount,
		BillerCode: req.BillerCode,
		CustomerID: req.CustomerID,
		Reference:  req.Reference,
		Metadata:   req.Metadata,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"payment": payment})
}
