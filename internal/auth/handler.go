package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/kobo-pay/kobo_pay/internal/apperr"
	"github.com/kobo-pay/kobo_pay/internal/identity"
)

// Handler exposes registration, login and PIN management endpoints.
type Handler struct {
	ids    *identity.Service
	tokens *TokenIssuer
}

// NewHandler constructs an auth HTTP handler.
func NewHandler(ids *identity.Service, tokens *TokenIssuer) *Handler {
	return &Handler{ids: ids, tokens: tokens}
}

type registerRequest struct {
	PhoneNumber string `json:"phone_number"`
	PIN         string `json:"pin"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
}

type sessionResponse struct {
	Token string           `json:"token"`
	User  identity.Summary `json:"user"`
}

// Register creates a user with a provisioned deposit address and issues a session token.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	user, err := h.ids.Register(c.UserContext(), identity.RegisterInput{
		Phone:     req.PhoneNumber,
		PIN:       req.PIN,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		return err
	}
	token, err := h.tokens.Sign(user.PhoneNumber)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(sessionResponse{Token: token, User: identity.Summarize(user)})
}

type loginRequest struct {
	PhoneNumber string `json:"phone_number"`
	PIN         string `json:"pin"`
}

// Login validates phone + PIN and issues a session token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	user, err := h.ids.Login(c.UserContext(), req.PhoneNumber, req.PIN)
	if err != nil {
		return err
	}
	token, err := h.tokens.Sign(user.PhoneNumber)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(sessionResponse{Token: token, User: identity.Summarize(user)})
}

// Me returns the authenticated user's record.
func (h *Handler) Me(c *fiber.Ctx) error {
	phone, _ := c.Locals("phone").(string)
	if phone == "" {
		return apperr.Auth("unauthorized")
	}
	user, err := h.ids.Get(c.UserContext(), phone)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"user": identity.Summarize(user)})
}

type changePINRequest struct {
	CurrentPIN string `json:"current_pin"`
	NewPIN     string `json:"new_pin"`
}

// ChangePIN rotates the PIN for the authenticated session.
func (h *Handler) ChangePIN(c *fiber.Ctx) error {
	phone, _ := c.Locals("phone").(string)
	if phone == "" {
		return apperr.Auth("unauthorized")
	}
	var req changePINRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := h.ids.ChangePIN(c.UserContext(), phone, req.CurrentPIN, req.NewPIN); err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "PIN changed successfully"})
}

type resetPINRequest struct {
	PhoneNumber string `json:"phone_number"`
	NewPIN      string `json:"new_pin"`
}

// ResetPIN replaces a forgotten PIN. The verified-number record for the phone
// is checked and consumed server-side; no client assertion is trusted.
func (h *Handler) ResetPIN(c *fiber.Ctx) error {
	var req resetPINRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := h.ids.ResetPIN(c.UserContext(), req.PhoneNumber, req.NewPIN); err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "PIN reset successfully"})
}

type updateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// UpdateProfile replaces the mutable profile fields of the authenticated user.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	phone, _ := c.Locals("phone").(string)
	if phone == "" {
		return apperr.Auth("unauthorized")
	}
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	user, err := h.ids.UpdateProfile(c.UserContext(), phone, req.FirstName, req.LastName, req.Email)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"user": identity.Summarize(user)})
}
