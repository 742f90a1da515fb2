package otp

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/kobo-pay/kobo_pay/internal/apperr"
)

// Handler exposes the OTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an OTP HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type phoneRequest struct {
	PhoneNumber string `json:"phone_number"`
}

// Send issues a fresh OTP for the phone number.
func (h *Handler) Send(c *fiber.Ctx) error {
	var req phoneRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := h.service.Send(c.UserContext(), req.PhoneNumber); err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message":      "OTP sent successfully",
		"phone_number": req.PhoneNumber,
	})
}

type verifyRequest struct {
	PhoneNumber string `json:"phone_number"`
	Code        string `json:"code"`
}

// Verify checks a submitted code and opens the verified-number window.
func (h *Handler) Verify(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := h.service.Verify(c.UserContext(), req.PhoneNumber, req.Code); err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message":      "OTP verified successfully",
		"phone_number": req.PhoneNumber,
		"verified":     true,
	})
}

// Resend overwrites any pending OTP with a fresh code.
func (h *Handler) Resend(c *fiber.Ctx) error {
	var req phoneRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := h.service.Send(c.UserContext(), req.PhoneNumber); err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message":      "OTP resent successfully",
		"phone_number": req.PhoneNumber,
	})
}

// Status reports whether the phone number holds a live verification.
func (h *Handler) Status(c *fiber.Ctx) error {
	phone := c.Query("phone_number")
	verified, err := h.service.Status(c.UserContext(), phone)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"phone_number": phone,
		"verified":     verified,
	})
}
