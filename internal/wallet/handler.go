package wallet

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kobo-pay/kobo_pay/internal/apperr"
	"github.com/kobo-pay/kobo_pay/internal/blockradar"
	"github.com/kobo-pay/kobo_pay/internal/identity"
)

// cNGN token contracts per chain.
var cngnContracts = map[string]string{
	"base": "0x7E29CF1D8b1F4c847D0f821b79dDF6E67A5c11F8",
}

// Handler exposes wallet dashboard, balance and transaction endpoints backed
// by the custodial wallet provider.
type Handler struct {
	client *blockradar.Client
	ids    *identity.Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(client *blockradar.Client, ids *identity.Service) *Handler {
	return &Handler{client: client, ids: ids}
}

// Dashboard returns the authenticated user's wallet summary with the cNGN position.
func (h *Handler) Dashboard(c *fiber.Ctx) error {
	phone, _ := c.Locals("phone").(string)
	if phone == "" {
		return apperr.Auth("unauthorized")
	}
	user, err := h.ids.Get(c.UserContext(), phone)
	if err != nil {
		return err
	}
	if user.WalletAddress == "" || user.Blockchain == "" {
		return apperr.Validation("user does not have a blockchain wallet")
	}

	contract, ok := cngnContracts[strings.ToLower(user.Blockchain)]
	if !ok {
		return apperr.Validation("cNGN not supported on this chain")
	}

	balances, err := h.client.Balances(c.UserContext(), user.WalletAddress)
	if err != nil {
		return err
	}

	cngnBalance := "0"
	cngnSymbol := "cNGN"
	for _, token := range balances.Tokens {
		if strings.EqualFold(token.ContractAddress, contract) {
			cngnBalance = token.Balance
			if token.Symbol != "" {
				cngnSymbol = token.Symbol
			}
			break
		}
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"phone_number":   user.PhoneNumber,
		"wallet_address": user.WalletAddress,
		"blockchain":     user.Blockchain,
		"cngn_balance":   cngnBalance,
		"cngn_symbol":    cngnSymbol,
	})
}

// Balances returns the token balances for one deposit address.
func (h *Handler) Balances(c *fiber.Ctx) error {
	address, err := decodedParam(c, "address")
	if err != nil {
		return err
	}
	balances, err := h.client.Balances(c.UserContext(), address)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(balances)
}

// Transactions lists the custodial wallet feed, optionally scoped to an
// address via the `address` query parameter. The provider exposes no server
// side filter, so scoping is applied to the fetched page.
func (h *Handler) Transactions(c *fiber.Ctx) error {
	page, err := h.client.Transactions(c.UserContext(), transactionParams(c))
	if err != nil {
		return err
	}

	address := c.Query("address")
	if address == "" {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"count": len(page.Data),
			"data":  page.Data,
		})
	}

	filtered := blockradar.FilterByAddress(page.Data, address)
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"address": address,
		"count":   len(filtered),
		"data":    filtered,
	})
}

// TransactionsByAddress lists the feed scoped to the address path parameter.
func (h *Handler) TransactionsByAddress(c *fiber.Ctx) error {
	address, err := decodedParam(c, "address")
	if err != nil {
		return err
	}
	page, err := h.client.Transactions(c.UserContext(), transactionParams(c))
	if err != nil {
		return err
	}
	filtered := blockradar.FilterByAddress(page.Data, address)
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"address": address,
		"count":   len(filtered),
		"data":    filtered,
	})
}

func transactionParams(c *fiber.Ctx) blockradar.TransactionParams {
	params := blockradar.TransactionParams{}
	if v, err := strconv.Atoi(c.Query("page")); err == nil {
		params.Page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		params.Limit = v
	}
	return params
}

// decodedParam unescapes a path parameter; addresses arrive URL-encoded from
// mobile clients.
func decodedParam(c *fiber.Ctx, name string) (string, error) {
	raw := c.Params(name)
	if raw == "" {
		return "", apperr.Validation(name + " is required")
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", apperr.Validation("invalid " + name)
	}
	return decoded, nil
}
