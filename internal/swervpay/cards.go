package swervpay

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kobo-pay/kobo_pay/internal/apperr"
)

// CreateCardInput captures the fields required to issue a card.
type CreateCardInput struct {
	CustomerID string `json:"customer_id"`
	Type       string `json:"type,omitempty"`
	Currency   string `json:"currency,omitempty"`
}

type cardAmountRequest struct {
	Amount int64 `json:"amount"`
}

// CreateCard issues a card for an existing provider customer.
func (c *Client) CreateCard(ctx context.Context, input CreateCardInput) (Card, error) {
	if input.CustomerID == "" {
		return Card{}, apperr.Validation("customer_id is required")
	}
	var card Card
	if err := c.request(ctx, http.MethodPost, "/cards", input, &card); err != nil {
		return Card{}, err
	}
	if card.ID == "" {
		return Card{}, apperr.Upstream(http.StatusOK, "card response missing id")
	}
	return card, nil
}

// GetCard fetches a card by provider id.
func (c *Client) GetCard(ctx context.Context, cardID string) (Card, error) {
	if cardID == "" {
		return Card{}, apperr.Validation("card id is required")
	}
	var card Card
	err := c.request(ctx, http.MethodGet, "/cards/"+url.PathEscape(cardID), nil, &card)
	return card, err
}

// ListCards pages through the business's issued cards.
func (c *Client) ListCards(ctx context.Context, page, limit int) (CardPage, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	var result CardPage
	path := fmt.Sprintf("/cards?page=%d&limit=%d", page, limit)
	err := c.request(ctx, http.MethodGet, path, nil, &result)
	return result, err
}

// FundCard moves value onto the card.
func (c *Client) FundCard(ctx context.Context, cardID string, amount int64) (Card, error) {
	return c.cardAmountOp(ctx, cardID, "fund", amount)
}

// WithdrawFromCard moves value off the card.
func (c *Client) WithdrawFromCard(ctx context.Context, cardID string, amount int64) (Card, error) {
	return c.cardAmountOp(ctx, cardID, "withdraw", amount)
}

func (c *Client) cardAmountOp(ctx context.Context, cardID, op string, amount int64) (Card, error) {
	if cardID == "" {
		return Card{}, apperr.Validation("card id is required")
	}
	if amount <= 0 {
		return Card{}, apperr.Validation("amount must be greater than zero")
	}
	var card Card
	path := "/cards/" + url.PathEscape(cardID) + "/" + op
	err := c.request(ctx, http.MethodPost, path, cardAmountRequest{Amount: amount}, &card)
	return card, err
}

// FreezeCard suspends card spending.
func (c *Client) FreezeCard(ctx context.Context, cardID string) error {
	return c.cardStateOp(ctx, cardID, "freeze")
}

// UnfreezeCard lifts a freeze.
func (c *Client) UnfreezeCard(ctx context.Context, cardID string) error {
	return c.cardStateOp(ctx, cardID, "unfreeze")
}

// TerminateCard permanently closes the card.
func (c *Client) TerminateCard(ctx context.Context, cardID string) error {
	return c.cardStateOp(ctx, cardID, "terminate")
}

func (c *Client) cardStateOp(ctx context.Context, cardID, op string) error {
	if cardID == "" {
		return apperr.Validation("card id is required")
	}
	return c.request(ctx, http.MethodPost, "/cards/"+url.PathEscape(cardID)+"/"+op, nil, nil)
}

// CardTransactions pages through a card's transaction history.
func (c *Client) CardTransactions(ctx context.Context, cardID string, page, limit int) (CardTransactionPage, error) {
	if cardID == "" {
		return CardTransactionPage{}, apperr.Validation("card id is required")
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	var result CardTransactionPage
	path := fmt.Sprintf("/cards/%s/transactions?page=%d&limit=%d", url.PathEscape(cardID), page, limit)
	err := c.request(ctx, http.MethodGet, path, nil, &result)
	return result, err
}
