package blockradar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kobo-pay/kobo_pay/internal/apperr"
)

// Client wraps the custodial wallet provider's address, balance and
// transaction endpoints. All paths are scoped to one configured wallet.
type Client struct {
	baseURL    string
	apiKey     string
	walletID   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a wallet provider client for the configured wallet.
func NewClient(baseURL, apiKey, walletID string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		walletID:   walletID,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *Client) request(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &apperr.Error{
			Kind:    apperr.KindUpstream,
			Message: "wallet provider unreachable",
			Detail:  err.Error(),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Message string `json:"message"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(raw, &errBody)
		msg := errBody.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		c.logger.Error("blockradar request failed", "method", method, "path", path, "status", resp.StatusCode, "message", msg)
		return apperr.Upstream(resp.StatusCode, msg)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Upstream(resp.StatusCode, "malformed response body")
	}
	return nil
}

func (c *Client) walletPath(suffix string) string {
	return "/wallets/" + url.PathEscape(c.walletID) + suffix
}

type createAddressRequest struct {
	Blockchain string `json:"blockchain"`
	Name       string `json:"name"`
}

// CreateAddress provisions a new deposit address under the wallet. The
// response shape is validated: a record without an address or id is useless
// downstream and is surfaced as an upstream error.
func (c *Client) CreateAddress(ctx context.Context, blockchain, name string) (Address, error) {
	if blockchain == "" || name == "" {
		return Address{}, apperr.Validation("blockchain and name are required")
	}
	var envelope struct {
		Data Address `json:"data"`
	}
	err := c.request(ctx, http.MethodPost, c.walletPath("/addresses"), createAddressRequest{Blockchain: blockchain, Name: name}, &envelope)
	if err != nil {
		return Address{}, err
	}
	if envelope.Data.Address == "" || envelope.Data.ID == "" {
		return Address{}, apperr.Upstream(http.StatusOK, "address response missing address or id")
	}
	return envelope.Data, nil
}

// ListAddresses returns every deposit address under the wallet.
func (c *Client) ListAddresses(ctx context.Context) ([]Address, error) {
	var envelope struct {
		Data      []Address `json:"data"`
		Addresses []Address `json:"addresses"`
	}
	if err := c.request(ctx, http.MethodGet, c.walletPath("/addresses"), nil, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.Addresses) > 0 {
		return envelope.Addresses, nil
	}
	return envelope.Data, nil
}

// Balances resolves an address string to its wallet-internal id and fetches
// its token balances. Only addresses provisioned under this wallet resolve;
// anything else is a NotFound.
func (c *Client) Balances(ctx context.Context, address string) (Balances, error) {
	target := strings.TrimSpace(address)
	if target == "" {
		return Balances{}, apperr.Validation("address is required")
	}

	addresses, err := c.ListAddresses(ctx)
	if err != nil {
		return Balances{}, err
	}
	var addressID string
	for _, a := range addresses {
		if strings.EqualFold(strings.TrimSpace(a.Address), target) {
			addressID = a.ID
			break
		}
	}
	if addressID == "" {
		return Balances{}, apperr.NotFound("address not found in wallet")
	}

	var balances Balances
	path := c.walletPath("/addresses/" + url.PathEscape(addressID) + "/balances")
	if err := c.request(ctx, http.MethodGet, path, nil, &balances); err != nil {
		return Balances{}, err
	}
	if balances.Address == "" {
		balances.Address = address
	}
	return balances, nil
}

// Transactions fetches a page of the wallet-wide transaction feed. The
// provider exposes no per-address filter; see FilterByAddress.
func (c *Client) Transactions(ctx context.Context, params TransactionParams) (TransactionPage, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", fmt.Sprintf("%d", params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", fmt.Sprintf("%d", params.Limit))
	}
	path := c.walletPath("/transactions")
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page TransactionPage
	if err := c.request(ctx, http.MethodGet, path, nil, &page); err != nil {
		return TransactionPage{}, err
	}
	return page, nil
}
