package swervpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/kobo-pay/kobo_pay/internal/apperr"
)

// Client is a typed wrapper over the Swervpay customer, card and bill-payment
// endpoints. Every call is signed with a bearer token supplied by the Broker.
type Client struct {
	baseURL    string
	broker     *Broker
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a Swervpay API client that signs requests via broker.
func NewClient(baseURL string, broker *Broker, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: baseURL, broker: broker, httpClient: httpClient, logger: logger}
}

// request performs an authenticated JSON call. A 401 response invalidates the
// cached token and the call is retried exactly once with a fresh one.
func (c *Client) request(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}

	for attempt := 0; attempt < 2; attempt++ {
		token, err := c.broker.Token(ctx)
		if err != nil {
			return err
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &apperr.Error{
				Kind:    apperr.KindUpstream,
				Message: "upstream provider unreachable",
				Detail:  err.Error(),
				Err:     err,
			}
		}

		if resp.StatusCode == http.StatusUnauthorized && attempt == 0 {
			resp.Body.Close()
			c.logger.Warn("swervpay rejected bearer token, re-authenticating", "method", method, "path", path)
			c.broker.Invalidate()
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			msg := decodeErrorMessage(resp)
			resp.Body.Close()
			c.logger.Error("swervpay request failed", "method", method, "path", path, "status", resp.StatusCode, "message", msg)
			return apperr.Upstream(resp.StatusCode, msg)
		}

		if out == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil
		}
		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return apperr.Upstream(resp.StatusCode, "malformed response body")
		}
		return nil
	}

	// Unreachable: the second attempt always returns above.
	return apperr.Upstream(http.StatusUnauthorized, "authentication retry exhausted")
}

// decodeErrorMessage extracts the provider's error message, falling back to the
// HTTP status text when the body is not the expected JSON shape.
func decodeErrorMessage(resp *http.Response) string {
	var errBody struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && json.Unmarshal(raw, &errBody) == nil {
		if errBody.Message != "" {
			return errBody.Message
		}
		if errBody.Error != "" {
			return errBody.Error
		}
	}
	return http.StatusText(resp.StatusCode)
}
