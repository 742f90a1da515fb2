package swervpay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/kobo-pay/kobo_pay/internal/apperr"
)

// Credentials identify the business against the provider's /auth endpoint.
type Credentials struct {
	BusinessID string
	SecretKey  string
}

type bearerToken struct {
	value     string
	expiresAt time.Time
}

// Broker obtains and caches the provider bearer token. The cache is a single
// process-wide slot swapped atomically; concurrent callers that observe an
// expired token may each run a redundant exchange, and the last write wins.
// Callers holding a still-valid token are never blocked by a refresh.
type Broker struct {
	baseURL    string
	creds      Credentials
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time

	cached atomic.Pointer[bearerToken]
}

// NewBroker builds a token broker for the given provider base URL.
func NewBroker(baseURL string, creds Credentials, httpClient *http.Client, logger *slog.Logger) *Broker {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Broker{
		baseURL:    baseURL,
		creds:      creds,
		httpClient: httpClient,
		logger:     logger,
		now:        time.Now,
	}
}

// Token returns the cached bearer token, performing a Basic-auth exchange when
// the cache is empty or past expiry.
func (b *Broker) Token(ctx context.Context) (string, error) {
	if tok := b.cached.Load(); tok != nil && b.now().Before(tok.expiresAt) {
		return tok.value, nil
	}
	return b.authenticate(ctx)
}

// Invalidate drops the cached token so the next call re-authenticates.
func (b *Broker) Invalidate() {
	b.cached.Store(nil)
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (b *Broker) authenticate(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/auth", nil)
	if err != nil {
		return "", fmt.Errorf("build auth request: %w", err)
	}
	basic := base64.StdEncoding.EncodeToString([]byte(b.creds.BusinessID + ":" + b.creds.SecretKey))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", &apperr.Error{
			Kind:    apperr.KindUpstreamAuth,
			Message: "upstream authentication failed",
			Detail:  err.Error(),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := decodeErrorMessage(resp)
		b.logger.Error("swervpay auth exchange failed", "status", resp.StatusCode, "message", msg)
		return "", apperr.UpstreamAuth(resp.StatusCode, msg)
	}

	var auth authResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return "", apperr.UpstreamAuth(resp.StatusCode, "malformed auth response")
	}
	if auth.AccessToken == "" || auth.ExpiresIn <= 0 {
		return "", apperr.UpstreamAuth(resp.StatusCode, "auth response missing access_token or expires_in")
	}

	tok := &bearerToken{
		value:     auth.AccessToken,
		expiresAt: b.now().Add(time.Duration(auth.ExpiresIn) * time.Second),
	}
	b.cached.Store(tok)
	b.logger.Info("swervpay authentication successful", "expires_in", auth.ExpiresIn)
	return tok.value, nil
}
