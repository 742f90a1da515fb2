package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/kobo-pay/kobo_pay/internal/config"
	"github.com/kobo-pay/kobo_pay/internal/logging"
)

const staticCode = "639140"

func newWalletProviderFake(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/wallets/w1/addresses", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"data":{"id":"addr-1","address":"0xabc123","name":"user","blockchain":"base"}}`))
			return
		}
		w.Write([]byte(`{"data":[{"id":"addr-1","address":"0xabc123","name":"user"}]}`))
	})
	return httptest.NewServer(mux)
}

func newTestServer(t *testing.T) (*Server, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	walletFake := newWalletProviderFake(t)

	cfg := config.Config{
		AppName:            "KoboPay",
		AppEnv:             "test",
		Port:               "0",
		CORSOrigins:        "*",
		IdempotencyTTL:     time.Minute,
		JWTSecret:          "test-secret",
		SessionTTL:         24 * time.Hour,
		OTPCodeLength:      6,
		OTPTTL:             5 * time.Minute,
		VerifiedTTL:        10 * time.Minute,
		StaticOTP:          staticCode,
		BlockradarBaseURL:  walletFake.URL,
		BlockradarAPIKey:   "br-key",
		BlockradarWalletID: "w1",
		Blockchain:         "base",
		SwervpayBaseURL:    walletFake.URL,
		SwervpayBusinessID: "biz-1",
		SwervpaySecretKey:  "sk-secret",
		UpstreamTimeout:    5 * time.Second,
	}

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	srv, err := New(cfg, nil, cache, logging.Discard())
	if err != nil {
		t.Fatalf("build server: %v", err)
	}

	cleanup := func() {
		cache.Close()
		mr.Close()
		walletFake.Close()
	}
	return srv, cleanup
}

func doJSON(t *testing.T, app *fiber.App, method, path, body, token string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, 10000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var decoded map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode %s %s response %q: %v", method, path, raw, err)
		}
	}
	return resp, decoded
}

func TestRegistrationFlow(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	app := srv.app

	phone := `"+2348012345678"`

	// Registration without a verified phone is rejected.
	resp, body := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/register",
		`{"phone_number":`+phone+`,"pin":"123456"}`, "")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("unverified register status = %d body = %v", resp.StatusCode, body)
	}

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/otp/send",
		`{"phone_number":`+phone+`}`, "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("send otp status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/otp/verify",
		`{"phone_number":`+phone+`,"code":"`+staticCode+`"}`, "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("verify otp status = %d", resp.StatusCode)
	}

	resp, body = doJSON(t, app, fiber.MethodPost, "/api/v1/auth/register",
		`{"phone_number":`+phone+`,"pin":"123456","first_name":"Ada","last_name":"Obi"}`, "")
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("register status = %d body = %v", resp.StatusCode, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("register response missing token: %v", body)
	}
	user, _ := body["user"].(map[string]any)
	if user["wallet_address"] != "0xabc123" {
		t.Fatalf("wallet not provisioned: %v", user)
	}
	if user["tier"] != "First Tier" {
		t.Fatalf("tier = %v", user["tier"])
	}

	// The verification was consumed by registration.
	resp, body = doJSON(t, app, fiber.MethodGet, "/api/v1/otp/status?phone_number=%2B2348012345678", "", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("otp status = %d", resp.StatusCode)
	}
	if verified, _ := body["verified"].(bool); verified {
		t.Fatalf("verification survived registration")
	}

	resp, body = doJSON(t, app, fiber.MethodGet, "/api/v1/me", "", token)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("me status = %d body = %v", resp.StatusCode, body)
	}

	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/v1/me", "", "")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("me without token status = %d", resp.StatusCode)
	}
}

func TestLoginAndPINErrors(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	app := srv.app

	phone := `"+2348099999999"`
	doJSON(t, app, fiber.MethodPost, "/api/v1/otp/send", `{"phone_number":`+phone+`}`, "")
	doJSON(t, app, fiber.MethodPost, "/api/v1/otp/verify",
		`{"phone_number":`+phone+`,"code":"`+staticCode+`"}`, "")
	resp, body := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/register",
		`{"phone_number":`+phone+`,"pin":"123456"}`, "")
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("register status = %d body = %v", resp.StatusCode, body)
	}

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/auth/login",
		`{"phone_number":`+phone+`,"pin":"000000"}`, "")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("wrong PIN status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/auth/login",
		`{"phone_number":`+phone+`,"pin":"12345"}`, "")
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("short PIN status = %d", resp.StatusCode)
	}

	resp, body = doJSON(t, app, fiber.MethodPost, "/api/v1/auth/login",
		`{"phone_number":`+phone+`,"pin":"123456"}`, "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login status = %d body = %v", resp.StatusCode, body)
	}
	if token, _ := body["token"].(string); token == "" {
		t.Fatalf("login response missing token")
	}
}

func TestResetPINRequiresFreshVerification(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	app := srv.app

	phone := `"+2348011111111"`
	doJSON(t, app, fiber.MethodPost, "/api/v1/otp/send", `{"phone_number":`+phone+`}`, "")
	doJSON(t, app, fiber.MethodPost, "/api/v1/otp/verify",
		`{"phone_number":`+phone+`,"code":"`+staticCode+`"}`, "")
	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/register",
		`{"phone_number":`+phone+`,"pin":"123456"}`, "")
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}

	// Registration consumed the verification, so a reset needs a new round.
	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/auth/reset-pin",
		`{"phone_number":`+phone+`,"new_pin":"654321"}`, "")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("reset without verification status = %d", resp.StatusCode)
	}

	doJSON(t, app, fiber.MethodPost, "/api/v1/otp/send", `{"phone_number":`+phone+`}`, "")
	doJSON(t, app, fiber.MethodPost, "/api/v1/otp/verify",
		`{"phone_number":`+phone+`,"code":"`+staticCode+`"}`, "")
	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/auth/reset-pin",
		`{"phone_number":`+phone+`,"new_pin":"654321"}`, "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("reset with verification status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/auth/login",
		`{"phone_number":`+phone+`,"pin":"654321"}`, "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login with reset PIN status = %d", resp.StatusCode)
	}
}
