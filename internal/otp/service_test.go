package otp

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/kobo-pay/kobo_pay/internal/apperr"
	"github.com/kobo-pay/kobo_pay/internal/logging"
)

func newTestOTPService(t *testing.T, opts Options) (*Service, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewService(NewRedisStore(cache), nil, opts, logging.Discard())
	cleanup := func() {
		cache.Close()
		mr.Close()
	}
	return svc, cleanup
}

func wantValidationMessage(t *testing.T, err error, want string) {
	t.Helper()
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("error = %v, want validation %q", err, want)
	}
	if appErr.Message != want {
		t.Fatalf("message = %q, want %q", appErr.Message, want)
	}
}

func TestSendAndVerify(t *testing.T) {
	svc, cleanup := newTestOTPService(t, Options{StaticCode: "639140"})
	defer cleanup()
	ctx := context.Background()
	phone := "+2348012345678"

	if err := svc.Send(ctx, phone); err != nil {
		t.Fatalf("send: %v", err)
	}

	wantValidationMessage(t, svc.Verify(ctx, phone, "000000"), "invalid OTP")

	if err := svc.Verify(ctx, phone, "639140"); err != nil {
		t.Fatalf("verify: %v", err)
	}

	verified, err := svc.Status(ctx, phone)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !verified {
		t.Fatalf("phone not verified after successful OTP")
	}

	// The OTP was consumed by the successful verification.
	wantValidationMessage(t, svc.Verify(ctx, phone, "639140"), "no OTP found for this phone number")
}

func TestVerifyUnknownPhone(t *testing.T) {
	svc, cleanup := newTestOTPService(t, Options{})
	defer cleanup()

	wantValidationMessage(t, svc.Verify(context.Background(), "+2348000000000", "123456"),
		"no OTP found for this phone number")
}

func TestVerifyExpiredOTP(t *testing.T) {
	svc, cleanup := newTestOTPService(t, Options{StaticCode: "639140", TTL: 5 * time.Minute})
	defer cleanup()
	ctx := context.Background()
	phone := "+2348012345678"

	base := time.Now()
	svc.now = func() time.Time { return base }
	if err := svc.Send(ctx, phone); err != nil {
		t.Fatalf("send: %v", err)
	}

	svc.now = func() time.Time { return base.Add(6 * time.Minute) }
	wantValidationMessage(t, svc.Verify(ctx, phone, "639140"), "OTP has expired")

	// The expired record was deleted on sight.
	svc.now = func() time.Time { return base }
	wantValidationMessage(t, svc.Verify(ctx, phone, "639140"), "no OTP found for this phone number")
}

func TestResendOverwritesPendingOTP(t *testing.T) {
	svc, cleanup := newTestOTPService(t, Options{StaticCode: "111111"})
	defer cleanup()
	ctx := context.Background()
	phone := "+2348012345678"

	if err := svc.Send(ctx, phone); err != nil {
		t.Fatalf("send: %v", err)
	}
	svc.static = "222222"
	if err := svc.Send(ctx, phone); err != nil {
		t.Fatalf("resend: %v", err)
	}

	wantValidationMessage(t, svc.Verify(ctx, phone, "111111"), "invalid OTP")
	if err := svc.Verify(ctx, phone, "222222"); err != nil {
		t.Fatalf("verify latest code: %v", err)
	}
}

func TestConsumeIsOneShot(t *testing.T) {
	svc, cleanup := newTestOTPService(t, Options{StaticCode: "639140"})
	defer cleanup()
	ctx := context.Background()
	phone := "+2348012345678"

	if err := svc.Send(ctx, phone); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := svc.Verify(ctx, phone, "639140"); err != nil {
		t.Fatalf("verify: %v", err)
	}

	ok, err := svc.Consume(ctx, phone)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if !ok {
		t.Fatalf("live verification not consumed")
	}

	ok, err = svc.Consume(ctx, phone)
	if err != nil {
		t.Fatalf("second consume: %v", err)
	}
	if ok {
		t.Fatalf("verification consumed twice")
	}
}

func TestStatusExpiresLazily(t *testing.T) {
	svc, cleanup := newTestOTPService(t, Options{StaticCode: "639140", VerifiedTTL: 10 * time.Minute})
	defer cleanup()
	ctx := context.Background()
	phone := "+2348012345678"

	base := time.Now()
	svc.now = func() time.Time { return base }
	if err := svc.Send(ctx, phone); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := svc.Verify(ctx, phone, "639140"); err != nil {
		t.Fatalf("verify: %v", err)
	}

	svc.now = func() time.Time { return base.Add(11 * time.Minute) }
	verified, err := svc.Status(ctx, phone)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if verified {
		t.Fatalf("expired verification reported live")
	}

	// Expired verifications never unlock a consume either.
	ok, err := svc.Consume(ctx, phone)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if ok {
		t.Fatalf("expired verification consumed as live")
	}
}
