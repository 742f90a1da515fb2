package identity

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/kobo-pay/kobo_pay/internal/apperr"
	"github.com/kobo-pay/kobo_pay/internal/blockradar"
	"github.com/kobo-pay/kobo_pay/internal/logging"
)

type fakeProvisioner struct {
	calls int
	fail  bool
}

func (f *fakeProvisioner) CreateAddress(_ context.Context, blockchain, name string) (blockradar.Address, error) {
	f.calls++
	if f.fail {
		return blockradar.Address{}, errors.New("provider down")
	}
	return blockradar.Address{
		ID:         "addr-1",
		Address:    "0xabc123",
		Name:       name,
		Blockchain: blockchain,
	}, nil
}

type fakeConsumer struct {
	verified bool
	consumed int
}

func (f *fakeConsumer) Consume(_ context.Context, _ string) (bool, error) {
	f.consumed++
	ok := f.verified
	f.verified = false
	return ok, nil
}

func newTestService(wallets *fakeProvisioner, verifications *fakeConsumer) *Service {
	svc := NewService(NewMemoryRepository(), wallets, verifications, "base", logging.Discard())
	svc.hashCost = bcrypt.MinCost
	return svc
}

func TestValidatePIN(t *testing.T) {
	cases := []struct {
		pin  string
		want string
	}{
		{"123456", ""},
		{"000000", ""},
		{"", "PIN is required"},
		{"12345", "PIN must be exactly 6 digits"},
		{"1234567", "PIN must be exactly 6 digits"},
		{"12a456", "PIN must contain only numbers"},
		{"12 456", "PIN must contain only numbers"},
	}
	for _, tc := range cases {
		err := ValidatePIN(tc.pin)
		if tc.want == "" {
			if err != nil {
				t.Fatalf("ValidatePIN(%q) = %v, want nil", tc.pin, err)
			}
			continue
		}
		if err == nil {
			t.Fatalf("ValidatePIN(%q) = nil, want %q", tc.pin, tc.want)
		}
		var appErr *apperr.Error
		if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
			t.Fatalf("ValidatePIN(%q) kind = %v, want validation", tc.pin, err)
		}
		if appErr.Message != tc.want {
			t.Fatalf("ValidatePIN(%q) message = %q, want %q", tc.pin, appErr.Message, tc.want)
		}
	}
}

func TestRegisterAndLogin(t *testing.T) {
	wallets := &fakeProvisioner{}
	svc := newTestService(wallets, &fakeConsumer{verified: true})
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Phone: "+2348012345678", PIN: "123456", FirstName: "Ada"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Tier != "First Tier" {
		t.Fatalf("tier = %q, want First Tier", user.Tier)
	}
	if user.Avatar != "default.jpeg" {
		t.Fatalf("avatar = %q", user.Avatar)
	}
	if user.WalletAddress != "0xabc123" || user.WalletID != "addr-1" {
		t.Fatalf("wallet not recorded: %+v", user)
	}
	if wallets.calls != 1 {
		t.Fatalf("provisioner calls = %d, want 1", wallets.calls)
	}

	logged, err := svc.Login(ctx, "+2348012345678", "123456")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.LastLogin.IsZero() {
		t.Fatalf("login did not stamp last_login")
	}

	if _, err := svc.Login(ctx, "+2348012345678", "654321"); !apperr.IsKind(err, apperr.KindAuth) {
		t.Fatalf("wrong PIN error = %v, want auth", err)
	}
	if _, err := svc.Login(ctx, "+2348000000000", "123456"); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("unknown phone error = %v, want not found", err)
	}
}

func TestRegisterRequiresVerifiedPhone(t *testing.T) {
	wallets := &fakeProvisioner{}
	svc := newTestService(wallets, &fakeConsumer{verified: false})

	_, err := svc.Register(context.Background(), RegisterInput{Phone: "+2348012345678", PIN: "123456"})
	if !apperr.IsKind(err, apperr.KindAuth) {
		t.Fatalf("register without verification = %v, want auth", err)
	}
	if wallets.calls != 0 {
		t.Fatalf("wallet provisioned despite unverified phone")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc := newTestService(&fakeProvisioner{}, &fakeConsumer{verified: true})
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Phone: "+2348012345678", PIN: "123456"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, RegisterInput{Phone: "+2348012345678", PIN: "123456"})
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("duplicate register = %v, want conflict", err)
	}
}

func TestRegisterProvisioningFailureLeavesNoUser(t *testing.T) {
	svc := newTestService(&fakeProvisioner{fail: true}, &fakeConsumer{verified: true})
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Phone: "+2348012345678", PIN: "123456"}); err == nil {
		t.Fatalf("expected provisioning failure")
	}
	if _, err := svc.Get(ctx, "+2348012345678"); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("user record exists after failed provisioning: %v", err)
	}
}

func TestChangePIN(t *testing.T) {
	svc := newTestService(&fakeProvisioner{}, &fakeConsumer{verified: true})
	ctx := context.Background()
	phone := "+2348012345678"

	if _, err := svc.Register(ctx, RegisterInput{Phone: phone, PIN: "123456"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.ChangePIN(ctx, phone, "123456", "123456"); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("same PIN = %v, want validation", err)
	}
	if err := svc.ChangePIN(ctx, phone, "999999", "654321"); !apperr.IsKind(err, apperr.KindAuth) {
		t.Fatalf("wrong current PIN = %v, want auth", err)
	}
	if err := svc.ChangePIN(ctx, phone, "123456", "654321"); err != nil {
		t.Fatalf("change PIN: %v", err)
	}
	if _, err := svc.Login(ctx, phone, "654321"); err != nil {
		t.Fatalf("login with new PIN: %v", err)
	}
	if _, err := svc.Login(ctx, phone, "123456"); !apperr.IsKind(err, apperr.KindAuth) {
		t.Fatalf("old PIN still accepted: %v", err)
	}
}

func TestResetPINConsumesVerification(t *testing.T) {
	verifications := &fakeConsumer{verified: true}
	svc := newTestService(&fakeProvisioner{}, verifications)
	ctx := context.Background()
	phone := "+2348012345678"

	if _, err := svc.Register(ctx, RegisterInput{Phone: phone, PIN: "123456"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	verifications.verified = true
	if err := svc.ResetPIN(ctx, phone, "654321"); err != nil {
		t.Fatalf("reset PIN: %v", err)
	}
	if _, err := svc.Login(ctx, phone, "654321"); err != nil {
		t.Fatalf("login after reset: %v", err)
	}

	// The verification was consumed; a second reset needs a fresh OTP round.
	if err := svc.ResetPIN(ctx, phone, "111111"); !apperr.IsKind(err, apperr.KindAuth) {
		t.Fatalf("reset without verification = %v, want auth", err)
	}
}
