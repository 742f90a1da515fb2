package otp

import (
	"context"
	"crypto/rand"
	"log/slog"
	"math/big"
	"time"

	"github.com/kobo-pay/kobo_pay/internal/apperr"
	"github.com/kobo-pay/kobo_pay/internal/notification"
)

// Service implements the OTP flow: send, verify, resend, status and consume.
// Expiry is enforced lazily on read; there is no background sweep.
type Service struct {
	store       Store
	notifier    notification.Notifier
	codeLength  int
	ttl         time.Duration
	verifiedTTL time.Duration
	// static pins the generated code for deterministic environments.
	static string
	now    func() time.Time
	logger *slog.Logger
}

// Options configure the OTP policy.
type Options struct {
	CodeLength  int
	TTL         time.Duration
	VerifiedTTL time.Duration
	StaticCode  string
}

// NewService builds an OTP service.
func NewService(store Store, notifier notification.Notifier, opts Options, logger *slog.Logger) *Service {
	if opts.CodeLength <= 0 {
		opts.CodeLength = 6
	}
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	if opts.VerifiedTTL <= 0 {
		opts.VerifiedTTL = 10 * time.Minute
	}
	return &Service{
		store:       store,
		notifier:    notifier,
		codeLength:  opts.CodeLength,
		ttl:         opts.TTL,
		verifiedTTL: opts.VerifiedTTL,
		static:      opts.StaticCode,
		now:         time.Now,
		logger:      logger,
	}
}

// Send generates a code for the phone number and stores it, overwriting any
// pending one. Resend is the same operation.
func (s *Service) Send(ctx context.Context, phone string) error {
	if phone == "" {
		return apperr.Validation("phone number is required")
	}

	code, err := s.generateCode()
	if err != nil {
		return err
	}
	now := s.now().UTC()
	record := Record{
		Code:      code,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.store.SaveOTP(ctx, phone, record); err != nil {
		return err
	}

	if s.notifier != nil {
		if err := s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindOTP,
			Destination: phone,
			Body:        code,
		}); err != nil {
			s.logger.Warn("OTP notification failed", "phone", phone, "error", err)
		}
	}
	s.logger.Info("OTP issued", "phone", phone, "expires_at", record.ExpiresAt)
	return nil
}

// Verify checks a submitted code. An expired record is deleted on sight; a
// correct code consumes the OTP and opens the verified-number window.
func (s *Service) Verify(ctx context.Context, phone, code string) error {
	if phone == "" || code == "" {
		return apperr.Validation("phone number and OTP code are required")
	}

	record, ok, err := s.store.GetOTP(ctx, phone)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Validation("no OTP found for this phone number")
	}
	if s.now().After(record.ExpiresAt) {
		if err := s.store.DeleteOTP(ctx, phone); err != nil {
			return err
		}
		return apperr.Validation("OTP has expired")
	}
	if code != record.Code {
		return apperr.Validation("invalid OTP")
	}

	if err := s.store.DeleteOTP(ctx, phone); err != nil {
		return err
	}
	now := s.now().UTC()
	verification := Verification{
		VerifiedAt: now,
		ExpiresAt:  now.Add(s.verifiedTTL),
	}
	if err := s.store.SaveVerification(ctx, phone, verification); err != nil {
		return err
	}
	s.logger.Info("OTP verified", "phone", phone)
	return nil
}

// Status reports whether the phone number holds a live verification, deleting
// an expired record when one is observed.
func (s *Service) Status(ctx context.Context, phone string) (bool, error) {
	if phone == "" {
		return false, apperr.Validation("phone number is required")
	}
	v, ok, err := s.store.GetVerification(ctx, phone)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if s.now().After(v.ExpiresAt) {
		if err := s.store.DeleteVerification(ctx, phone); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

// Consume atomically removes the verification record and reports whether a
// live one existed. Registration and PIN reset call this instead of trusting
// any client-supplied assertion.
func (s *Service) Consume(ctx context.Context, phone string) (bool, error) {
	v, ok, err := s.store.ConsumeVerification(ctx, phone)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if s.now().After(v.ExpiresAt) {
		return false, nil
	}
	return true, nil
}

func (s *Service) generateCode() (string, error) {
	if s.static != "" {
		return s.static, nil
	}
	digits := make([]byte, s.codeLength)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
