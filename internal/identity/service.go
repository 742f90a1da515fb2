package identity

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kobo-pay/kobo_pay/internal/apperr"
	"github.com/kobo-pay/kobo_pay/internal/blockradar"
)

const (
	tierFirst     = "First Tier"
	defaultAvatar = "default.jpeg"
	pinLength     = 6
)

// WalletProvisioner creates one custodial deposit address per registering user.
type WalletProvisioner interface {
	CreateAddress(ctx context.Context, blockchain, name string) (blockradar.Address, error)
}

// VerificationConsumer atomically consumes a live verified-number record,
// reporting whether one existed. Consumption is read-then-delete so a record
// unlocks exactly one sensitive operation.
type VerificationConsumer interface {
	Consume(ctx context.Context, phone string) (bool, error)
}

// Service manages the user account lifecycle and enforces PIN policy.
type Service struct {
	repo          Repository
	wallets       WalletProvisioner
	verifications VerificationConsumer
	blockchain    string
	hashCost      int
	logger        *slog.Logger
}

// NewService builds an identity service. verifications gates registration and
// PIN reset behind the OTP flow.
func NewService(repo Repository, wallets WalletProvisioner, verifications VerificationConsumer, blockchain string, logger *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		wallets:       wallets,
		verifications: verifications,
		blockchain:    blockchain,
		hashCost:      bcrypt.DefaultCost,
		logger:        logger,
	}
}

// ValidatePIN enforces the PIN policy: exactly six numeric digits.
func ValidatePIN(pin string) error {
	if pin == "" {
		return apperr.Validation("PIN is required")
	}
	if len(pin) != pinLength {
		return apperr.Validation("PIN must be exactly 6 digits")
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return apperr.Validation("PIN must contain only numbers")
		}
	}
	return nil
}

// Register creates a user record after provisioning a deposit address. The
// wallet call happens before the record write, so a provisioning failure
// leaves no user behind.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	if input.Phone == "" || input.PIN == "" {
		return User{}, apperr.Validation("phone number and PIN are required")
	}
	if err := ValidatePIN(input.PIN); err != nil {
		return User{}, err
	}

	if _, err := s.repo.Find(ctx, input.Phone); err == nil {
		return User{}, apperr.Conflict("user already exists")
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return User{}, err
	}

	if s.verifications != nil {
		verified, err := s.verifications.Consume(ctx, input.Phone)
		if err != nil {
			return User{}, err
		}
		if !verified {
			return User{}, apperr.Auth("phone number is not verified")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.PIN), s.hashCost)
	if err != nil {
		return User{}, err
	}

	label := "user_" + input.Phone
	address, err := s.wallets.CreateAddress(ctx, s.blockchain, label)
	if err != nil {
		s.logger.Error("wallet provisioning failed", "phone", input.Phone, "error", err)
		return User{}, err
	}

	now := time.Now().UTC()
	user := User{
		PhoneNumber:   input.Phone,
		PINHash:       hash,
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Email:         input.Email,
		Tier:          tierFirst,
		Avatar:        defaultAvatar,
		Blockchain:    s.blockchain,
		WalletAddress: address.Address,
		WalletID:      address.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}

	s.logger.Info("user registered", "phone", user.PhoneNumber, "wallet_id", user.WalletID)
	return user, nil
}

// Login verifies phone + PIN and stamps the login time.
func (s *Service) Login(ctx context.Context, phone, pin string) (User, error) {
	if phone == "" || pin == "" {
		return User{}, apperr.Validation("phone number and PIN are required")
	}
	user, err := s.repo.Find(ctx, phone)
	if err != nil {
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword(user.PINHash, []byte(pin)); err != nil {
		return User{}, apperr.Auth("invalid PIN")
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, phone, now); err != nil {
		return User{}, err
	}
	user.LastLogin = now
	return user, nil
}

// Get returns the user record for a phone number.
func (s *Service) Get(ctx context.Context, phone string) (User, error) {
	return s.repo.Find(ctx, phone)
}

// ChangePIN rotates the PIN for an authenticated user.
func (s *Service) ChangePIN(ctx context.Context, phone, currentPIN, newPIN string) error {
	if currentPIN == "" || newPIN == "" {
		return apperr.Validation("current PIN and new PIN are required")
	}
	if currentPIN == newPIN {
		return apperr.Validation("new PIN must be different from current PIN")
	}
	if err := ValidatePIN(newPIN); err != nil {
		return err
	}

	user, err := s.repo.Find(ctx, phone)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword(user.PINHash, []byte(currentPIN)); err != nil {
		return apperr.Auth("current PIN is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPIN), s.hashCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePINHash(ctx, phone, hash)
}

// ResetPIN replaces a forgotten PIN. The caller does not assert verification;
// the service consumes its own verified-number record for the phone.
func (s *Service) ResetPIN(ctx context.Context, phone, newPIN string) error {
	if phone == "" || newPIN == "" {
		return apperr.Validation("phone number and new PIN are required")
	}
	if err := ValidatePIN(newPIN); err != nil {
		return err
	}

	if _, err := s.repo.Find(ctx, phone); err != nil {
		return err
	}

	if s.verifications != nil {
		verified, err := s.verifications.Consume(ctx, phone)
		if err != nil {
			return err
		}
		if !verified {
			return apperr.Auth("phone number is not verified")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPIN), s.hashCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePINHash(ctx, phone, hash); err != nil {
		return err
	}
	s.logger.Info("PIN reset", "phone", phone)
	return nil
}

// UpdateProfile replaces the mutable profile fields and returns the fresh record.
func (s *Service) UpdateProfile(ctx context.Context, phone, firstName, lastName, email string) (User, error) {
	if err := s.repo.UpdateProfile(ctx, phone, firstName, lastName, email); err != nil {
		return User{}, err
	}
	return s.repo.Find(ctx, phone)
}

// AttachCardCustomer records the card-provider customer id on the user.
func (s *Service) AttachCardCustomer(ctx context.Context, phone, customerID string) error {
	if customerID == "" {
		return apperr.Validation("customer id is required")
	}
	return s.repo.UpdateCardCustomerID(ctx, phone, customerID)
}
