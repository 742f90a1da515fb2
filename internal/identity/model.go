package identity

import "time"

// User is an account record keyed verbatim by phone number. No normalization
// is applied to the key, so two spellings of the same number are distinct
// records.
type User struct {
	PhoneNumber    string
	PINHash        []byte
	FirstName      string
	LastName       string
	Email          string
	Tier           string
	Avatar         string
	Blockchain     string
	WalletAddress  string
	WalletID       string
	CardCustomerID string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastLogin      time.Time
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Phone     string
	PIN       string
	FirstName string
	LastName  string
	Email     string
}

// Summary is the client-facing projection of a user; it never carries the PIN hash.
type Summary struct {
	PhoneNumber    string    `json:"phone_number"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Tier           string    `json:"tier"`
	Avatar         string    `json:"avatar"`
	Blockchain     string    `json:"blockchain"`
	WalletAddress  string    `json:"wallet_address"`
	WalletID       string    `json:"wallet_id"`
	CardCustomerID string    `json:"card_customer_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	LastLogin      time.Time `json:"last_login,omitempty"`
}

// Summarize projects a user record into its client-facing shape.
func Summarize(u User) Summary {
	return Summary{
		PhoneNumber:    u.PhoneNumber,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		Tier:           u.Tier,
		Avatar:         u.Avatar,
		Blockchain:     u.Blockchain,
		WalletAddress:  u.WalletAddress,
		WalletID:       u.WalletID,
		CardCustomerID: u.CardCustomerID,
		CreatedAt:      u.CreatedAt,
		LastLogin:      u.LastLogin,
	}
}
