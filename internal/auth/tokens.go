package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kobo-pay/kobo_pay/internal/apperr"
)

// TokenIssuer signs and verifies session tokens. A session token binds to a
// phone number only; it does not guarantee the user record still exists.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer builds a token issuer with the given signing secret and lifetime.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Sign issues a session token for the phone number.
func (t *TokenIssuer) Sign(phone string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"phone": phone,
		"iat":   now.Unix(),
		"exp":   now.Add(t.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify validates signature and expiry, returning the bound phone number.
func (t *TokenIssuer) Verify(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", apperr.Auth("invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperr.Auth("invalid token claims")
	}
	phone, _ := claims["phone"].(string)
	if phone == "" {
		return "", apperr.Auth("token missing subject")
	}
	return phone, nil
}
