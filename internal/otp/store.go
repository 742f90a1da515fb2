package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	otpKeyPrefix      = "otp:v1:"
	verifiedKeyPrefix = "verified:v1:"

	// Keys carry a generous Redis TTL purely as garbage collection; expiry
	// is always enforced by the expiresAt field checked on read.
	storeGCMargin = 24 * time.Hour
)

// Store persists OTP and verified-number documents keyed by phone number.
type Store interface {
	SaveOTP(ctx context.Context, phone string, record Record) error
	GetOTP(ctx context.Context, phone string) (Record, bool, error)
	DeleteOTP(ctx context.Context, phone string) error
	SaveVerification(ctx context.Context, phone string, v Verification) error
	GetVerification(ctx context.Context, phone string) (Verification, bool, error)
	// ConsumeVerification removes and returns the record in one step, so a
	// verification unlocks at most one sensitive operation.
	ConsumeVerification(ctx context.Context, phone string) (Verification, bool, error)
	DeleteVerification(ctx context.Context, phone string) error
}

// RedisStore implements Store on Redis with JSON document values.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore builds a Redis-backed OTP store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) SaveOTP(ctx context.Context, phone string, record Record) error {
	return s.save(ctx, otpKeyPrefix+phone, record, record.ExpiresAt)
}

func (s *RedisStore) GetOTP(ctx context.Context, phone string) (Record, bool, error) {
	var record Record
	ok, err := s.get(ctx, otpKeyPrefix+phone, &record)
	return record, ok, err
}

func (s *RedisStore) DeleteOTP(ctx context.Context, phone string) error {
	return s.client.Del(ctx, otpKeyPrefix+phone).Err()
}

func (s *RedisStore) SaveVerification(ctx context.Context, phone string, v Verification) error {
	return s.save(ctx, verifiedKeyPrefix+phone, v, v.ExpiresAt)
}

func (s *RedisStore) GetVerification(ctx context.Context, phone string) (Verification, bool, error) {
	var v Verification
	ok, err := s.get(ctx, verifiedKeyPrefix+phone, &v)
	return v, ok, err
}

func (s *RedisStore) ConsumeVerification(ctx context.Context, phone string) (Verification, bool, error) {
	raw, err := s.client.GetDel(ctx, verifiedKeyPrefix+phone).Result()
	if errors.Is(err, redis.Nil) {
		return Verification{}, false, nil
	}
	if err != nil {
		return Verification{}, false, fmt.Errorf("consume verification: %w", err)
	}
	var v Verification
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return Verification{}, false, fmt.Errorf("decode verification: %w", err)
	}
	return v, true, nil
}

func (s *RedisStore) DeleteVerification(ctx context.Context, phone string) error {
	return s.client.Del(ctx, verifiedKeyPrefix+phone).Err()
}

func (s *RedisStore) save(ctx context.Context, key string, doc any, expiresAt time.Time) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	ttl := time.Until(expiresAt) + storeGCMargin
	if err := s.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("store document: %w", err)
	}
	return nil
}

func (s *RedisStore) get(ctx context.Context, key string, doc any) (bool, error) {
	raw, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load document: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), doc); err != nil {
		return false, fmt.Errorf("decode document: %w", err)
	}
	return true, nil
}
