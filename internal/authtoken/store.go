package authtoken

import (
	"context"
	"fmt"
	"log"
	"time"

	apperrors "github.com/bramble-app/bramble-go/pkg/errors"
)

const (
	// CanonicalKey is the one storage key that owns the current token.
	CanonicalKey = "auth_token"

	// retryDelay mitigates a first-read race some storage backends show on
	// cold start: one short wait, one retry, nothing more.
	retryDelay = 120 * time.Millisecond
)

// LegacyKeys are older key names migrated to CanonicalKey on read.
var LegacyKeys = []string{"token", "authToken"}

// Storage is the minimal key-value surface the token store needs.
// Implementations must tolerate missing keys by returning "".
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(keys ...string) error
}

// Store persists the session credential under CanonicalKey, keeping the value
// normalized and migrating legacy keys away whenever it reads them.
type Store struct {
	storage Storage

	// sleep is swappable in tests
	sleep func(context.Context, time.Duration)
}

func NewStore(storage Storage) *Store {
	return &Store{storage: storage, sleep: sleepFor}
}

// Load reads the canonical key and all legacy keys in a fixed order and takes
// the first non-empty value. If nothing is found it waits once and retries.
// On success the normalized token is written back to the canonical key and the
// legacy keys are removed.
func (s *Store) Load(ctx context.Context) (string, error) {
	token, err := s.read()
	if err != nil {
		return "", err
	}

	if token == "" {
		s.sleep(ctx, retryDelay)
		if token, err = s.read(); err != nil {
			return "", err
		}
	}

	if token == "" {
		return "", nil
	}

	if err := s.storage.Set(CanonicalKey, token); err != nil {
		return "", apperrors.Wrap(apperrors.CodeInternal, "failed to persist migrated token", err)
	}
	if err := s.storage.Delete(LegacyKeys...); err != nil {
		return "", apperrors.Wrap(apperrors.CodeInternal, "failed to remove legacy token keys", err)
	}

	log.Printf("[auth] loaded token -> %s", tokenMeta(token))
	return token, nil
}

// Save normalizes and persists a raw token. Unusable tokens are rejected with
// ErrInvalidCredential and nothing is written.
func (s *Store) Save(raw string) (string, error) {
	token := Normalize(raw)
	if token == "" {
		return "", apperrors.ErrInvalidCredential
	}

	if err := s.storage.Set(CanonicalKey, token); err != nil {
		return "", apperrors.Wrap(apperrors.CodeInternal, "failed to persist token", err)
	}
	if err := s.storage.Delete(LegacyKeys...); err != nil {
		return "", apperrors.Wrap(apperrors.CodeInternal, "failed to remove legacy token keys", err)
	}

	log.Printf("[auth] token saved -> %s", tokenMeta(token))
	return token, nil
}

// Clear removes the canonical key and every legacy key.
func (s *Store) Clear() error {
	keys := append([]string{CanonicalKey}, LegacyKeys...)
	if err := s.storage.Delete(keys...); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to remove token", err)
	}
	log.Println("[auth] token removed")
	return nil
}

// read scans canonical-then-legacy keys and normalizes the first hit.
func (s *Store) read() (string, error) {
	keys := append([]string{CanonicalKey}, LegacyKeys...)
	for _, key := range keys {
		value, err := s.storage.Get(key)
		if err != nil {
			return "", apperrors.Wrap(apperrors.CodeInternal, "failed to read token storage", err)
		}
		if value != "" {
			return Normalize(value), nil
		}
	}
	return "", nil
}

func sleepFor(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

// tokenMeta renders a token for logs without leaking it.
func tokenMeta(token string) string {
	if token == "" {
		return "null"
	}
	prefix := token
	if len(prefix) > 12 {
		prefix = prefix[:12]
	}
	return fmt.Sprintf("%s... (len=%d)", prefix, len(token))
}
