package kv

import (
	"context"
	"errors"

	"github.com/zalando/go-keyring"
)

const DefaultKeyringService = "mdviewer"

// KeyringStore keeps values in the system keyring. Some platforms cap secret
// size (Windows credential manager at ~2.5KB), which a full recent list can
// approach; prefer file or sqlite there.
type KeyringStore struct {
	Service string
}

func (s *KeyringStore) Get(_ context.Context, key, def string) string {
	val, err := keyring.Get(s.service(), key)
	if err != nil {
		return def
	}
	return val
}

func (s *KeyringStore) Put(_ context.Context, key, value string) error {
	return keyring.Set(s.service(), key, value)
}

// Delete removes a key; a missing key is not an error.
func (s *KeyringStore) Delete(key string) error {
	err := keyring.Delete(s.service(), key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

func (s *KeyringStore) service() string {
	if s != nil && s.Service != "" {
		return s.Service
	}
	return DefaultKeyringService
}

// KeyringAvailable reports whether a system keyring backend appears supported.
func KeyringAvailable() bool {
	_, err := keyring.Get(DefaultKeyringService, "_probe_")
	if err == nil || errors.Is(err, keyring.ErrNotFound) {
		return true
	}
	return !errors.Is(err, keyring.ErrUnsupportedPlatform)
}
